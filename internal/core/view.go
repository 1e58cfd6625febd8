package core

import "github.com/valter-silva-au/todo/pkg/models"

// View is everything a renderer needs to draw one frame of the list. It is
// derived from a TaskList snapshot and never cached.
type View struct {
	Mode              models.FilterMode
	Tasks             models.TaskList
	Total             int
	Remaining         int
	AllCompleted      bool
	CanClearCompleted bool
}

// Project computes the View of list under mode.
func Project(list models.TaskList, mode models.FilterMode) View {
	if !mode.Valid() {
		mode = models.FilterAll
	}
	return View{
		Mode:              mode,
		Tasks:             Filter(list, mode),
		Total:             len(list),
		Remaining:         RemainingCount(list),
		AllCompleted:      AllCompleted(list),
		CanClearCompleted: CanClearCompleted(list),
	}
}

// Filter returns the tasks of list selected by mode, in list order.
// FilterAll, and any unrecognized mode, returns list itself.
func Filter(list models.TaskList, mode models.FilterMode) models.TaskList {
	switch mode {
	case models.FilterActive:
		return selectTasks(list, false)
	case models.FilterCompleted:
		return selectTasks(list, true)
	default:
		return list
	}
}

func selectTasks(list models.TaskList, completed bool) models.TaskList {
	out := make(models.TaskList, 0, len(list))
	for _, t := range list {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// RemainingCount returns the number of tasks not yet completed.
func RemainingCount(list models.TaskList) int {
	n := 0
	for _, t := range list {
		if !t.Completed {
			n++
		}
	}
	return n
}

// AllCompleted reports whether no task in list is still active. It is true
// for an empty list.
func AllCompleted(list models.TaskList) bool {
	return RemainingCount(list) == 0
}

// CanClearCompleted reports whether clearing completed tasks would remove
// anything. It is false when every task is active, including when list is
// empty.
func CanClearCompleted(list models.TaskList) bool {
	return RemainingCount(list) != len(list)
}
