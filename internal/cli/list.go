package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

var (
	listFilter string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show tasks, newest first",
	Long: `Show the task list, newest first, followed by the number of active
tasks left.

Use --filter to show only active or completed tasks. Positions always refer
to the full list, so they stay valid for toggle, edit and rm whatever filter
is applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := requireList()
		if err != nil {
			return err
		}

		mode, err := filterFlagValue(listFilter)
		if err != nil {
			return err
		}

		tasks := list.Tasks()
		view := core.Project(tasks, mode)

		if listJSON {
			return printViewJSON(cmd.OutOrStdout(), tasks, view)
		}
		printView(cmd.OutOrStdout(), tasks, view)
		return nil
	},
}

// listEntry is one row of the JSON list output.
type listEntry struct {
	Position int `json:"position"`
	models.Task
}

type listOutput struct {
	Filter            models.FilterMode `json:"filter"`
	Tasks             []listEntry       `json:"tasks"`
	Total             int               `json:"total"`
	Remaining         int               `json:"remaining"`
	AllCompleted      bool              `json:"all_completed"`
	CanClearCompleted bool              `json:"can_clear_completed"`
}

func printViewJSON(w io.Writer, all models.TaskList, view core.View) error {
	out := listOutput{
		Filter:            view.Mode,
		Tasks:             make([]listEntry, 0, len(view.Tasks)),
		Total:             view.Total,
		Remaining:         view.Remaining,
		AllCompleted:      view.AllCompleted,
		CanClearCompleted: view.CanClearCompleted,
	}
	positions := positionsOf(all)
	for _, t := range view.Tasks {
		out.Tasks = append(out.Tasks, listEntry{Position: positions[t.ID], Task: t})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting tasks as JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printView writes the table form of view. all is the unfiltered list the
// printed positions refer to.
func printView(w io.Writer, all models.TaskList, view core.View) {
	if view.Total == 0 {
		fmt.Fprintln(w, "No todos yet. Add one with 'todo add <text>'.")
		return
	}

	positions := positionsOf(all)
	if len(view.Tasks) == 0 {
		fmt.Fprintf(w, "No %s tasks.\n", view.Mode)
	}
	for _, t := range view.Tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "%3d. [%s] %-40s %s\n", positions[t.ID], mark, t.Text, shortID(t.ID))
	}

	fmt.Fprintf(w, "\n%s\n", itemsLeft(view.Remaining))
}

// positionsOf maps each task id to its 1-based position in list.
func positionsOf(list models.TaskList) map[string]int {
	positions := make(map[string]int, len(list))
	for i, t := range list {
		positions[t.ID] = i + 1
	}
	return positions
}

func completeFilterModes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"all\tEvery task",
		"active\tTasks not yet completed",
		"completed\tTasks marked done",
	}, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Show only all, active or completed tasks (default from view.default_filter)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output the list as JSON")
	_ = listCmd.RegisterFlagCompletionFunc("filter", completeFilterModes)
	rootCmd.AddCommand(listCmd)
}
