package core

import (
	"testing"

	"github.com/valter-silva-au/todo/pkg/models"
)

func sampleList() models.TaskList {
	return models.TaskList{
		{ID: "c", Text: "C", Completed: false},
		{ID: "b", Text: "B", Completed: true},
		{ID: "a", Text: "A", Completed: false},
	}
}

func ids(list models.TaskList) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		mode models.FilterMode
		want []string
	}{
		{models.FilterAll, []string{"c", "b", "a"}},
		{models.FilterActive, []string{"c", "a"}},
		{models.FilterCompleted, []string{"b"}},
		{models.FilterMode("bogus"), []string{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := ids(Filter(sampleList(), tt.mode))
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%s) = %v, want %v", tt.mode, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Filter(%s) = %v, want %v", tt.mode, got, tt.want)
				}
			}
		})
	}
}

func TestFilter_AllReturnsInputUnchanged(t *testing.T) {
	list := sampleList()
	got := Filter(list, models.FilterAll)
	if &got[0] != &list[0] {
		t.Error("FilterAll should return the input sequence itself")
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	list := sampleList()
	Filter(list, models.FilterActive)
	Filter(list, models.FilterCompleted)

	want := sampleList()
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("input mutated at %d: %+v", i, list[i])
		}
	}
}

func TestFilter_EmptyList(t *testing.T) {
	for _, mode := range models.FilterModes() {
		if got := Filter(models.TaskList{}, mode); len(got) != 0 {
			t.Errorf("Filter(empty, %s) = %v", mode, got)
		}
	}
}

func TestRemainingCount(t *testing.T) {
	if got := RemainingCount(sampleList()); got != 2 {
		t.Errorf("RemainingCount = %d, want 2", got)
	}
	if got := RemainingCount(nil); got != 0 {
		t.Errorf("RemainingCount(nil) = %d, want 0", got)
	}
}

func TestAllCompletedAndCanClear(t *testing.T) {
	tests := []struct {
		name             string
		list             models.TaskList
		wantAllCompleted bool
		wantCanClear     bool
	}{
		{"empty", models.TaskList{}, true, false},
		{"all active", models.TaskList{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}}, false, false},
		{"mixed", sampleList(), false, true},
		{"all completed", models.TaskList{{ID: "a", Text: "A", Completed: true}}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllCompleted(tt.list); got != tt.wantAllCompleted {
				t.Errorf("AllCompleted = %v, want %v", got, tt.wantAllCompleted)
			}
			if got := CanClearCompleted(tt.list); got != tt.wantCanClear {
				t.Errorf("CanClearCompleted = %v, want %v", got, tt.wantCanClear)
			}
		})
	}
}

func TestProject(t *testing.T) {
	v := Project(sampleList(), models.FilterActive)

	if v.Mode != models.FilterActive {
		t.Errorf("Mode = %q", v.Mode)
	}
	if len(v.Tasks) != 2 || v.Total != 3 || v.Remaining != 2 {
		t.Errorf("unexpected view %+v", v)
	}
	if v.AllCompleted || !v.CanClearCompleted {
		t.Errorf("unexpected gating flags %+v", v)
	}

	if got := Project(sampleList(), "nonsense").Mode; got != models.FilterAll {
		t.Errorf("invalid mode should project as all, got %q", got)
	}
}
