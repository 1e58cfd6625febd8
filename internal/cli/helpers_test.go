package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/storage"
	"github.com/valter-silva-au/todo/pkg/models"
)

type seqIDGen struct{ n int }

func (g *seqIDGen) GenerateTaskID() string {
	g.n++
	return fmt.Sprintf("t%03d-0000-4000-8000-000000000000", g.n)
}

// useList installs a fresh in-memory list as the package List for the
// duration of the test and returns it.
func useList(t *testing.T, texts ...string) *core.PersistedList {
	t.Helper()
	l := core.NewPersistedList(storage.NewMemoryStore(), core.PersistedListOpts{IDGen: &seqIDGen{}})
	l.Load()
	for _, text := range texts {
		l.Add(text)
	}

	origList, origFilter := List, DefaultFilter
	List, DefaultFilter = l, models.FilterAll
	t.Cleanup(func() {
		List, DefaultFilter = origList, origFilter
	})
	return l
}

// runCmd executes the root command with args and returns what it printed.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	listFilter, listJSON = "", false
	statsSince, statsJSON = "7d", false
	completionInstall = false

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}
