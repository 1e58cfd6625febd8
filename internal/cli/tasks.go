package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

// requireList returns the configured list or an error when app
// initialization did not run.
func requireList() (core.ListService, error) {
	if List == nil {
		return nil, fmt.Errorf("task list not initialized")
	}
	return List, nil
}

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a task to the top of the list",
	Long: `Add a new active task. All arguments are joined with spaces and
surrounding whitespace is trimmed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := requireList()
		if err != nil {
			return err
		}

		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return fmt.Errorf("task text must not be blank")
		}

		tasks := list.Add(text)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", shortID(tasks[0].ID), tasks[0].Text)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:               "toggle <ref>",
	Aliases:           []string{"done"},
	Short:             "Mark a task completed, or active again",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskRefs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := requireList()
		if err != nil {
			return err
		}

		task, err := list.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("toggling task: %w", err)
		}
		list.Toggle(task.ID)

		state := "completed"
		if task.Completed {
			state = "active"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s  %s\n", shortID(task.ID), state, task.Text)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:               "edit <ref> <text...>",
	Short:             "Replace the text of a task",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completeTaskRefs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := requireList()
		if err != nil {
			return err
		}

		task, err := list.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("editing task: %w", err)
		}
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		if text == "" {
			return fmt.Errorf("task text must not be blank")
		}

		list.Edit(task.ID, text)
		fmt.Fprintf(cmd.OutOrStdout(), "Edited %s  %s\n", shortID(task.ID), text)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:               "rm <ref>",
	Aliases:           []string{"delete"},
	Short:             "Delete a task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskRefs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := requireList()
		if err != nil {
			return err
		}

		task, err := list.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		list.Delete(task.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s  %s\n", shortID(task.ID), task.Text)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every completed task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := requireList()
		if err != nil {
			return err
		}

		before := list.Tasks()
		if !core.CanClearCompleted(before) {
			fmt.Fprintln(cmd.OutOrStdout(), "No completed tasks to clear.")
			return nil
		}

		after := list.ClearCompleted()
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s). %s\n",
			len(before)-len(after), itemsLeft(core.RemainingCount(after)))
		return nil
	},
}

// shortID abbreviates an id for display. Eight characters of a UUID are
// enough for Resolve to accept as a prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// itemsLeft renders the remaining-count footer.
func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

// filterFlagValue parses a --filter flag, falling back to the configured
// default filter when the flag is empty.
func filterFlagValue(raw string) (models.FilterMode, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultFilter, nil
	}
	return models.ParseFilterMode(raw)
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)
}
