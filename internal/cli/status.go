package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the list",
	Long: `Print how many tasks exist, how many are active and completed, and
whether clearing completed tasks would do anything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := requireList()
		if err != nil {
			return err
		}

		tasks := list.Tasks()
		v := core.Project(tasks, models.FilterAll)
		w := cmd.OutOrStdout()

		if v.Total == 0 {
			fmt.Fprintln(w, "No todos yet.")
			return nil
		}

		fmt.Fprintf(w, "  %-12s %d\n", "Total:", v.Total)
		fmt.Fprintf(w, "  %-12s %d\n", "Active:", v.Remaining)
		fmt.Fprintf(w, "  %-12s %d\n", "Completed:", v.Total-v.Remaining)
		fmt.Fprintln(w)
		if v.AllCompleted {
			fmt.Fprintln(w, "All tasks completed.")
		} else {
			fmt.Fprintln(w, itemsLeft(v.Remaining))
		}
		if v.CanClearCompleted {
			fmt.Fprintln(w, "Run 'todo clear' to remove completed tasks.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
