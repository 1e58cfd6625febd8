package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/todo/internal/observability"
)

var (
	statsJSON  bool
	statsSince string
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"metrics"},
	Short:   "Display activity metrics from the event log",
	Long: `Display counts derived from the event log: tasks added, completed,
reopened, edited, deleted and cleared, plus storage read and write failures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (event log may be disabled)")
		}

		sinceTime, err := observability.ParseSince(strings.TrimSpace(statsSince))
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		w := cmd.OutOrStdout()
		if statsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(w, string(data))
			return nil
		}

		fmt.Fprintf(w, "Metrics (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Fprintf(w, "  %-20s %d\n", "Events recorded:", metrics.EventCount)
		fmt.Fprintf(w, "  %-20s %d\n", "Tasks added:", metrics.TasksAdded)
		fmt.Fprintf(w, "  %-20s %d\n", "Tasks completed:", metrics.TasksDone)
		fmt.Fprintf(w, "  %-20s %d\n", "Tasks reopened:", metrics.TasksReopened)
		fmt.Fprintf(w, "  %-20s %d\n", "Tasks edited:", metrics.TasksEdited)
		fmt.Fprintf(w, "  %-20s %d\n", "Tasks deleted:", metrics.TasksDeleted)
		fmt.Fprintf(w, "  %-20s %d\n", "Tasks cleared:", metrics.TasksCleared)

		if metrics.ReadFailures > 0 || metrics.WriteFailures > 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %-20s %d\n", "Read failures:", metrics.ReadFailures)
			fmt.Fprintf(w, "  %-20s %d\n", "Write failures:", metrics.WriteFailures)
		}

		if metrics.OldestEvent != nil {
			fmt.Fprintf(w, "\n  %-20s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Fprintf(w, "  %-20s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show recent storage problems",
	Long: `Evaluate the event log for recent storage failures. A failed write
means the latest changes may be missing after a restart; a failed read means
the stored list could not be parsed and was discarded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized (event log may be disabled)")
		}

		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			return fmt.Errorf("evaluating alerts: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(alerts) == 0 {
			fmt.Fprintln(w, "No active alerts.")
			return nil
		}

		fmt.Fprintf(w, "%d active alert(s):\n\n", len(alerts))
		for _, alert := range alerts {
			fmt.Fprintf(w, "  [%s] %s\n", strings.ToUpper(string(alert.Severity)), alert.Message)
			fmt.Fprintf(w, "         last seen %s\n\n", alert.TriggeredAt.UTC().Format("2006-01-02 15:04 UTC"))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output metrics as JSON")
	statsCmd.Flags().StringVar(&statsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(alertsCmd)
}
