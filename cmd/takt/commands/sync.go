package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncTracker string

var syncCmd = &cobra.Command{
	Use:   "sync <task>",
	Short: "Create a tracker issue for a task",
	Long: `Create an issue in the configured tracker and adopt its number as the
task's identity. From then on the task is addressed by issue number; the
old local id keeps working for lookups until the record is deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cond, err := buildConductor(ctx)
		if err != nil {
			return err
		}

		t, err := cond.Sync(ctx, args[0], syncTracker)
		if err != nil {
			return err
		}
		fmt.Printf("Task synced to %s#%d\n", t.Tracker, t.IssueNumber)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncTracker, "tracker", "", "Tracker name (default from config)")
}
