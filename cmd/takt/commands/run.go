package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run or resume a task",
	Long: `Run a registered task, or resume one that failed or was interrupted.

Steps already recorded as done are skipped, so resuming continues from
the first unfinished step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cond, err := buildConductor(ctx)
		if err != nil {
			return err
		}

		t, err := cond.Resume(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Task %s completed: %s\n", t.ID, t.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
