package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetInstructions string

var resetCmd = &cobra.Command{
	Use:   "reset <task>",
	Short: "Reset a task to NEW",
	Long: `Return a task to the NEW state from any status, clearing recorded step
progress. The isolated branch and worktree stay in place.

With --instructions, the follow-up text is stored as the "instructions"
input for the next run and folded into the task description.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cond, err := buildConductor(ctx)
		if err != nil {
			return err
		}

		t, err := cond.Reset(ctx, args[0], resetInstructions)
		if err != nil {
			return err
		}
		fmt.Printf("Task %s reset to %s\n", t.ID, t.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().StringVarP(&resetInstructions, "instructions", "i", "", "Follow-up instructions for the next run")
}
