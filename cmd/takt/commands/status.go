package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <task>",
	Short: "Show a task's status and progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cond, err := buildConductor(cmd.Context())
		if err != nil {
			return err
		}

		t, err := cond.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Task:     %s\n", t.ID)
		fmt.Printf("Title:    %s\n", t.Title)
		fmt.Printf("Status:   %s\n", t.Status)
		fmt.Printf("Workflow: %s\n", t.Workflow)
		if t.Agent != "" {
			fmt.Printf("Agent:    %s\n", t.Agent)
		}
		if t.Synced() {
			fmt.Printf("Issue:    %s#%d\n", t.Tracker, t.IssueNumber)
		}
		if t.FailReason != "" {
			fmt.Printf("Failure:  %s\n", t.FailReason)
		}
		if len(t.DoneSteps) > 0 {
			fmt.Println("Done steps:")
			for _, id := range t.DoneSteps {
				fmt.Printf("  - %s\n", id)
			}
		}
		if !t.CompletedAt.IsZero() {
			fmt.Printf("Completed: %s\n", t.CompletedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
