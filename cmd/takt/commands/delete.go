package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteKeepWorkspace bool

var deleteCmd = &cobra.Command{
	Use:   "delete <task>",
	Short: "Delete a task",
	Long: `Delete a task record and, unless --keep-workspace is set, its branch
and worktree. Uncommitted changes in the worktree are lost.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cond, err := buildConductor(ctx)
		if err != nil {
			return err
		}

		if err := cond.Delete(ctx, args[0], !deleteKeepWorkspace); err != nil {
			return err
		}
		fmt.Printf("Task %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteKeepWorkspace, "keep-workspace", false, "Keep the git branch and worktree")
}
