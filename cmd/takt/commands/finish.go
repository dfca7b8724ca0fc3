package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valksor/go-taktwerk/internal/conductor"
)

var (
	finishMerge   bool
	finishPush    bool
	finishResolve bool
	finishCleanup bool
)

var finishCmd = &cobra.Command{
	Use:   "finish <task>",
	Short: "Merge or push a completed task's work",
	Long: `Integrate a completed task's branch: merge it into the base branch, or
push it to the remote for review.

A conflicted merge is aborted by default so the base branch is never left
mid-merge. With --resolve the task's agent attempts to resolve each
conflicted file before the merge concludes.

Examples:
  takt finish 1 --merge
  takt finish 1 --merge --resolve --cleanup
  takt finish 1 --push`,
	Args: cobra.ExactArgs(1),
	RunE: runFinish,
}

func init() {
	rootCmd.AddCommand(finishCmd)

	finishCmd.Flags().BoolVar(&finishMerge, "merge", false, "Merge the task branch into the base branch")
	finishCmd.Flags().BoolVar(&finishPush, "push", false, "Push the task branch to the remote")
	finishCmd.Flags().BoolVar(&finishResolve, "resolve", false, "Let the agent resolve merge conflicts")
	finishCmd.Flags().BoolVar(&finishCleanup, "cleanup", false, "Remove the worktree and branch after merging")
}

func runFinish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if finishMerge == finishPush {
		return fmt.Errorf("pass exactly one of --merge or --push")
	}

	cond, err := buildConductor(ctx)
	if err != nil {
		return err
	}

	mode := conductor.FinishPush
	if finishMerge {
		mode = conductor.FinishMerge
	}

	t, err := cond.Finish(ctx, args[0], conductor.FinishOptions{
		Mode:             mode,
		ResolveConflicts: finishResolve,
		Cleanup:          finishCleanup,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Task %s is now %s\n", t.ID, t.Status)
	return nil
}
