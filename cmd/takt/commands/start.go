package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valksor/go-taktwerk/internal/conductor"
)

var (
	startWorkflow    string
	startAgent       string
	startDescription string
	startInputs      []string
	startRegister    bool
	startExpand      bool
)

var startCmd = &cobra.Command{
	Use:   "start <title>",
	Short: "Start a new task",
	Long: `Register a task and run its workflow in an isolated branch and worktree.

Inputs are passed with repeated --input flags and validated against the
workflow before anything runs; every missing required input is reported
at once.

With --expand, an agent fleshes out a bare title into a description and
extracts declared inputs from the free text before validation.

Examples:
  takt start "Fix login timeout" --input prompt="Sessions expire too early"
  takt start "Refactor parser" --workflow implement --agent codex --input prompt="..."
  takt start "Fix login timeout in the session store" --expand
  takt start "Later task" --register-only`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&startWorkflow, "workflow", "w", "", "Workflow name (default from config)")
	startCmd.Flags().StringVarP(&startAgent, "agent", "a", "", "Agent provider (default from config)")
	startCmd.Flags().StringVarP(&startDescription, "description", "d", "", "Task description")
	startCmd.Flags().StringArrayVarP(&startInputs, "input", "i", nil, "Workflow input as name=value (repeatable)")
	startCmd.Flags().BoolVar(&startRegister, "register-only", false, "Register the task without running it")
	startCmd.Flags().BoolVar(&startExpand, "expand", false, "Expand the brief with an agent before validation")
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cond, err := buildConductor(ctx)
	if err != nil {
		return err
	}

	inputs, err := parseInputs(startInputs)
	if err != nil {
		return err
	}

	opts := conductor.StartOptions{
		Title:       args[0],
		Description: startDescription,
		Workflow:    startWorkflow,
		Agent:       startAgent,
		Inputs:      inputs,
		Expand:      startExpand,
	}

	if startRegister {
		t, err := cond.Register(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Registered task %s: %s\n", t.ID, t.Title)
		fmt.Printf("Run it with: takt run %s\n", t.ID)
		return nil
	}

	t, err := cond.Start(ctx, opts)
	if err != nil {
		if t != nil {
			fmt.Printf("Task %s failed; resume with: takt run %s\n", t.ID, t.ID)
		}
		return err
	}
	fmt.Printf("Task %s completed: %s\n", t.ID, t.Title)
	return nil
}
