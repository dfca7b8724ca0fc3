package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valksor/go-taktwerk/internal/workflow"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List available workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		cond, err := buildConductor(cmd.Context())
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, name := range workflow.BuiltInNames() {
			doc, err := cond.ResolveWorkflow(name)
			if err != nil {
				return err
			}
			seen[name] = true
			printWorkflow(name, doc, "built-in")
		}

		found, err := workflow.Discover(cond.WorkflowsDir())
		if err != nil {
			return err
		}
		for _, name := range workflow.Names(found) {
			if seen[name] {
				continue
			}
			doc, err := workflow.Load(found[name])
			if err != nil {
				fmt.Printf("%s\t(invalid: %v)\n", name, err)
				continue
			}
			printWorkflow(name, doc, "workspace")
		}
		return nil
	},
}

func printWorkflow(name string, doc *workflow.Document, origin string) {
	fmt.Printf("%s (%s, %d steps)", name, origin, len(doc.Steps))
	if doc.Description != "" {
		fmt.Printf(": %s", doc.Description)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
}
