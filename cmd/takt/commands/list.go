package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cond, err := buildConductor(cmd.Context())
		if err != nil {
			return err
		}

		tasks, err := cond.List()
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks. Start one with: takt start <title>")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tWORKFLOW\tISSUE\tTITLE")
		for _, t := range tasks {
			issue := "-"
			if t.Synced() {
				issue = fmt.Sprintf("%s#%d", t.Tracker, t.IssueNumber)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Workflow, issue, t.Title)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
