package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/valksor/go-taktwerk/internal/agent"
	"github.com/valksor/go-taktwerk/internal/agent/claude"
	"github.com/valksor/go-taktwerk/internal/agent/codex"
	"github.com/valksor/go-taktwerk/internal/agent/gemini"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List agent providers and their availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		providers := []agent.Agent{claude.New(), codex.New(), gemini.New()}
		sort.Slice(providers, func(i, j int) bool {
			return providers[i].Name() < providers[j].Name()
		})

		for _, a := range providers {
			desc := a.Descriptor()
			status := "available"
			if err := a.CheckAvailable(); err != nil {
				status = fmt.Sprintf("unavailable: %v", err)
			}
			fmt.Printf("%s (binary %q): %s\n", a.Name(), desc.Binary, status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
