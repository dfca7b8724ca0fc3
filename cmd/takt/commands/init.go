package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valksor/go-taktwerk/internal/config"
	"github.com/valksor/go-taktwerk/internal/storage"
	"github.com/valksor/go-taktwerk/internal/vcs"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the taktwerk workspace",
	Long: `Create the ` + config.Dir + ` directory with a default config.yaml and the
task and workflow directories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		git, err := vcs.New(".")
		if err != nil {
			return fmt.Errorf("takt must run inside a git repository: %w", err)
		}

		ws, err := storage.Open(git.Root())
		if err != nil {
			return err
		}
		if err := ws.EnsureInitialized(); err != nil {
			return err
		}
		if err := config.Save(git.Root(), config.NewDefault()); err != nil {
			return err
		}

		fmt.Printf("Initialized %s in %s\n", config.Dir, git.Root())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
