package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valksor/go-taktwerk/internal/config"
	"github.com/valksor/go-taktwerk/internal/log"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "takt",
	Short: "Isolated AI coding tasks",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Long: `Taktwerk runs AI-agent coding tasks in isolation.

Each task gets its own git branch and worktree, runs through a declarative
workflow of agent steps, and finishes by merging into the base branch or
pushing to the remote.

Quick start:
  takt start "Fix the login timeout" --input prompt="..."
  takt list
  takt finish 1 --merge`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first so tokens are visible to everything after it.
		if err := config.LoadDotEnvFromCwd(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load %s/.env: %v\n", config.Dir, err)
		}

		level := log.LevelInfo
		if quiet {
			level = log.LevelWarn
		}
		log.Configure(log.Options{
			Level:   level,
			Verbose: verbose,
		})
		return nil
	},
}

// Execute runs the root command with signal handling.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
}
