package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	logLevel   string
	jsonOutput bool
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "minehaul",
		Short: "minehaul - plan and replay haul-truck dispatch for a mine site",
		Long: `minehaul computes minimum-makespan dispatch plans for a fleet of haul trucks
moving material from mines to a single depot, and replays plans tick by tick
with FIFO loading bays.

Scenarios are YAML files or directories holding an edges.csv/nodes.csv pair.

Examples:
  minehaul solve scenarios/north-pit.yaml
  minehaul solve scenarios/north-pit.yaml --fleet 3 --strategy greedy --save
  minehaul play scenarios/north-pit.yaml --pace 5
  minehaul play --plan plan-north-pit-a3f8e2b1 --unload-bays 1
  minehaul inspect data/pit
  minehaul plans list
  minehaul config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config.yaml (default: ./config.yaml, ./configs, /etc/minehaul)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print machine-readable JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewSolveCommand())
	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewPlansCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command; SIGINT and SIGTERM cancel the running solve or playback
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
