package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/minehaul-go/internal/adapters/scenario"
	"github.com/andrescamacho/minehaul-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage minehaul configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (MH_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

User preferences (default scenario) are stored in ~/.minehaul/config.json

Examples:
  minehaul config show
  minehaul config show --yaml
  minehaul config set-scenario scenarios/north-pit.yaml
  minehaul config clear-scenario`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetScenarioCommand())
	cmd.AddCommand(newConfigClearScenarioCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the effective configuration settings.

Shows both system configuration and user preferences. With --yaml the
system configuration is printed in config file form.

Example:
  minehaul config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			if asYAML {
				encoder := yaml.NewEncoder(os.Stdout)
				encoder.SetIndent(2)
				defer encoder.Close()
				return encoder.Encode(cfg)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Println("Minehaul Configuration")
			fmt.Println("======================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:      %s\n", userConfigHandler.GetConfigPath())
			if userCfg.DefaultScenario != "" {
				fmt.Printf("  Default Scenario: %s\n", userCfg.DefaultScenario)
			} else {
				fmt.Printf("  Default Scenario: (not set)\n")
			}

			fmt.Println("\nSolver:")
			fmt.Printf("  Strategy:         %s\n", cfg.Solver.Strategy)
			fmt.Printf("  Workers:          %d\n", cfg.Solver.Workers)
			fmt.Printf("  Max Nodes:        %s\n", limitOrNone(cfg.Solver.MaxNodes))
			if cfg.Solver.Timeout > 0 {
				fmt.Printf("  Timeout:          %s\n", cfg.Solver.Timeout)
			} else {
				fmt.Printf("  Timeout:          (none)\n")
			}
			fmt.Printf("  Max Trip Stops:   %s\n", limitOrNone(int64(cfg.Solver.MaxTripStops)))
			fmt.Printf("  Canonicalize:     %t\n", cfg.Solver.Canonicalize)

			fmt.Println("\nPlayback:")
			fmt.Printf("  Tick Duration:    %s\n", formatNumber(cfg.Playback.TickDuration))
			fmt.Printf("  Unload Bays:      %s\n", limitOrNone(int64(cfg.Playback.UnloadBays)))
			fmt.Printf("  Pace:             %s ticks/s\n", formatNumber(cfg.Playback.PacePerSecond))

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}
			fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Textfile != "" {
				fmt.Printf("  Textfile:         %s\n", cfg.Metrics.Textfile)
			}
			if cfg.Metrics.Port > 0 {
				fmt.Printf("  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the configuration as YAML")

	return cmd
}

// newConfigSetScenarioCommand creates the config set-scenario subcommand
func newConfigSetScenarioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-scenario <path>",
		Short: "Set default scenario",
		Long: `Set the scenario used when solve, play or inspect get no argument.

The scenario is loaded once to verify it before it is stored.

Example:
  minehaul config set-scenario scenarios/north-pit.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve scenario path: %w", err)
			}

			sc, err := scenario.Load(path, scenario.Overrides{})
			if err != nil {
				return fmt.Errorf("scenario is not loadable: %w", err)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultScenario(path); err != nil {
				return fmt.Errorf("failed to set default scenario: %w", err)
			}

			fmt.Println("✓ Default scenario set successfully")
			fmt.Printf("  Name:  %s\n", sc.Name)
			fmt.Printf("  Path:  %s\n", path)
			fmt.Printf("  Mines: %d\n", len(sc.Network.Mines()))
			fmt.Printf("\nCommands will now use this scenario by default.\n")

			return nil
		},
	}

	return cmd
}

// newConfigClearScenarioCommand creates the config clear-scenario subcommand
func newConfigClearScenarioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-scenario",
		Short: "Clear default scenario setting",
		Long: `Remove the default scenario setting.

After clearing, solve, play and inspect need an explicit scenario path.

Example:
  minehaul config clear-scenario`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.ClearDefaultScenario(); err != nil {
				return fmt.Errorf("failed to clear default scenario: %w", err)
			}

			fmt.Println("✓ Default scenario cleared")
			return nil
		},
	}

	return cmd
}

func limitOrNone(v int64) string {
	if v <= 0 {
		return "(none)"
	}
	return fmt.Sprintf("%d", v)
}
