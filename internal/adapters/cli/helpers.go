package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/minehaul-go/internal/adapters/scenario"
	"github.com/andrescamacho/minehaul-go/internal/infrastructure/config"
)

// scenarioFlags are the parameter overrides shared by solve, play and inspect
type scenarioFlags struct {
	fleet           int
	capacity        int
	loadTime        float64
	unloadTime      float64
	timePerDistance float64
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.fleet, "fleet", 0, "Override fleet size")
	cmd.Flags().IntVar(&f.capacity, "capacity", 0, "Override vehicle capacity")
	cmd.Flags().Float64Var(&f.loadTime, "load-time", 0, "Override load time per mine visit")
	cmd.Flags().Float64Var(&f.unloadTime, "unload-time", 0, "Override unload time at the depot")
	cmd.Flags().Float64Var(&f.timePerDistance, "time-per-distance", 0, "Override travel time per distance unit")
}

func (f *scenarioFlags) overrides() scenario.Overrides {
	return scenario.Overrides{
		FleetSize:       f.fleet,
		Capacity:        f.capacity,
		LoadTime:        f.loadTime,
		UnloadTime:      f.unloadTime,
		TimePerDistance: f.timePerDistance,
	}
}

// resolveScenarioPath picks the scenario from the argument or the user default
// Priority: positional argument > default set with 'minehaul config set-scenario'
func resolveScenarioPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no scenario specified and failed to load user config: %w", err)
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", fmt.Errorf("no scenario specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultScenario != "" {
		return userCfg.DefaultScenario, nil
	}

	return "", fmt.Errorf("no scenario specified: pass a scenario path or set a default with 'minehaul config set-scenario'")
}

// loadScenario resolves and loads the scenario named by args
func loadScenario(args []string, flags *scenarioFlags) (*scenario.Scenario, error) {
	path, err := resolveScenarioPath(args)
	if err != nil {
		return nil, err
	}
	return scenario.Load(path, flags.overrides())
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatTimestamp formats a timestamp for display
func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// truncate truncates a string to max length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// maskPassword hides the password of a database URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func parseDuration(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration cannot be negative")
	}
	return d, nil
}
