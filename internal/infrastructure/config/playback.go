package config

// PlaybackConfig controls the tick simulation and its pacing in the CLI
type PlaybackConfig struct {
	// TickDuration is the simulated time covered by one tick
	TickDuration float64 `mapstructure:"tick_duration" yaml:"tick_duration" validate:"gt=0"`

	// UnloadBays limits concurrent unloading at the depot (0 = unlimited)
	UnloadBays int `mapstructure:"unload_bays" yaml:"unload_bays" validate:"min=0"`

	// PacePerSecond is how many ticks the CLI renders per second (0 = unpaced)
	PacePerSecond float64 `mapstructure:"pace_per_second" yaml:"pace_per_second" validate:"min=0"`
}
