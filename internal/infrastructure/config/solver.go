package config

import "time"

// SolverConfig selects and bounds the dispatch solver
type SolverConfig struct {
	// Strategy: exact or greedy
	Strategy string `mapstructure:"strategy" yaml:"strategy" validate:"required,oneof=exact greedy"`

	// Workers shards the exact search root over goroutines (1 = sequential)
	Workers int `mapstructure:"workers" yaml:"workers" validate:"min=1,max=256"`

	// MaxNodes caps expanded fleet states (0 = unlimited)
	MaxNodes int64 `mapstructure:"max_nodes" yaml:"max_nodes" validate:"min=0"`

	// Timeout caps wall-clock solve time (0 = unlimited)
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=0"`

	// MaxTripStops caps mines visited per trip (0 = unlimited)
	MaxTripStops int `mapstructure:"max_trip_stops" yaml:"max_trip_stops" validate:"min=0"`

	// Canonicalize merges fleet states that differ only by identical vehicles
	Canonicalize bool `mapstructure:"canonicalize" yaml:"canonicalize"`
}
