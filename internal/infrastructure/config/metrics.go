package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Textfile receives the registry in exposition format when a command ends
	Textfile string `mapstructure:"textfile" yaml:"textfile,omitempty"`

	// Port for the HTTP metrics server during long-running commands (0 = no server)
	Port int `mapstructure:"port" yaml:"port,omitempty" validate:"omitempty,min=1024,max=65535"`

	// Host to bind the metrics HTTP server (default: localhost for security)
	Host string `mapstructure:"host" yaml:"host"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path" yaml:"path"`
}
