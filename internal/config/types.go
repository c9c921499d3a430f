// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Config is the effective pluginc configuration after merging
	// defaults, the config file, and environment overrides.
	Config struct {
		// Jobs is the number of plugin sources compiled concurrently.
		Jobs int `mapstructure:"jobs"`

		// Classpath holds extra library locations appended to every run's
		// classpath.
		Classpath []string `mapstructure:"classpath"`

		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file or override
// is present.
func DefaultConfig() *Config {
	return &Config{
		Jobs:      1,
		Classpath: nil,
		UI:        UIConfig{Verbose: false},
	}
}
