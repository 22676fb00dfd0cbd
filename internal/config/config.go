// Package config loads motor configuration in the same shape everywhere:
// defaults first, then an optional JSON config file, then CLI flags on top.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultSocketPath is where the motor listens unless overridden.
const DefaultSocketPath = "/tmp/aegis-motor.sock"

// Config represents the complete motor configuration
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	Socket  string `json:"socket" mapstructure:"socket"`

	Scanner ScannerConfig `json:"scanner" mapstructure:"scanner"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ScannerConfig contains the default file discovery settings used when a
// request does not supply its own extension list.
type ScannerConfig struct {
	Extensions     []string `json:"extensions" mapstructure:"extensions"`
	ExcludedDirs   []string `json:"excludedDirs" mapstructure:"excludedDirs"`
	ExcludeGlobs   []string `json:"excludeGlobs" mapstructure:"excludeGlobs"`
	FollowSymlinks bool     `json:"followSymlinks" mapstructure:"followSymlinks"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Socket:  DefaultSocketPath,
		Scanner: ScannerConfig{
			Extensions: []string{
				".c", ".h", ".cpp", ".hpp", ".cc", ".cxx", ".hxx",
			},
			ExcludedDirs: []string{
				".git", ".svn", ".hg",
				"node_modules", "__pycache__", ".venv", "venv",
				"build", "cmake-build-debug", "cmake-build-release",
				".idea", ".vscode",
			},
			ExcludeGlobs:   []string{},
			FollowSymlinks: false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <dir>/config.json.
// A missing file is not an error: defaults are returned.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("version", 1)
	v.SetDefault("socket", DefaultSocketPath)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Clean(dir))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal into config struct, filling unset sections from defaults
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Socket == "" {
		return &ConfigError{Field: "socket", Message: "socket path must not be empty"}
	}
	for _, ext := range c.Scanner.Extensions {
		if ext == "" || ext[0] != '.' {
			return &ConfigError{Field: "scanner.extensions", Message: "extensions must start with a dot"}
		}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
