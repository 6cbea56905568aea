// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the daemon configuration
type Config struct {
	// Workspace configuration
	Workspaces WorkspaceConfig `mapstructure:"workspaces"`

	// Border presentation configuration
	Border BorderConfig `mapstructure:"border"`

	// Scripting runtime configuration
	Script ScriptConfig `mapstructure:"script"`

	// Control socket configuration
	IPC IPCConfig `mapstructure:"ipc"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// WorkspaceConfig contains layout tree policy settings
type WorkspaceConfig struct {
	PerOutput     int    `mapstructure:"per_output"`     // Workspaces created per attached output
	DefaultLayout string `mapstructure:"default_layout"` // horizontal, vertical, stacked, tabbed, floating
}

// BorderConfig contains window border presentation settings
type BorderConfig struct {
	Thickness uint32 `mapstructure:"thickness"`
	Color     string `mapstructure:"color"` // Hex, e.g. "#4c7899"
}

// ScriptConfig contains Lua runtime settings
type ScriptConfig struct {
	InitFile string `mapstructure:"init_file"` // Lua file executed at startup, empty to skip
}

// IPCConfig contains control socket settings
type IPCConfig struct {
	SocketPath string `mapstructure:"socket_path"` // Empty means the per-user default
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Workspaces: WorkspaceConfig{
			PerOutput:     2,
			DefaultLayout: "horizontal",
		},
		Border: BorderConfig{
			Thickness: 2,
			Color:     "#4c7899",
		},
		Script:  ScriptConfig{InitFile: ""},
		IPC:     IPCConfig{SocketPath: ""},
		Logging: LoggingConfig{LogLevel: ""},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("alder")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath("/etc/alder")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "alder"))
		}
		viper.AddConfigPath(".")
	}

	// Set defaults - individual fields so file values merge over them
	viper.SetDefault("workspaces.per_output", DefaultConfig.Workspaces.PerOutput)
	viper.SetDefault("workspaces.default_layout", DefaultConfig.Workspaces.DefaultLayout)
	viper.SetDefault("border.thickness", DefaultConfig.Border.Thickness)
	viper.SetDefault("border.color", DefaultConfig.Border.Color)
	viper.SetDefault("script.init_file", DefaultConfig.Script.InitFile)
	viper.SetDefault("ipc.socket_path", DefaultConfig.IPC.SocketPath)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/alder/alder.toml"
	}

	return filepath.Join(home, ".config", "alder", "alder.toml")
}
