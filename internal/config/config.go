// Package config loads usdzview settings with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/philipparndt/usdzview/pkg/usdz"
)

// Persistence backends
const (
	BackendFragment = "fragment"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendNone     = "none"
)

// DragConfig holds marker drag settings
type DragConfig struct {
	UnlockDelay time.Duration `json:"unlockDelay" mapstructure:"unlockDelay"`
}

// ClickConfig holds click classification settings
type ClickConfig struct {
	Tolerance float64 `json:"tolerance" mapstructure:"tolerance"`
}

// MarkerConfig holds marker grab settings
type MarkerConfig struct {
	PickRadius float64 `json:"pickRadius" mapstructure:"pickRadius"`
}

// PersistenceConfig selects where measurements are kept
type PersistenceConfig struct {
	Backend  string `json:"backend" mapstructure:"backend"`
	Database string `json:"database" mapstructure:"database"`
}

// USDZConfig holds the external converter command. Command is a shell
// style line and takes precedence over the Converter argv.
type USDZConfig struct {
	Converter []string `json:"converter" mapstructure:"converter"`
	Command   string   `json:"command" mapstructure:"command"`
}

// Argv returns the converter argv template
func (c USDZConfig) Argv() ([]string, error) {
	if c.Command == "" {
		return c.Converter, nil
	}
	return usdz.ParseCommand(c.Command)
}

// WindowConfig holds the initial window size
type WindowConfig struct {
	Width  float32 `json:"width" mapstructure:"width"`
	Height float32 `json:"height" mapstructure:"height"`
}

// Settings is the typed view of the configuration
type Settings struct {
	LogLevel    string            `json:"logLevel" mapstructure:"logLevel"`
	Unit        string            `json:"unit" mapstructure:"unit"`
	Watch       bool              `json:"watch" mapstructure:"watch"`
	Drag        DragConfig        `json:"drag" mapstructure:"drag"`
	Click       ClickConfig       `json:"click" mapstructure:"click"`
	Marker      MarkerConfig      `json:"marker" mapstructure:"marker"`
	Persistence PersistenceConfig `json:"persistence" mapstructure:"persistence"`
	USDZ        USDZConfig        `json:"usdz" mapstructure:"usdz"`
	Window      WindowConfig      `json:"window" mapstructure:"window"`
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("unit", "cm")
	viper.SetDefault("watch", true)

	viper.SetDefault("drag.unlockDelay", "500ms")
	viper.SetDefault("click.tolerance", 5.0)
	viper.SetDefault("marker.pickRadius", 10.0)
	viper.SetDefault("persistence.backend", BackendFragment)
	viper.SetDefault("persistence.database", "~/.usdzview/measurements.db")
	viper.SetDefault("usdz.converter", usdz.DefaultCommand)

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 800)
}

// Load sets defaults, reads an optional usdzview config file and enables
// USDZVIEW_* environment overrides. An explicit configFile must exist;
// otherwise the standard locations are searched and may be empty.
func Load(configFile string) error {
	SetDefaults()

	viper.SetEnvPrefix("USDZVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		return nil
	}

	viper.SetConfigName("usdzview")
	for _, dir := range searchPaths() {
		viper.AddConfigPath(dir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func searchPaths() []string {
	var dirs []string
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "usdzview"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".usdzview"))
	}
	return append(dirs, ".")
}

// Current decodes the configuration into Settings
func Current() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	switch s.Persistence.Backend {
	case BackendFragment, BackendFile, BackendSQLite, BackendNone:
	default:
		return Settings{}, fmt.Errorf("invalid persistence.backend %q", s.Persistence.Backend)
	}
	if _, err := s.USDZ.Argv(); err != nil {
		return Settings{}, fmt.Errorf("invalid usdz.command: %w", err)
	}
	return s, nil
}

// ConfigFile returns the file the configuration was read from, if any
func ConfigFile() string {
	return viper.ConfigFileUsed()
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
