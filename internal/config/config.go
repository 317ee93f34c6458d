// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Event translation settings
	Events EventsConfig `mapstructure:"events"`

	// Quartz backend settings
	Quartz QuartzConfig `mapstructure:"quartz"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// EventsConfig holds the platform input settings the display consults
type EventsConfig struct {
	DoubleClickTime     uint32 `mapstructure:"double_click_time"`     // Milliseconds
	DoubleClickDistance int    `mapstructure:"double_click_distance"` // Pixels, negative disables
	MaxScrollSteps      int    `mapstructure:"max_scroll_steps"`      // 0 means the built-in limit of 1024
}

// QuartzConfig contains backend-specific settings
type QuartzConfig struct {
	ScreenHeight  float64 `mapstructure:"screen_height"`  // Points, used to flip root coordinates
	LocaleCharset string  `mapstructure:"locale_charset"` // IANA name for key strings
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Events: EventsConfig{
			DoubleClickTime:     250,
			DoubleClickDistance: 5,
			MaxScrollSteps:      64,
		},
		Quartz: QuartzConfig{
			ScreenHeight:  1080,
			LocaleCharset: "UTF-8",
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config
	mu  sync.RWMutex

	// Override config path if set
	configPathOverride string
)

// EnvPrefix prefixes environment overrides, e.g. GDKEVENTS_EVENTS_MAX_SCROLL_STEPS.
const EnvPrefix = "GDKEVENTS"

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("gdkevents")
	viper.SetConfigType("toml")

	// If a specific path is set, use only that
	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gdkevents"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults - need to set individual fields for proper merging
	viper.SetDefault("events.double_click_time", DefaultConfig.Events.DoubleClickTime)
	viper.SetDefault("events.double_click_distance", DefaultConfig.Events.DoubleClickDistance)
	viper.SetDefault("events.max_scroll_steps", DefaultConfig.Events.MaxScrollSteps)

	viper.SetDefault("quartz.screen_height", DefaultConfig.Quartz.ScreenHeight)
	viper.SetDefault("quartz.locale_charset", DefaultConfig.Quartz.LocaleCharset)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		// An explicit path that does not exist yet is created by Save.
		if !notFound && !(configPathOverride != "" && os.IsNotExist(err)) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	return reload()
}

func reload() error {
	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	mu.Lock()
	cfg = c
	mu.Unlock()
	return nil
}

// Get returns the current configuration
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if cfg == nil {
		// Return defaults if not initialized
		d := DefaultConfig
		return &d
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	mu.Lock()
	cfg = c
	mu.Unlock()
}

// Watch reloads the configuration when the file changes and hands the new
// configuration to onChange. Reload errors keep the previous configuration.
// It reports false when no config file was loaded.
func Watch(onChange func(*Config)) bool {
	if viper.ConfigFileUsed() == "" {
		return false
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := reload(); err != nil {
			return
		}
		if onChange != nil {
			onChange(Get())
		}
	})
	viper.WatchConfig()
	return true
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config
	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	// If override is set, use that
	if configPathOverride != "" {
		return configPathOverride
	}

	// Check if config file is already loaded
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "gdkevents.toml"
	}

	return filepath.Join(home, ".config", "gdkevents", "gdkevents.toml")
}

// UpdateEvents updates the event settings and saves them
func UpdateEvents(eventsCfg EventsConfig) error {
	viper.Set("events.double_click_time", eventsCfg.DoubleClickTime)
	viper.Set("events.double_click_distance", eventsCfg.DoubleClickDistance)
	viper.Set("events.max_scroll_steps", eventsCfg.MaxScrollSteps)
	c := *Get()
	c.Events = eventsCfg
	Set(&c)
	return Save()
}

// UpdateQuartz updates the backend settings and saves them
func UpdateQuartz(quartzCfg QuartzConfig) error {
	viper.Set("quartz.screen_height", quartzCfg.ScreenHeight)
	viper.Set("quartz.locale_charset", quartzCfg.LocaleCharset)
	c := *Get()
	c.Quartz = quartzCfg
	Set(&c)
	return Save()
}

// PlatformSettings serves the display's input settings from the live
// configuration, so a reload takes effect on the next native event.
type PlatformSettings struct{}

// Settings returns the settings source backed by this package.
func Settings() PlatformSettings { return PlatformSettings{} }

func (PlatformSettings) DoubleClickTime() uint32  { return Get().Events.DoubleClickTime }
func (PlatformSettings) DoubleClickDistance() int { return Get().Events.DoubleClickDistance }
func (PlatformSettings) MaxScrollSteps() int      { return Get().Events.MaxScrollSteps }
