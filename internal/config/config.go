// Package config loads floww's configuration: defaults merged with the
// user's config file. A broken config file never stops the program;
// invalid values are warned about and replaced with defaults.
package config

import (
	"errors"
	"strconv"

	"github.com/spf13/viper"

	"github.com/dagimg-dot/floww/internal/log"
)

// Config is the merged runtime configuration.
type Config struct {
	General General `mapstructure:"general"`
	Timing  Timing  `mapstructure:"timing"`
	Tracing Tracing `mapstructure:"tracing"`
	History History `mapstructure:"history"`
}

// General holds behavior toggles that are not timing-related.
type General struct {
	ShowNotifications bool `mapstructure:"show_notifications"`
}

// Timing controls the waits between apply steps, in seconds.
type Timing struct {
	WorkspaceSwitchWait float64 `mapstructure:"workspace_switch_wait"`
	AppLaunchWait       float64 `mapstructure:"app_launch_wait"`
	RespectAppWait      bool    `mapstructure:"respect_app_wait"`
}

// Tracing configures the optional OpenTelemetry trace export.
type Tracing struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"` // file, stdout, or otlp
	Endpoint string `mapstructure:"endpoint"` // otlp collector address
	Path     string `mapstructure:"path"`     // file exporter output path
}

// History configures the sqlite run log.
type History struct {
	Enabled bool `mapstructure:"enabled"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		General: General{ShowNotifications: true},
		Timing: Timing{
			WorkspaceSwitchWait: 3,
			AppLaunchWait:       1,
			RespectAppWait:      true,
		},
		Tracing: Tracing{Enabled: false, Exporter: "file"},
		History: History{Enabled: true},
	}
}

// Load reads config.{yaml,yml,json,toml} from dir and merges it over the
// defaults. Every failure mode (missing file, unparseable file, invalid
// value) degrades to the default with a warning; Load never fails.
func Load(dir string) *Config {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Debug(log.CatConfig, "No config file found, using defaults", "dir", dir)
		} else {
			log.Warn(log.CatConfig, "Ignoring unreadable config file", "error", err)
		}
		return cfg
	}
	log.Debug(log.CatConfig, "Loaded config file", "path", v.ConfigFileUsed())

	cfg.mergeTiming(v)
	cfg.mergeGeneral(v)
	cfg.mergeTracing(v)
	cfg.mergeHistory(v)
	return cfg
}

func (c *Config) mergeTiming(v *viper.Viper) {
	if v.IsSet("timing.workspace_switch_wait") {
		c.Timing.WorkspaceSwitchWait = mergeWait(
			v.Get("timing.workspace_switch_wait"), c.Timing.WorkspaceSwitchWait, "workspace_switch_wait")
	}
	if v.IsSet("timing.app_launch_wait") {
		c.Timing.AppLaunchWait = mergeWait(
			v.Get("timing.app_launch_wait"), c.Timing.AppLaunchWait, "app_launch_wait")
	}
	if v.IsSet("timing.respect_app_wait") {
		c.Timing.RespectAppWait = mergeBool(
			v.Get("timing.respect_app_wait"), c.Timing.RespectAppWait, "timing.respect_app_wait")
	}
}

func (c *Config) mergeGeneral(v *viper.Viper) {
	if v.IsSet("general.show_notifications") {
		c.General.ShowNotifications = mergeBool(
			v.Get("general.show_notifications"), c.General.ShowNotifications, "general.show_notifications")
	}
}

func (c *Config) mergeTracing(v *viper.Viper) {
	if v.IsSet("tracing.enabled") {
		c.Tracing.Enabled = mergeBool(v.Get("tracing.enabled"), c.Tracing.Enabled, "tracing.enabled")
	}
	if v.IsSet("tracing.exporter") {
		exporter := v.GetString("tracing.exporter")
		switch exporter {
		case "file", "stdout", "otlp":
			c.Tracing.Exporter = exporter
		default:
			log.Warn(log.CatConfig, "Invalid tracing exporter, using default",
				"value", exporter, "default", c.Tracing.Exporter)
		}
	}
	c.Tracing.Endpoint = v.GetString("tracing.endpoint")
	if v.IsSet("tracing.path") {
		c.Tracing.Path = v.GetString("tracing.path")
	}
}

func (c *Config) mergeHistory(v *viper.Viper) {
	if v.IsSet("history.enabled") {
		c.History.Enabled = mergeBool(v.Get("history.enabled"), c.History.Enabled, "history.enabled")
	}
}

// mergeWait coerces a timing value to a non-negative float, falling back
// with a warning otherwise.
func mergeWait(raw any, fallback float64, key string) float64 {
	seconds, ok := toFloat(raw)
	if !ok {
		log.Warn(log.CatConfig, "Invalid non-numeric timing value, using default",
			"key", key, "value", raw, "default", fallback)
		return fallback
	}
	if seconds < 0 {
		log.Warn(log.CatConfig, "Invalid negative timing value, using default",
			"key", key, "value", seconds, "default", fallback)
		return fallback
	}
	return seconds
}

// mergeBool accepts only a real boolean, falling back with a warning
// otherwise.
func mergeBool(raw any, fallback bool, key string) bool {
	b, ok := raw.(bool)
	if !ok {
		log.Warn(log.CatConfig, "Invalid non-boolean value, using default",
			"key", key, "value", raw, "default", fallback)
		return fallback
	}
	return b
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
