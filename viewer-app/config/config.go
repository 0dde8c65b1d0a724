package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/remoteview/renderer/server/api"
)

// Config holds the complete viewer application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	API      api.Config     `mapstructure:"api"      yaml:"api"`
	Renderer RendererConfig `mapstructure:"renderer" yaml:"renderer"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  env:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty" env:"LOG_PRETTY"`
}

// RendererConfig holds rendering pipeline configuration.
type RendererConfig struct {
	// DebugOverlay outlines every painted update with an encoding-specific
	// color.
	DebugOverlay bool `mapstructure:"debug_overlay" yaml:"debug_overlay" env:"RENDERER_DEBUG_OVERLAY"`

	// FrameInterval batches paints and snapshot refreshes onto a fixed tick.
	// Zero runs them immediately.
	FrameInterval time.Duration `mapstructure:"frame_interval" yaml:"frame_interval" env:"RENDERER_FRAME_INTERVAL"`
}

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("api.listen_addr", ":9090")
	v.SetDefault("api.read_header_timeout", "5s")
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "30s")
	v.SetDefault("api.idle_timeout", "120s")
	v.SetDefault("api.max_header_bytes", 1048576)

	v.SetDefault("renderer.debug_overlay", false)
	v.SetDefault("renderer.frame_interval", "0s")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.ListenAddr) == "" {
		return fmt.Errorf("api.listen_addr must not be empty")
	}
	if c.API.MaxHeaderBytes <= 0 {
		return fmt.Errorf("api.max_header_bytes must be positive, got %d", c.API.MaxHeaderBytes)
	}
	if c.Renderer.FrameInterval < 0 {
		return fmt.Errorf("renderer.frame_interval must not be negative")
	}
	return nil
}

// Dump renders the effective configuration as YAML.
func (c *Config) Dump() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
		API:      api.DefaultConfig(),
		Renderer: RendererConfig{},
	}
}
