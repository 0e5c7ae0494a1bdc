// Package config loads settings from an optional config file and
// CHESSPLAY5D_* environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHESSPLAY5D_LOG_LEVEL.
const EnvPrefix = "CHESSPLAY5D"

type Config struct {
	// DataDir holds the game library. Empty means the platform data dir.
	DataDir     string `mapstructure:"data_dir"`
	LogLevel    string `mapstructure:"log_level"`
	DefaultFrom string `mapstructure:"default_from"`
	DefaultTo   string `mapstructure:"default_to"`
	// Board is the starting setup for notations that carry no tags.
	Board      string `mapstructure:"board"`
	ErrorMode  string `mapstructure:"error_mode"`
	ServerAddr string `mapstructure:"server_addr"`
	Unicode    bool   `mapstructure:"unicode"`
}

var defaults = map[string]any{
	"data_dir":     "",
	"log_level":    "info",
	"default_from": "5dpgn",
	"default_to":   "5dpgn",
	"board":        "Standard",
	"error_mode":   "failfast",
	"server_addr":  ":8080",
	"unicode":      false,
}

// Load reads path, when given, over the defaults and applies environment
// overrides on top.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
