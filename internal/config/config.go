// Package config provides Viper-based configuration loading for kwtrends
package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/viper"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "config.json"

// EnvPrefix namespaces environment overrides, e.g. KWTRENDS_DEFAULT_REGION.
const EnvPrefix = "KWTRENDS"

// Config holds the request defaults shared by every command.
type Config struct {
	Region    string `mapstructure:"default_region" json:"default_region"`
	Language  string `mapstructure:"default_language" json:"default_language"`
	Timeframe string `mapstructure:"timeframe" json:"timeframe"`
	Category  int    `mapstructure:"category" json:"category"`
}

// Defaults returns the built-in configuration used when no usable file exists.
func Defaults() Config {
	return Config{
		Region:    "US",
		Language:  "en-US",
		Timeframe: "today 12-m",
		Category:  0,
	}
}

// Load reads the JSON config file at path. A missing or unreadable file is
// never fatal: the fallback is logged and the defaults are used. Keys present
// in the file override the defaults one by one, KWTRENDS_* variables
// override both.
func Load(path string, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			logger.Error("config file not found, using default values", "path", path)
		} else {
			logger.Error("invalid config file, using default values", "path", path, "error", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("invalid config file, using default values", "path", path, "error", err)
		return Defaults()
	}

	logger.Debug("configuration loaded",
		"path", path,
		"region", cfg.Region,
		"language", cfg.Language,
		"timeframe", cfg.Timeframe,
		"category", cfg.Category,
	)
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("default_region", d.Region)
	v.SetDefault("default_language", d.Language)
	v.SetDefault("timeframe", d.Timeframe)
	v.SetDefault("category", d.Category)
}
