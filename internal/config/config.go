package config

import (
	"os"
	"strconv"

	"govista/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds data source settings
type DataConfig struct {
	// File is the path to the indicator table (.csv or .xlsx). When empty
	// the server falls back to the built-in demo dataset.
	File string

	// HistogramBins is the default bin count for distribution requests
	HistogramBins int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: loadServerConfig(),
		Data:   loadDataConfig(),
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() ServerConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return ServerConfig{Port: port}
}

func loadDataConfig() DataConfig {
	cfg := DataConfig{
		File:          os.Getenv("DATA_FILE"),
		HistogramBins: 30,
	}
	if binsStr := os.Getenv("HISTOGRAM_BINS"); binsStr != "" {
		if bins, err := strconv.Atoi(binsStr); err == nil && bins > 0 {
			cfg.HistogramBins = bins
		}
	}
	return cfg
}

func validate(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Data.File != "" {
		if _, err := os.Stat(config.Data.File); err != nil {
			return errors.ConfigInvalid("DATA_FILE does not exist: " + config.Data.File)
		}
	}
	return nil
}
