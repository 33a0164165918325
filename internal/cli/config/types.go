// Package config provides configuration management for the moviescope CLI.
package config

import (
	"time"

	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
	"github.com/leapstack-labs/moviescope/internal/dataset"
)

// Config holds all CLI configuration options.
type Config struct {
	DataPath     string        `koanf:"data_path"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Dataset      DatasetConfig `koanf:"dataset"`
	UI           UIConfig      `koanf:"ui"`
}

// DatasetConfig controls how the input file is shaped.
type DatasetConfig struct {
	DropColumns []string `koanf:"drop_columns"`
	DateColumns []string `koanf:"date_columns"`
	TopN        int      `koanf:"top_n"`
}

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Port            int           `koanf:"port"`
	AutoOpen        bool          `koanf:"auto_open"`
	Dev             bool          `koanf:"dev"`
	PageSize        int           `koanf:"page_size"`
	SessionSecret   string        `koanf:"session_secret"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Default configuration values.
const (
	DefaultConfigFile      = "moviescope.yaml"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPort            = 8501
	DefaultShutdownTimeout = 5 * time.Second
)

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		DataPath:     dataset.DefaultPath,
		OutputFormat: DefaultOutput,
		Dataset: DatasetConfig{
			DropColumns: []string{dataset.ColumnID},
			DateColumns: []string{dataset.ColumnReleaseDate},
			TopN:        dataset.DefaultTopN,
		},
		UI: UIConfig{
			Port:            DefaultPort,
			PageSize:        dashview.DefaultPageSize,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

// Schema returns the loader schema with the configured drop and date columns.
func (c *Config) Schema() dataset.Schema {
	return dataset.MovieSchema().
		WithDrop(c.Dataset.DropColumns...).
		WithDates(c.Dataset.DateColumns...)
}

// DashboardOptions returns the render options for the dashboard.
func (c *Config) DashboardOptions() dashview.Options {
	return dashview.Options{
		TopN:     c.Dataset.TopN,
		PageSize: c.UI.PageSize,
	}
}
