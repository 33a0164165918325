package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
)

// OutputModes lists the accepted values of the output key.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.DataPath == "" {
		errs = append(errs, errors.New("data_path is required"))
	}
	if c.OutputFormat != "" && !slices.Contains(OutputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %v, got %q", OutputModes, c.OutputFormat))
	}
	if c.Dataset.TopN <= 0 {
		errs = append(errs, fmt.Errorf("dataset.top_n must be positive, got %d", c.Dataset.TopN))
	}
	if c.UI.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize))
	}
	if c.UI.Port < 1 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port must be between 1 and 65535, got %d", c.UI.Port))
	}
	if c.UI.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("ui.shutdown_timeout must not be negative, got %s", c.UI.ShutdownTimeout))
	}
	return errors.Join(errs...)
}

// ValidateDataFile checks that the configured input file exists.
func (c *Config) ValidateDataFile() error {
	if _, err := os.Stat(c.DataPath); os.IsNotExist(err) {
		return fmt.Errorf("data file does not exist: %s\nHint: Place the file there or use --data to specify a different path", c.DataPath)
	}
	return nil
}
