package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LoggingConfig defines the application log settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	return nil
}

// ReportConfig selects how allocation results are written.
type ReportConfig struct {
	// Format is "text", "json" or "csv".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *ReportConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "text"
	}
}

// Validate checks the report format.
func (c ReportConfig) Validate() error {
	switch c.Format {
	case "text", "json", "csv":
		return nil
	default:
		return fmt.Errorf("unknown report format %s", c.Format)
	}
}
