package config

import (
	"strings"
	"time"

	"github.com/sdejongh/geotagsync/pkg/metadata"
	"github.com/sdejongh/geotagsync/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Tool      ToolConfig      `yaml:"tool"`
	Scan      ScanConfig      `yaml:"scan"`
	Propagate PropagateConfig `yaml:"propagate"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ToolConfig locates and bounds the metadata tool
type ToolConfig struct {
	Path    string        `yaml:"path"`    // Binary name or path (empty = exiftool from PATH)
	Timeout time.Duration `yaml:"timeout"` // Per-invocation limit (0 = none)
}

// ScanConfig holds classification settings
type ScanConfig struct {
	Recursive bool     `yaml:"recursive"`
	Exclude   []string `yaml:"exclude"`
}

// PropagateConfig holds tag copy settings
type PropagateConfig struct {
	FieldGroup string `yaml:"field_group"` // Tag group copied from the reference
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Color    bool   `yaml:"color"`    // Colorize human output
	Progress bool   `yaml:"progress"` // Show progress bars on a terminal
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string `yaml:"format"`      // "text" or "json"
	Level      string `yaml:"level"`       // "debug", "info", "warn", "error"
	File       string `yaml:"file"`        // Log file path (empty = no file log)
	MaxSizeMB  int    `yaml:"max_size_mb"` // Rotate after this many megabytes (0 = never)
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Tool: ToolConfig{
			Path:    metadata.DefaultProgram,
			Timeout: 10 * time.Minute,
		},
		Scan: ScanConfig{
			Recursive: true,
			Exclude: []string{
				"@eaDir/",
				".thumbnails/",
			},
		},
		Propagate: PropagateConfig{
			FieldGroup: metadata.DefaultFieldGroup,
		},
		Output: OutputConfig{
			Format:   "human",
			Color:    true,
			Progress: true,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tool.Timeout < 0 {
		return &models.ValidationError{
			Field:   "tool.timeout",
			Message: "must not be negative",
		}
	}

	group := c.Propagate.FieldGroup
	if group == "" || strings.HasPrefix(group, "-") || strings.ContainsAny(group, " \t\r\n") {
		return &models.ValidationError{
			Field:   "propagate.field_group",
			Message: "must be a tag group such as 'gps:all'",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size_mb",
			Message: "rotation settings must not be negative",
		}
	}

	return nil
}
