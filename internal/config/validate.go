package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStore() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path must be set")
	}
	if c.Store.CacheSize <= 0 {
		return errors.New("store.cache_size must be positive")
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Mode {
	case "plain", "json", "base64", "b64", "compressed-base64":
	default:
		return fmt.Errorf("export.mode: unsupported value %q (expected plain or base64)", c.Export.Mode)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.File != "" && c.Logging.MaxSizeMB <= 0 {
		return errors.New("logging.max_size_mb must be positive when logging.file is set")
	}
	return nil
}

// ValidateLogLevel rejects level names other than debug, info, warn and error.
// Callers normalize case first.
func ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unsupported value %q (expected debug, info, warn or error)", level)
	}
}
