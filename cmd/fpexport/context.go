package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fpexport/internal/config"
	"fpexport/internal/logging"
	"fpexport/internal/resultstore"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// logLevelOverride returns the normalized --log-level value, or "" when the
// flag was not given.
func (c *commandContext) logLevelOverride() (string, error) {
	if c.logLevelFlag == nil {
		return "", nil
	}
	level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
	if level == "" {
		return "", nil
	}
	if err := config.ValidateLogLevel(level); err != nil {
		return "", fmt.Errorf("--log-level: %w", err)
	}
	return level, nil
}

// logger builds the diagnostic logger for cmd. Records go to the command's
// stderr so stdout stays reserved for exported documents.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	level, err := c.logLevelOverride()
	if err != nil {
		return nil, err
	}
	if level != "" {
		overridden := *cfg
		overridden.Logging.Level = level
		cfg = &overridden
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func (c *commandContext) withStore(fn func(*resultstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := resultstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open result store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
