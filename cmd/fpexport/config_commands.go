package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fpexport/internal/config"
	"fpexport/internal/export"
	"fpexport/internal/resultstore"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveInitTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Import fingerprint documents with `fpexport import`, then export them with `fpexport tojson`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func resolveInitTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

// newConfigValidateCommand loads the configuration, opens the result store it
// names, and prints the settings an export run would use.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration and the result store it points to",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			mode, err := export.ParseMode(cfg.Export.Mode)
			if err != nil {
				return err
			}

			store, err := resultstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("result store %s: %w", cfg.Store.Path, err)
			}
			defer store.Close()
			stored, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("result store %s: %w", cfg.Store.Path, err)
			}

			source := path
			if !exists {
				source = path + " (not found, defaults used)"
			}
			logFile := fallback(cfg.Logging.File, "none")
			rows := [][]string{
				{"Config", source},
				{"Result store", cfg.Store.Path},
				{"Stored results", strconv.Itoa(len(stored))},
				{"Cache size", strconv.Itoa(cfg.Store.CacheSize)},
				{"Export mode", mode.String()},
				{"Audio extensions", strings.Join(cfg.Export.AudioExtensions, " ")},
				{"Log", cfg.Logging.Format + " / " + cfg.Logging.Level + " / file " + logFile},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, nil))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
