package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fpexport/internal/config"
	"fpexport/internal/resultstore"
)

func newResultsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List stored fingerprint results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *resultstore.Store) error {
				summaries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, summaries)
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No stored results")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{
						s.Path,
						fallback(s.Strategy, "-"),
						strconv.Itoa(s.FingerprintCount),
						humanBytes(int64(s.DocumentBytes)),
						formatImportedAt(s),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Path", "Strategy", "Fingerprints", "Size", "Imported"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newResultsRemoveCommand(ctx))
	return cmd
}

func newResultsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm PATH...",
		Aliases: []string{"remove"},
		Short:   "Remove stored results",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *resultstore.Store) error {
				out := cmd.OutOrStdout()
				for _, arg := range args {
					path, err := config.ExpandPath(arg)
					if err != nil {
						return err
					}
					removed, err := store.Delete(cmd.Context(), path)
					if err != nil {
						return err
					}
					if removed {
						fmt.Fprintf(out, "Removed %s\n", path)
					} else {
						fmt.Fprintf(out, "No result stored for %s\n", path)
					}
				}
				return nil
			})
		},
	}
}

func formatImportedAt(s resultstore.Summary) string {
	if s.ImportedAt.IsZero() {
		return "-"
	}
	return s.ImportedAt.Local().Format("2006-01-02 15:04")
}
