package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fpexport/internal/config"
	"fpexport/internal/resultstore"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import AUDIO_FILE [JSON_FILE|-]",
		Short: "Store the fingerprint JSON document for an audio file",
		Long: `Store a fingerprint JSON document in the result store so later tojson runs
can export it. The document is read from JSON_FILE, or from stdin when
JSON_FILE is "-" or omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			audioPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			source := "-"
			if len(args) == 2 {
				source = args[1]
			}
			doc, err := readDocument(cmd, source)
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *resultstore.Store) error {
				result, err := store.Import(cmd.Context(), audioPath, doc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d fingerprints, %s)\n",
					result.Path, result.FingerprintCount, humanBytes(int64(len(result.Document))))
				return nil
			})
		},
	}
}

func readDocument(cmd *cobra.Command, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read document from stdin: %w", err)
		}
		return string(data), nil
	}
	path, err := config.ExpandPath(source)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}
