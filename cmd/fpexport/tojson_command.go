package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fpexport/internal/export"
	"fpexport/internal/inputs"
	"fpexport/internal/logging"
	"fpexport/internal/resultstore"
)

func newToJSONCommand(ctx *commandContext) *cobra.Command {
	var base64Flag bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "tojson [audio_file...]",
		Short: "Print the fingerprint JSON document of each audio file",
		Long: `Print one line per audio file to stdout, in argument order.

Each line is the stored fingerprint JSON document, or with --base64 the
document compressed with zlib and encoded as standard base64. Files whose
document cannot be produced are reported on stderr and skipped.

Arguments may be audio files, directories (expanded to the audio files they
contain) or .txt files listing one path per line.`,
		Example: `  fpexport tojson song.mp3 other.flac
  fpexport tojson --base64 ~/Music/album > album.b64`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mode, err := export.ParseMode(cfg.Export.Mode)
			if err != nil {
				return err
			}
			if base64Flag {
				mode = export.ModeCompressedBase64
			}

			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			runCtx := logging.WithRunID(cmd.Context(), uuid.NewString())
			runLogger := logging.WithContext(runCtx, logger).With(logging.String(logging.FieldMode, mode.String()))

			resolved, err := inputs.Resolve(args, inputs.Options{Extensions: cfg.Export.AudioExtensions})
			if err != nil {
				return err
			}
			for _, missing := range resolved.Missing {
				logging.ErrorWithContext(runLogger, "input not found", "input_missing",
					logging.String(logging.FieldFile, missing),
					logging.String(logging.FieldImpact, "file skipped"),
					logging.String(logging.FieldErrorHint, "check the path exists and is readable"),
				)
			}

			return ctx.withStore(func(store *resultstore.Store) error {
				summary, runErr := export.New(store, mode, cmd.OutOrStdout(), logger).Run(runCtx, resolved.Paths)
				runLogger.Info("export finished",
					logging.Int("attempted", summary.Attempted),
					logging.Int("emitted", summary.Emitted),
					logging.Int("failed", summary.Failed()),
					logging.Int("missing", len(resolved.Missing)),
					logging.Bool("strict", strict),
				)
				if runErr != nil {
					return runErr
				}
				skipped := summary.Failed() + len(resolved.Missing)
				if strict && skipped > 0 {
					return fmt.Errorf("%d of %d inputs produced no output", skipped, summary.Attempted+len(resolved.Missing))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&base64Flag, "base64", "b", false, "Emit zlib-compressed base64 lines instead of plain JSON (legacy spelling: -b64)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any input produced no output")
	return cmd
}
