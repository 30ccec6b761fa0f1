package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fpexport/internal/logging"
)

// Engine produces the JSON document for one audio file.
type Engine interface {
	JSON(ctx context.Context, path string) (string, error)
}

// Failure records why a file produced no output line.
type Failure struct {
	Path string
	Err  error
}

// Summary reports the outcome of a run.
type Summary struct {
	Attempted int
	Emitted   int
	Failures  []Failure
}

// Failed returns the number of files that produced no output line.
func (s Summary) Failed() int {
	return len(s.Failures)
}

// progressBucketPercent spaces debug progress records across a run.
const progressBucketPercent = 10

// Exporter writes one line per successfully exported file, in input order.
type Exporter struct {
	engine Engine
	mode   Mode
	out    io.Writer
	logger *slog.Logger
}

// New builds an Exporter bound to one engine and one mode for its lifetime.
// Diagnostics go to logger; exported lines go to out.
func New(engine Engine, mode Mode, out io.Writer, logger *slog.Logger) *Exporter {
	return &Exporter{
		engine: engine,
		mode:   mode,
		out:    out,
		logger: logging.NewComponentLogger(logger, "export"),
	}
}

// Run exports paths in order. Engine and encoding failures are logged and
// recorded in the summary without stopping the run. Run only returns an
// error when the output sink fails or ctx is cancelled between files.
func (e *Exporter) Run(ctx context.Context, paths []string) (Summary, error) {
	var summary Summary
	if e.engine == nil {
		return summary, errors.New("export: engine is required")
	}
	if e.out == nil {
		return summary, errors.New("export: output writer is required")
	}

	logger := logging.WithContext(ctx, e.logger)
	progress := logging.NewProgressSampler(progressBucketPercent)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Attempted++
		logProgress(logger, progress, summary.Attempted, len(paths))

		line, err := e.exportOne(ctx, path)
		if err != nil {
			summary.Failures = append(summary.Failures, Failure{Path: path, Err: err})
			logging.ErrorWithContext(logger, "export failed", eventType(err),
				logging.String(logging.FieldFile, path),
				logging.String(logging.FieldMode, e.mode.String()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, errorHint(err)),
			)
			continue
		}

		// One write per line so a line is either fully emitted or not at all.
		if _, err := io.WriteString(e.out, line+"\n"); err != nil {
			return summary, fmt.Errorf("write output for %s: %w", path, err)
		}
		summary.Emitted++
		logger.Debug("exported file",
			logging.String(logging.FieldFile, path),
			logging.Int("bytes", len(line)),
		)
	}
	return summary, nil
}

func logProgress(logger *slog.Logger, sampler *logging.ProgressSampler, done, total int) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) || !sampler.ShouldLog(done, total) {
		return
	}
	logger.Debug("export progress",
		logging.Int("current", done),
		logging.Int("total", total),
		logging.Any("percent", logging.Percent(done, total)),
	)
}

func (e *Exporter) exportOne(ctx context.Context, path string) (string, error) {
	doc, err := e.engine.JSON(ctx, path)
	if err != nil {
		return "", wrap(ErrEngine, "fetch json", path, err)
	}
	if strings.TrimSpace(doc) == "" {
		return "", wrap(ErrEngine, "fetch json", path+": engine returned an empty document", nil)
	}

	if e.mode != ModeCompressedBase64 {
		return doc, nil
	}

	encoded, err := Encode(doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return encoded, nil
}

func eventType(err error) string {
	if errors.Is(err, ErrEncoding) {
		return "export_encoding_failed"
	}
	return "export_engine_failed"
}

func errorHint(err error) string {
	if errors.Is(err, ErrEncoding) {
		return "verify the stored document is valid UTF-8 text"
	}
	return "check that fingerprints for this file were imported"
}
