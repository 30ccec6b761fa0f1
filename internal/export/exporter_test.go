package export_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"fpexport/internal/export"
	"fpexport/internal/logging"
)

type fakeEngine struct {
	docs  map[string]string
	fail  map[string]error
	calls []string
}

func (f *fakeEngine) JSON(_ context.Context, path string) (string, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.fail[path]; ok {
		return "", err
	}
	doc, ok := f.docs[path]
	if !ok {
		return "", fmt.Errorf("no fingerprints for %s", path)
	}
	return doc, nil
}

type engineFunc func(ctx context.Context, path string) (string, error)

func (f engineFunc) JSON(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

func newTestEngine() *fakeEngine {
	return &fakeEngine{
		docs: map[string]string{
			"/a.mp3": `{"file":"a","fingerprints":[[1,2,3],[1,2,3],[1,2,3]]}`,
			"/b.mp3": `{"file":"b","fingerprints":[[4,5,6],[4,5,6],[4,5,6]]}`,
			"/c.mp3": `{"file":"c","fingerprints":[[7,8,9],[7,8,9],[7,8,9]]}`,
		},
		fail: map[string]error{},
	}
}

func newBufferLogger(t *testing.T, format, level string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var diag bytes.Buffer
	logger, err := logging.New(logging.Options{Format: format, Level: level, Writer: &diag})
	if err != nil {
		t.Fatalf("logging.New returned error: %v", err)
	}
	return logger, &diag
}

func runExport(t *testing.T, engine export.Engine, mode export.Mode, paths []string) ([]string, []string, export.Summary) {
	t.Helper()
	logger, diag := newBufferLogger(t, "console", "info")

	var out bytes.Buffer
	summary, err := export.New(engine, mode, &out, logger).Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return splitLines(out.String()), splitLines(diag.String()), summary
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func requireLines(t *testing.T, got, want []string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func TestRunPlainModeEmitsDocumentsUnchanged(t *testing.T) {
	engine := newTestEngine()
	paths := []string{"/a.mp3", "/b.mp3", "/c.mp3"}

	lines, diags, summary := runExport(t, engine, export.ModePlain, paths)

	requireLines(t, lines, []string{engine.docs["/a.mp3"], engine.docs["/b.mp3"], engine.docs["/c.mp3"]})
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %q", diags)
	}
	if summary.Attempted != 3 || summary.Emitted != 3 || summary.Failed() != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	requireLines(t, engine.calls, paths)
}

func TestRunEncodedModePreservesOrder(t *testing.T) {
	engine := newTestEngine()
	paths := []string{"/c.mp3", "/a.mp3", "/b.mp3"}

	lines, diags, _ := runExport(t, engine, export.ModeCompressedBase64, paths)

	if len(lines) != 3 || len(diags) != 0 {
		t.Fatalf("expected 3 lines and no diagnostics, got %q / %q", lines, diags)
	}
	for i, path := range paths {
		if lines[i] == engine.docs[path] {
			t.Fatalf("line %d was not encoded", i)
		}
		decoded, err := export.Decode(lines[i])
		if err != nil {
			t.Fatalf("Decode line %d: %v", i, err)
		}
		if decoded != engine.docs[path] {
			t.Fatalf("line %d decodes to %q, want %q", i, decoded, engine.docs[path])
		}
	}
}

func TestRunEncodedScenario(t *testing.T) {
	engine := engineFunc(func(context.Context, string) (string, error) {
		return `{"fingerprints":[]}`, nil
	})
	lines, _, _ := runExport(t, engine, export.ModeCompressedBase64, []string{"/song.wav"})
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", lines)
	}
	if got := inflate(t, lines[0]); got != `{"fingerprints":[]}` {
		t.Fatalf("inflated line = %q", got)
	}
}

func TestRunIsolatesEngineFailures(t *testing.T) {
	engine := newTestEngine()
	engine.fail["/b.mp3"] = errors.New("decoder crashed")
	want := []string{engine.docs["/a.mp3"], engine.docs["/c.mp3"]}

	for _, mode := range []export.Mode{export.ModePlain, export.ModeCompressedBase64} {
		t.Run(mode.String(), func(t *testing.T) {
			engine.calls = nil
			lines, diags, summary := runExport(t, engine, mode, []string{"/a.mp3", "/b.mp3", "/c.mp3"})

			got := lines
			if mode == export.ModeCompressedBase64 {
				got = make([]string, len(lines))
				for i, line := range lines {
					got[i] = inflate(t, line)
				}
			}
			requireLines(t, got, want)

			if len(diags) != 1 {
				t.Fatalf("expected one diagnostic, got %q", diags)
			}
			for _, fragment := range []string{"/b.mp3", "decoder crashed"} {
				if !strings.Contains(diags[0], fragment) {
					t.Fatalf("diagnostic %q missing %q", diags[0], fragment)
				}
			}

			if summary.Attempted != 3 || summary.Emitted != 2 || len(summary.Failures) != 1 {
				t.Fatalf("unexpected summary %+v", summary)
			}
			if summary.Failures[0].Path != "/b.mp3" || !errors.Is(summary.Failures[0].Err, export.ErrEngine) {
				t.Fatalf("unexpected failure %+v", summary.Failures[0])
			}
			requireLines(t, engine.calls, []string{"/a.mp3", "/b.mp3", "/c.mp3"})
		})
	}
}

func TestRunTreatsEmptyDocumentAsEngineError(t *testing.T) {
	engine := newTestEngine()
	engine.docs["/b.mp3"] = "  \n"

	lines, diags, summary := runExport(t, engine, export.ModePlain, []string{"/a.mp3", "/b.mp3"})

	if len(lines) != 1 || len(diags) != 1 {
		t.Fatalf("expected one line and one diagnostic, got %q / %q", lines, diags)
	}
	if !errors.Is(summary.Failures[0].Err, export.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", summary.Failures[0].Err)
	}
}

func TestRunIsolatesEncodingFailures(t *testing.T) {
	engine := newTestEngine()
	engine.docs["/b.mp3"] = "{\"bad\":\"\xff\"}"

	lines, diags, summary := runExport(t, engine, export.ModeCompressedBase64, []string{"/a.mp3", "/b.mp3", "/c.mp3"})

	if len(lines) != 2 || len(diags) != 1 {
		t.Fatalf("expected two lines and one diagnostic, got %q / %q", lines, diags)
	}
	for _, fragment := range []string{"/b.mp3", "export_encoding_failed"} {
		if !strings.Contains(diags[0], fragment) {
			t.Fatalf("diagnostic %q missing %q", diags[0], fragment)
		}
	}
	if !errors.Is(summary.Failures[0].Err, export.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", summary.Failures[0].Err)
	}
}

func TestRunEmptyInput(t *testing.T) {
	engine := newTestEngine()
	lines, diags, summary := runExport(t, engine, export.ModeCompressedBase64, nil)

	if len(lines) != 0 || len(diags) != 0 || summary.Attempted != 0 || len(engine.calls) != 0 {
		t.Fatalf("expected no work, got lines=%q diags=%q summary=%+v calls=%q", lines, diags, summary, engine.calls)
	}
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestRunStopsWhenOutputFails(t *testing.T) {
	w := &failingWriter{}
	summary, err := export.New(newTestEngine(), export.ModePlain, w, logging.NewNop()).
		Run(context.Background(), []string{"/a.mp3", "/b.mp3"})

	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected broken pipe error, got %v", err)
	}
	if w.writes != 1 || summary.Emitted != 0 {
		t.Fatalf("expected the run to stop after one write, got writes=%d summary=%+v", w.writes, summary)
	}
}

func TestRunHonoursCancellationBetweenFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	engine := engineFunc(func(context.Context, string) (string, error) {
		cancel()
		return `{"fingerprints":[]}`, nil
	})

	summary, err := export.New(engine, export.ModePlain, &out, logging.NewNop()).
		Run(ctx, []string{"/a.mp3", "/b.mp3"})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Emitted != 1 || out.String() != "{\"fingerprints\":[]}\n" {
		t.Fatalf("expected the in-flight line to complete, got %q (%+v)", out.String(), summary)
	}
}

func TestRunRequiresEngineAndWriter(t *testing.T) {
	if _, err := export.New(nil, export.ModePlain, &bytes.Buffer{}, nil).Run(context.Background(), []string{"/a"}); err == nil {
		t.Fatal("expected error without engine")
	}
	if _, err := export.New(newTestEngine(), export.ModePlain, nil, nil).Run(context.Background(), []string{"/a"}); err == nil {
		t.Fatal("expected error without writer")
	}
}

func TestRunLogsSampledProgressAtDebug(t *testing.T) {
	logger, diag := newBufferLogger(t, "console", "debug")

	var out bytes.Buffer
	if _, err := export.New(newTestEngine(), export.ModePlain, &out, logger).
		Run(context.Background(), []string{"/a.mp3", "/b.mp3", "/c.mp3"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := diag.String()
	if got := strings.Count(text, "export progress"); got != 3 {
		t.Fatalf("expected 3 progress records, got %d in %q", got, text)
	}
	if !strings.Contains(text, "current=3 total=3 percent=100") {
		t.Fatalf("expected final progress record, got %q", text)
	}
	if got := strings.Count(text, "exported file"); got != 3 {
		t.Fatalf("expected 3 exported file records, got %d", got)
	}
}

func TestRunTagsRecordsWithRunID(t *testing.T) {
	logger, diag := newBufferLogger(t, "json", "info")

	engine := newTestEngine()
	engine.fail["/a.mp3"] = errors.New("boom")
	ctx := logging.WithRunID(context.Background(), "run-7")
	if _, err := export.New(engine, export.ModePlain, &bytes.Buffer{}, logger).Run(ctx, []string{"/a.mp3"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := diag.String()
	for _, fragment := range []string{`"run_id":"run-7"`, `"component":"export"`} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %s in %q", fragment, text)
		}
	}
	if got := strings.Count(text, `"mode"`); got != 1 {
		t.Fatalf("expected mode once, got %d in %q", got, text)
	}
}
