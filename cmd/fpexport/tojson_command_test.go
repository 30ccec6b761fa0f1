package main

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"fpexport/internal/testsupport"
)

func seedResults(t *testing.T, env *cliTestEnv, names ...string) []string {
	t.Helper()
	store := testsupport.MustOpenStore(t, env.cfg)
	defer store.Close()
	paths := make([]string, 0, len(names))
	for i, name := range names {
		path := testsupport.WriteFile(t, filepath.Join(env.baseDir, "music", name), "audio")
		testsupport.MustImport(t, store, path, testsupport.FingerprintDocument(name, i+1))
		paths = append(paths, path)
	}
	return paths
}

func inflateLine(t *testing.T, line string) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(line)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open zlib stream: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	return string(data)
}

func TestToJSONPlainOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := seedResults(t, env, "a.mp3", "b.mp3")

	out, stderr, err := runCLI(t, []string{"tojson", paths[1], paths[0]}, env.configPath, nil)
	if err != nil {
		t.Fatalf("tojson: %v (stderr %q)", err, stderr)
	}
	lines := outputLines(out)
	want := []string{
		testsupport.FingerprintDocument("b.mp3", 2),
		testsupport.FingerprintDocument("a.mp3", 1),
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	requireContains(t, stderr, "export finished")
}

func TestToJSONBase64Flags(t *testing.T) {
	for _, flag := range []string{"--base64", "-b", "-b64"} {
		t.Run(flag, func(t *testing.T) {
			env := setupCLITestEnv(t)
			paths := seedResults(t, env, "a.mp3")

			out, stderr, err := runCLI(t, []string{"tojson", flag, paths[0]}, env.configPath, nil)
			if err != nil {
				t.Fatalf("tojson %s: %v (stderr %q)", flag, err, stderr)
			}
			lines := outputLines(out)
			if len(lines) != 1 {
				t.Fatalf("expected one line, got %q", out)
			}
			if got := inflateLine(t, lines[0]); got != testsupport.FingerprintDocument("a.mp3", 1) {
				t.Fatalf("inflated line = %q", got)
			}
		})
	}
}

func TestToJSONUsesConfiguredMode(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExportMode("base64"))
	paths := seedResults(t, env, "a.mp3")

	out, _, err := runCLI(t, []string{"tojson", paths[0]}, env.configPath, nil)
	if err != nil {
		t.Fatalf("tojson: %v", err)
	}
	if strings.HasPrefix(out, "{") {
		t.Fatalf("expected encoded output, got %q", out)
	}
	if got := inflateLine(t, strings.TrimSpace(out)); got != testsupport.FingerprintDocument("a.mp3", 1) {
		t.Fatalf("inflated line = %q", got)
	}
}

func TestToJSONSkipsFailedFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := seedResults(t, env, "a.mp3", "c.mp3")
	unknown := testsupport.WriteFile(t, filepath.Join(env.baseDir, "music", "b.mp3"), "audio")
	missing := filepath.Join(env.baseDir, "music", "gone.mp3")

	out, stderr, err := runCLI(t, []string{"tojson", paths[0], unknown, missing, paths[1]}, env.configPath, nil)
	if err != nil {
		t.Fatalf("tojson without --strict should succeed: %v", err)
	}
	if lines := outputLines(out); len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", out)
	}
	requireContains(t, stderr, "export failed")
	requireContains(t, stderr, unknown)
	requireContains(t, stderr, "input not found")
	requireContains(t, stderr, missing)
	if strings.Contains(out, "b.mp3") {
		t.Fatalf("stdout must only carry documents, got %q", out)
	}

	_, _, err = runCLI(t, []string{"tojson", "--strict", paths[0], unknown}, env.configPath, nil)
	if err == nil {
		t.Fatal("expected --strict to fail when a file produced no output")
	}
	requireContains(t, err.Error(), "1 of 2 inputs")
}

func TestToJSONReportsMissingInputAtErrorLevel(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "music", "gone.mp3")

	out, stderr, err := runCLI(t, []string{"--log-level", "error", "tojson", missing}, env.configPath, nil)
	if err != nil {
		t.Fatalf("tojson: %v (stderr %q)", err, stderr)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
	requireContains(t, stderr, "input not found")
	requireContains(t, stderr, missing)
	if strings.Contains(stderr, "export finished") {
		t.Fatalf("info summary should be filtered at error level, got %q", stderr)
	}
}

func TestToJSONRejectsUnknownLogLevel(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := seedResults(t, env, "a.mp3")

	out, _, err := runCLI(t, []string{"--log-level", "bogus", "tojson", paths[0]}, env.configPath, nil)
	if err == nil {
		t.Fatal("expected an unknown --log-level to fail")
	}
	requireContains(t, err.Error(), "--log-level")
	requireContains(t, err.Error(), "bogus")
	if out != "" {
		t.Fatalf("expected nothing exported, got %q", out)
	}
}

func TestToJSONExportsRepeatedArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := seedResults(t, env, "a.mp3", "b.mp3")

	out, stderr, err := runCLI(t, []string{"tojson", paths[0], paths[1], paths[0]}, env.configPath, nil)
	if err != nil {
		t.Fatalf("tojson: %v (stderr %q)", err, stderr)
	}
	want := []string{
		testsupport.FingerprintDocument("a.mp3", 1),
		testsupport.FingerprintDocument("b.mp3", 2),
		testsupport.FingerprintDocument("a.mp3", 1),
	}
	lines := outputLines(out)
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestToJSONExpandsDirectories(t *testing.T) {
	env := setupCLITestEnv(t)
	seedResults(t, env, "b.mp3", "a.mp3")
	testsupport.WriteFile(t, filepath.Join(env.baseDir, "music", "cover.jpg"), "image")

	out, _, err := runCLI(t, []string{"tojson", filepath.Join(env.baseDir, "music")}, env.configPath, nil)
	if err != nil {
		t.Fatalf("tojson: %v", err)
	}
	lines := outputLines(out)
	if len(lines) != 2 || !strings.Contains(lines[0], `"a.mp3"`) || !strings.Contains(lines[1], `"b.mp3"`) {
		t.Fatalf("unexpected directory export: %q", out)
	}
}

func TestToJSONNoArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"tojson"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("tojson: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestRewriteLegacyArgs(t *testing.T) {
	got := rewriteLegacyArgs([]string{"tojson", "-b64", "a.mp3", "--", "-b64"})
	want := []string{"tojson", "--base64", "a.mp3", "--", "-b64"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("rewriteLegacyArgs = %q, want %q", got, want)
	}
}
