package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// WriteFile creates path (and its parent directories) with the given contents.
func WriteFile(t testing.TB, path, contents string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// FingerprintDocument returns a small JSON document shaped like the output of
// a fingerprinting run for name with count fingerprints.
func FingerprintDocument(name string, count int) string {
	doc := `{"strategy":"olaf","file":"` + name + `","fingerprints":[`
	for i := 0; i < count; i++ {
		if i > 0 {
			doc += ","
		}
		doc += `{"t1":` + strconv.Itoa(i*3) + `,"f1":` + strconv.Itoa(100+i) + `,"hash":` + strconv.Itoa(7919*(i+1)) + `}`
	}
	return doc + "]}"
}
