package testsupport

import (
	"context"
	"testing"

	"fpexport/internal/config"
	"fpexport/internal/resultstore"
)

// MustOpenStore opens a resultstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *resultstore.Store {
	t.Helper()

	store, err := resultstore.Open(cfg)
	if err != nil {
		t.Fatalf("resultstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustImport stores doc for audioPath and fails the test on error.
func MustImport(t testing.TB, store *resultstore.Store, audioPath, doc string) *resultstore.Result {
	t.Helper()

	result, err := store.Import(context.Background(), audioPath, doc)
	if err != nil {
		t.Fatalf("store.Import(%s): %v", audioPath, err)
	}
	return result
}
