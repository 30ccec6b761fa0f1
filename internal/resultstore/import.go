package resultstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/tidwall/gjson"
)

// Import stores doc as the fingerprint result for audioPath. The document must
// be JSON; its "strategy" and "fingerprints" members, when present, populate
// the listing metadata. Concurrent importers are serialized through a lock
// file next to the database.
func (s *Store) Import(ctx context.Context, audioPath, doc string) (*Result, error) {
	doc = strings.TrimSpace(doc)
	if doc == "" || !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: %s: document is not valid JSON", ErrInvalidDocument, audioPath)
	}

	result := Result{
		Path:             audioPath,
		Strategy:         gjson.Get(doc, "strategy").String(),
		FingerprintCount: countFingerprints(doc),
		Document:         doc,
		ImportedAt:       time.Now(),
	}

	lock := flock.New(s.path + ".lock")
	locked, err := lock.TryLockContext(ensureContext(ctx), 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("lock result store: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock result store: %s is held by another importer", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	if err := s.Put(ctx, result); err != nil {
		return nil, err
	}
	stored, err := s.Get(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func countFingerprints(doc string) int {
	fps := gjson.Get(doc, "fingerprints")
	if !fps.IsArray() {
		return 0
	}
	return int(gjson.Get(doc, "fingerprints.#").Int())
}
