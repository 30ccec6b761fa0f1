package export

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEngine marks failures to obtain a JSON document from the engine.
	ErrEngine = errors.New("engine error")
	// ErrEncoding marks failures to compress or encode a document.
	ErrEncoding = errors.New("encoding failure")
)

// wrap tags err with marker so callers can classify it with errors.Is while
// keeping the underlying cause reachable.
func wrap(marker error, operation, message string, err error) error {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "export failure"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
