package export

import (
	"fmt"
	"strings"
)

// Mode selects the output form for a whole run.
type Mode int

const (
	// ModePlain writes each JSON document unchanged.
	ModePlain Mode = iota
	// ModeCompressedBase64 writes base64(zlib(document)).
	ModeCompressedBase64
)

// String returns the canonical configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeCompressedBase64:
		return "base64"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode resolves a configuration or flag value into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "plain", "json":
		return ModePlain, nil
	case "base64", "b64", "compressed-base64":
		return ModeCompressedBase64, nil
	default:
		return ModePlain, fmt.Errorf("unknown export mode %q (expected plain or base64)", value)
	}
}
