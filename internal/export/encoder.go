package export

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
)

// Encode compresses doc with zlib-framed DEFLATE at the default level and
// returns the compressed bytes as padded standard base64. The result never
// contains a newline. doc must be valid UTF-8.
func Encode(doc string) (string, error) {
	if !utf8.ValidString(doc) {
		return "", wrap(ErrEncoding, "utf-8", "document is not valid UTF-8", nil)
	}

	var buf bytes.Buffer
	buf.Grow(len(doc)/2 + 16)
	zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return "", wrap(ErrEncoding, "deflate", "create compressor", err)
	}
	if _, err := io.WriteString(zw, doc); err != nil {
		_ = zw.Close()
		return "", wrap(ErrEncoding, "deflate", "compress document", err)
	}
	// Close flushes the final block and the Adler-32 trailer.
	if err := zw.Close(); err != nil {
		return "", wrap(ErrEncoding, "deflate", "finish stream", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode: it base64-decodes text, inflates the zlib stream,
// and returns the original document.
func Decode(text string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return "", wrap(ErrEncoding, "base64", "decode text", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", wrap(ErrEncoding, "inflate", "read header", err)
	}
	defer zr.Close()

	var out strings.Builder
	if _, err := io.Copy(&out, zr); err != nil {
		return "", wrap(ErrEncoding, "inflate", "decompress document", err)
	}
	return out.String(), nil
}
