// Package export turns fingerprint JSON documents into output lines.
//
// The Exporter walks an ordered list of audio paths, asks a fingerprint
// Engine for each file's JSON document, and writes one line per file to the
// output sink: either the document itself (ModePlain) or its zlib-compressed,
// base64-encoded form (ModeCompressedBase64). Failures are file-scoped: the
// file contributes no line, a diagnostic naming the file is logged, and the
// run moves on.
//
// Encode and Decode are the standalone codec. Encoded text is plain RFC 4648
// base64 of a standard zlib stream, so any zlib inflater can recover the
// document byte for byte.
package export
