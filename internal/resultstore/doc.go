// Package resultstore persists previously computed fingerprint results in
// SQLite and serves them back as JSON documents.
//
// Each row maps an absolute audio path to the JSON document a fingerprinting
// run produced for it, plus a little metadata (strategy name, fingerprint
// count, import time) extracted at import so listings never parse documents.
// Store implements export.Engine through its JSON method, which is how the
// tojson command obtains documents.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package resultstore
