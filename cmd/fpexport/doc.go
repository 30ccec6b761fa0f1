// Package main hosts the fpexport CLI entrypoint and command graph.
//
// The Cobra-based command tree exports stored fingerprint documents as JSON
// lines (plain or compressed base64), imports documents into the result
// store, and scaffolds configuration. Exported lines are the only thing
// written to stdout; every diagnostic goes to stderr through the structured
// logger so the output can be piped into other tools.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
