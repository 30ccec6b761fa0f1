// Package config loads, normalizes, and validates fpexport configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// FPEXPORT_STORE_PATH. The Config type centralizes every knob the CLI needs:
// where the result store lives, which export mode runs by default, and how
// diagnostics are logged.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
