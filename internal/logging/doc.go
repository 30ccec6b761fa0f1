// Package logging assembles structured slog loggers for fpexport.
//
// It owns the console and JSON handlers, keeps every diagnostic on stderr so
// stdout remains a clean data channel for exported documents, and can mirror
// records into a rotating log file. Helpers standardize field keys such as
// file and run_id so per-file failures are easy to grep.
package logging
