// Package logging builds the slog loggers shared by the CLI, capture pipeline,
// and HTTP surface.
//
// Console output is a compact single-line format aimed at operators at the
// reader terminal; JSON output suits log shippers. When a log directory is
// configured, every record is also written to a time-rotated file that is
// pruned after the configured retention window.
package logging
