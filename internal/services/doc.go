// Package services defines shared utilities consumed by the capture, matching,
// and enrollment workflows.
//
// Key responsibilities:
//   - Context helpers that stamp student IDs and correlation identifiers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (capture, extraction, malformed template, storage) with
//     errors.Is regardless of how deeply they were wrapped.
//
// Use these helpers when wiring new workflow logic so error handling and
// observability stay uniform across the CLI and HTTP surfaces.
package services
