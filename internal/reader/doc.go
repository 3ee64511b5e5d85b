// Package reader wires capture, extraction, matching, and the roster into the
// identification and enrollment workflows the CLI and HTTP surfaces expose.
//
// A Reader holds no mutable state of its own; each call gets a correlation id
// that follows it through the logs.
package reader
