// Package config loads, normalizes, and validates ridgeid configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RIDGEID_DEVICE and RIDGEID_DATABASE. The Config type centralizes every knob
// the CLI, capture pipeline, and HTTP surface need so the roster database,
// capture device, and log directory are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
