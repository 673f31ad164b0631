// Package config loads, normalizes, and validates podscribe configuration data.
//
// It supplies repository defaults (including the built-in head/tail phrase
// lists for the cleanup heuristic), expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_TOKEN, optionally sourced from a .env file. The Config type centralizes
// every knob the transcription and merge pipelines need so directories,
// thresholds, and engine settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log levels, and clear validation errors.
package config
