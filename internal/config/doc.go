// Package config loads, normalizes, and validates voxum configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and RESEND_API_KEY (optionally from a .env file). The Config
// type centralizes every knob the CLI and watcher need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
