// Package config loads, normalizes, and validates unicsv configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: the replacement delimiter, the data and log directories,
// and log output settings.
//
// The delimiter is always an explicit configuration value; nothing in this
// package or its consumers reads the ambient system locale. Always obtain
// settings through this package so downstream code receives sanitized paths
// and clear validation errors.
package config
