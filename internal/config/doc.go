// Package config loads, normalizes, and validates showtag configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: catalog location, tagging preferences, album tag component
// layout, artwork search roots, and worker pool sizing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, lowercased artist abbreviations, and clear validation
// errors.
package config
