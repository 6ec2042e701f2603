// Package config loads, normalizes, and validates reel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REEL_NTFY_TOPIC and REEL_FFMPEG. Relative job resources (images and the
// audio track) resolve against the directory that holds the config file.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
