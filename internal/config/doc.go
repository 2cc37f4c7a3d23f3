// Package config loads, normalizes, and validates bookconv configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BOOKCONV_BASE_DIR and BOOKCONV_CONVERTER. The Config type replaces fixed
// process-wide paths: every component receives the directories and converter
// settings it needs from a Config value, which keeps tests isolated in
// temporary directories.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical extensions, and clear validation errors.
package config
