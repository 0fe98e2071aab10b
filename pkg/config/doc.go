// Package config handles configuration management for modpatch.
// It layers the embedded defaults, a TOML config file, MODPATCH_ environment
// variables and command-line overrides with koanf, and decodes the result
// into a Config.
package config
