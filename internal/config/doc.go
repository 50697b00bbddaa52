// Package config loads, normalizes, and validates captionscript
// configuration from TOML. A Config is constructed once per render job and
// never mutated while the job runs.
package config
