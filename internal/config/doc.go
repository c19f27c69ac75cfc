// Package config loads, normalizes, and validates crosscast's TOML
// configuration: drop folder routing, upload orchestration tuning,
// history and logging settings.
package config
