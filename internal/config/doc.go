// Package config loads client configuration from defaults, an optional YAML file and
// YTWEB_* environment variables, and keeps desktop preferences in Fyne storage.
package config
