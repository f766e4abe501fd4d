// Package config loads and validates the YAML application configuration
// covering the HTTP server, the optional SQLite store, catalog extension
// files, and telemetry settings.
package config
