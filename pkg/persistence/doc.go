// Package persistence provides runtime configuration persistence for the
// ANCS demo consumer.
//
// This package handles the JSON serialization of session configuration
// (the last-bonded peripheral address and attribute-subscription presets)
// that should survive process restarts. It never persists notification
// content; notifications are transient and flow only through the event
// sink for the lifetime of a connection.
package persistence
