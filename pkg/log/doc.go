// Package log provides structured protocol logging for the ANCS consumer.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, session).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For capture/replay: write to binary file
//	logger, _ := log.NewFileLogger("/var/log/ancs/session.alog")
//
//	// Both: use MultiLogger
//	fileLogger, _ := log.NewFileLogger("/var/log/ancs/session.alog")
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: raw record bytes in or out (FrameEvent)
//   - Wire: decoded Notification Source records and Data Source
//     attribute completions (NotificationEvent, AttributeEvent)
//   - Session: Control Point dispatch, subscription and mutex state
//     transitions (CommandEvent, StateChangeEvent)
//
// # File Format
//
// Log files use CBOR encoding with a .alog extension.
package log
