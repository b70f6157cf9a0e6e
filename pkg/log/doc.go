// Package log provides structured bring-up tracing for the accessory.
//
// This package defines the Logger interface and Event types for capturing
// what happened while the device was brought up: notifications dispatched
// by the event router, state transitions of the provisioning controller,
// the station and the secure server, and errors reported by any component.
// It is separate from operational logging (slog) - a trace is a complete,
// machine-readable record meant for post-mortem analysis.
//
// # Basic Usage
//
//	// For development: mirror trace events to the console via slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For field units: write to a binary file
//	cfg.Trace, _ = log.NewFileLogger("/var/lib/accessory/bringup.btrace")
//
//	// Both
//	cfg.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys and
// use the .btrace extension. The accessory-trace CLI views, summarizes and
// exports them.
package log
