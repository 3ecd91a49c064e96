// Package ui provides helpers for formatting human-readable console output.
//
// Color enablement is decided once at process start and captured in an
// immutable Palette. ConsoleReporter renders installer progress on top of it,
// while ConsoleCommandEventLogger translates command lifecycle events into
// concise log lines for console-format logging.
package ui
