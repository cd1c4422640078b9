// Package logging assembles the structured slog loggers used across unicsv.
//
// It owns level and format parsing, optional log-file routing under the
// configured log directory, and a no-op logger for tests and wiring code
// that cannot fail. Prefer these constructors over hand-rolled slog setup so
// every component emits log lines with the same shape.
package logging
