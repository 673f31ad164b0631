// Package logging assembles structured slog loggers and formatting helpers used
// across podscribe components.
//
// It owns the console and JSON handlers, maps the CLI's DEBUG/INFO/WARNING/
// ERROR/CRITICAL verbosity names onto slog levels, fans records out to an
// optional JSON log file, and exposes context helpers that tag log lines with
// the current run identifier and file. Loggers are always passed explicitly;
// the package never installs a global default.
//
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
