// Package logging constructs slog loggers for clipshelf.
//
// Two output formats are supported: a human-oriented console handler and a
// machine-oriented JSON handler. NewFromConfig wires the configured format,
// level, and log file; NewNop returns a logger that discards everything,
// for tests and optional dependencies.
package logging
