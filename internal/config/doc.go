// Package config loads, validates, and normalizes clipshelf configuration.
//
// Configuration comes from a TOML file resolved from an explicit --config
// path, ~/.config/clipshelf/config.toml, or a clipshelf.toml in the working
// directory, in that order. Defaults cover every field so a missing file
// still yields a usable configuration.
//
// All path fields are tilde-expanded and absolute after Load returns.
// EnsureDirectories creates the library layout (analyses, transcripts,
// clips) plus the log directory.
package config
