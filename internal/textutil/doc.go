// Package textutil provides text processing utilities for title matching and
// filename sanitization.
//
// The primary use cases are:
//   - Normalizing titles and candidate filenames for comparison
//   - Computing a blended edit-distance/token-overlap similarity score
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Similarity operates on normalized strings: lowercased, stripped of
// non-alphanumeric characters, with whitespace runs collapsed. Exact and
// containment matches short-circuit before the blended score is computed.
package textutil
