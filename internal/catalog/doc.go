// Package catalog persists the video-library catalog as a single JSON
// document and exposes CRUD over analyses and clips.
//
// The Store is the sole writer of the catalog file. Every structural
// mutation funnels through Transaction, which acquires an exclusive
// filesystem lock with bounded retries, reloads the document from disk,
// applies the mutator, refreshes a .backup sibling, writes the new document
// to a .tmp sibling, and renames it over the original. A reader never
// observes a half-written catalog; a crash mid-write leaves either the old
// file or a recoverable temp file.
//
// Plain read accessors serve the last-loaded snapshot without reloading.
// Callers needing freshness go through a write or an explicit Reload.
//
// Concurrent transactions from separate processes race for the file lock;
// the loser retries with backoff and reloads the then-current document, so
// structural updates are never lost. Two transactions can still read the
// same snapshot and compute conflicting deltas; callers needing strict
// ordering must serialize those calls themselves.
//
// Invariants: every clip's analysisId references an existing analysis, and
// each analysis's clip-id list is exactly the set of clips pointing back to
// it. Deleting an analysis removes its clips in the same transaction.
package catalog
