// Package relink repairs video references whose recorded path no longer
// resolves.
//
// Auto-relink derives the expected date folder from the analysis's creation
// date (nearest Sunday on or before), ranks that folder's video files
// against the analysis title with a blended similarity score, and returns
// either a high-confidence suggestion or a disambiguation list. Manual
// relink accepts an explicit path. A bulk verification sweep reconciles the
// link-health cache across the whole catalog, and a collection search scans
// every date folder as an unranked fallback.
//
// Relink operations report domain failures as reason strings on the result
// value rather than errors; store I/O failures still propagate as errors.
package relink
