// Package clip drives ffmpeg to produce trimmed, optionally rescaled media
// files with live progress reporting.
//
// Two extraction strategies exist: copy mode performs a lossless segment
// copy (fast, byte-exact, no transcode) and re-encode mode performs a
// frame-accurate re-encode with a coarse pre-seek followed by a precise
// secondary seek. Re-encode is mandatory whenever geometry changes or frame
// accuracy is requested; copy mode is chosen otherwise.
//
// Extraction failures are returned as structured Result values carrying the
// error text rather than Go errors, so callers can render failures without
// error handling at this boundary. No subprocess timeout is imposed; pass a
// cancellable context to bound a run.
package clip
