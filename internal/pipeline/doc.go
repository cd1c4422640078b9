// Package pipeline orchestrates delimiter conversion around the transcoder
// core.
//
// A Service detects a file's encoding, converts into a temporary sibling
// file, and promotes the result over the destination only on success, so a
// failed conversion never corrupts the original. Successful conversions are
// recorded in the tracker store, and a cross-process file lock keeps two
// invocations from promoting over each other's work. Restore runs the same
// machinery in the opposite direction to bring a normalized file back to
// the legacy tab format.
package pipeline
