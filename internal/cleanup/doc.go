// Package cleanup strips advertising boilerplate from the head and tail of a
// podcast transcript.
//
// Boundaries are found by a BoundaryFinder. The default PositionWindow finder
// searches an ordered phrase list case-insensitively and accepts a match only
// inside a fixed character window: before HeadLimit for heads, after
// TailFloor for tails. List order is priority; the first listed phrase that
// matches in-window wins regardless of where other phrases occur in the text.
//
// Offsets are counted in characters (Unicode code points), not bytes.
package cleanup
