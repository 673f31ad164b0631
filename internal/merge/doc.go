// Package merge builds the aggregate markdown document from a directory of
// transcripts.
//
// A run takes an exclusive lock next to the output file, deletes the
// previous document, then walks the transcripts in filename order. Each one
// is decoded, stripped of head and tail boilerplate by the cleanup package,
// and appended as an episode section. The output file is only created once
// the first section is ready, so an empty or missing source directory never
// leaves an empty document behind.
package merge
