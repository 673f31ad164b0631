// Package textutil provides small text helpers shared by the pipelines:
// decoding transcript bytes into UTF-8 and sanitizing episode titles for
// use as filenames.
//
// Transcripts written by older tooling are occasionally Windows-1252
// encoded; Decode detects invalid UTF-8 and converts those bytes with
// golang.org/x/text so the cleanup heuristics always see proper characters.
package textutil
