// Package preflight provides readiness checks for the filesystem paths,
// external programs and network endpoints podscribe depends on.
//
// The doctor command prints every result. The transcribe command runs the
// same checks first and refuses to start when a required one fails, so a
// missing ffmpeg is reported once instead of once per episode.
package preflight
