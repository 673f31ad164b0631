// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The transcription pipeline uses it to log episode duration and codec
// before conversion. Inspection is best-effort: callers treat a failure as
// missing metadata, not as a reason to skip the file.
package ffprobe
