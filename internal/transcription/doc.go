// Package transcription converts a directory of episode audio into text
// transcripts.
//
// Batch.Run lists the audio files, skips every file whose transcript already
// exists, and hands the rest to a small worker pool. Each job converts the
// audio to a 16 kHz mono WAV, runs the configured Engine, writes the
// transcript atomically and removes the WAV. A failing file is logged and
// counted but never stops the batch; because it leaves no transcript behind,
// the next run retries it.
package transcription
