package transcription

import "context"

// Segment is one recognized span of speech. Start and End are in seconds.
type Segment struct {
	Text  string
	Start float64
	End   float64
}

// Engine turns a prepared WAV file into text segments.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, wavPath string) ([]Segment, error)
}
