package ffprobe

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

const sample = `{
  "streams": [
    {"index": 0, "codec_name": "png", "codec_type": "video"},
    {"index": 1, "codec_name": "mp3", "codec_type": "audio", "sample_rate": "44100", "channels": 2, "duration": "1799.5"}
  ],
  "format": {"filename": "ep.mp3", "duration": "1800.250000", "bit_rate": "128000", "format_name": "mp3",
             "tags": {"title": "Ep A"}}
}`

func TestInspectParsesOutput(t *testing.T) {
	var gotArgs []string
	p := New("").WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != DefaultBinary {
			t.Fatalf("binary = %q", name)
		}
		gotArgs = args
		return []byte(sample), nil
	})
	res, err := p.Inspect(context.Background(), "ep.mp3")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "ep.mp3" || gotArgs[len(gotArgs)-2] != "--" {
		t.Fatalf("unexpected args %v", gotArgs)
	}
	stream, ok := res.AudioStream()
	if !ok || stream.CodecName != "mp3" || stream.Channels != 2 {
		t.Fatalf("unexpected audio stream %+v", stream)
	}
	if res.DurationSeconds() != 1800.25 {
		t.Fatalf("duration = %v", res.DurationSeconds())
	}
	if res.Duration() != 1800250*time.Millisecond {
		t.Fatalf("duration = %v", res.Duration())
	}
	if res.BitRate() != 128000 {
		t.Fatalf("bitrate = %d", res.BitRate())
	}
	if res.Format.Tags["title"] != "Ep A" {
		t.Fatalf("tags = %v", res.Format.Tags)
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	res := Result{Streams: []Stream{{CodecType: "audio", Duration: "12.5"}}}
	if res.DurationSeconds() != 12.5 {
		t.Fatalf("duration = %v", res.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	res := Result{Format: Format{Duration: "bad", BitRate: "nope"}}
	if !math.IsNaN(res.DurationSeconds()) {
		t.Fatalf("expected NaN, got %v", res.DurationSeconds())
	}
	if res.Duration() != 0 {
		t.Fatalf("expected zero duration, got %v", res.Duration())
	}
	if res.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", res.BitRate())
	}
}

func TestInspectErrors(t *testing.T) {
	p := New("ffprobe").WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})
	if _, err := p.Inspect(context.Background(), "ep.mp3"); err == nil {
		t.Fatal("expected runner error")
	}
	if _, err := p.Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}

	bad := New("ffprobe").WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("not json"), nil
	})
	if _, err := bad.Inspect(context.Background(), "ep.mp3"); err == nil {
		t.Fatal("expected parse error")
	}
}
