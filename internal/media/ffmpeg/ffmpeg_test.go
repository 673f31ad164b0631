package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWAVArgs(t *testing.T) {
	args := WAVArgs("in.mp3", "out.wav")
	joined := strings.Join(args, " ")
	for _, want := range []string{"-i in.mp3", "-ac 1", "-ar 16000", "-c:a pcm_s16le", "-f wav"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
	if args[len(args)-1] != "out.wav" {
		t.Fatalf("destination must be last, got %q", args[len(args)-1])
	}
}

func TestToWAVRenamesIntoPlace(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "ep.wav")

	var gotName string
	conv := New("").WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		return nil, os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	})
	if err := conv.ToWAV(context.Background(), filepath.Join(dir, "ep.mp3"), dest); err != nil {
		t.Fatalf("ToWAV: %v", err)
	}
	if gotName != DefaultBinary {
		t.Fatalf("binary = %q", gotName)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "RIFF" {
		t.Fatalf("dest content = %q, err = %v", data, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the wav, found %d entries", len(entries))
	}
}

func TestToWAVFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "ep.wav")

	conv := New("/opt/ffmpeg").WithRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		_ = os.WriteFile(args[len(args)-1], []byte("partial"), 0o644)
		return []byte("Invalid data found when processing input\n"), errors.New("exit status 1")
	})
	err := conv.ToWAV(context.Background(), "ep.mp3", dest)
	if err == nil || !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected ffmpeg output in error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected no leftovers, found %v", names)
	}
	if conv.Binary() != "/opt/ffmpeg" {
		t.Fatalf("binary = %q", conv.Binary())
	}
}

func TestToWAVRequiresPaths(t *testing.T) {
	if err := ToWAV(context.Background(), "", "", "x.wav"); err == nil {
		t.Fatal("expected error for empty source")
	}
}
