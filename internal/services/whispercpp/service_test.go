package whispercpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"podscribe/internal/device"
	"podscribe/internal/services"
)

const sampleJSON = `{
  "result": {"language": "it"},
  "transcription": [
    {"timestamps": {"from": "00:00:00,000", "to": "00:00:02,500"}, "offsets": {"from": 0, "to": 2500}, "text": " Ciao a tutti."},
    {"timestamps": {"from": "00:00:02,500", "to": "00:00:04,000"}, "offsets": {"from": 2500, "to": 4000}, "text": " Benvenuti."}
  ]
}`

func newModelsDir(t *testing.T, model string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(ModelPath(dir, model), []byte("ggml"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func argValue(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func TestTranscribe(t *testing.T) {
	models := newModelsDir(t, "base")
	svc := NewService(Config{ModelsDir: models, Model: "base", Language: "ita", Threads: 4, Device: device.CPU, ScratchDir: t.TempDir()})

	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return os.WriteFile(argValue(args, "-of")+".json", []byte(sampleJSON), 0o644)
	})

	segments, err := svc.Transcribe(context.Background(), "/audio/[20240105] Ep A.wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if gotName != DefaultBinary {
		t.Fatalf("binary = %q", gotName)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != " Ciao a tutti." || segments[0].End != 2.5 || segments[1].Start != 2.5 {
		t.Fatalf("unexpected segments %+v", segments)
	}
	if argValue(gotArgs, "-m") != filepath.Join(models, "ggml-base.bin") {
		t.Fatalf("model arg = %q", argValue(gotArgs, "-m"))
	}
	if argValue(gotArgs, "-l") != "it" || argValue(gotArgs, "-t") != "4" {
		t.Fatalf("unexpected args %v", gotArgs)
	}
	if !slices.Contains(gotArgs, "-ng") {
		t.Fatal("cpu target must disable the GPU")
	}
	if filepath.Base(argValue(gotArgs, "-of")) != "[20240105] Ep A" {
		t.Fatalf("output prefix = %q", argValue(gotArgs, "-of"))
	}
}

func TestBuildArgsGPUAndAutoLanguage(t *testing.T) {
	svc := NewService(Config{ModelsDir: "/m", Model: "small", Device: device.CUDA})
	args := svc.buildArgs("a.wav", "/tmp/a")
	if slices.Contains(args, "-ng") {
		t.Fatal("gpu target must not pass -ng")
	}
	if argValue(args, "-l") != "auto" {
		t.Fatalf("expected auto language, got %v", args)
	}
	if slices.Contains(args, "-t") {
		t.Fatal("threads omitted when zero")
	}
}

func TestTranscribeMissingModel(t *testing.T) {
	svc := NewService(Config{ModelsDir: t.TempDir(), Model: "large-v3"})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("runner must not be called without a model")
		return nil
	})
	_, err := svc.Transcribe(context.Background(), "ep.wav")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranscribeToolFailure(t *testing.T) {
	svc := NewService(Config{ModelsDir: newModelsDir(t, "tiny"), Model: "tiny", ScratchDir: t.TempDir()})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 3")
	})
	if _, err := svc.Transcribe(context.Background(), "ep.wav"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestLastLines(t *testing.T) {
	if got := lastLines("a\nb\nc\n", 2); got != "b\nc" {
		t.Fatalf("lastLines = %q", got)
	}
}
