package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"podscribe/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "podscribe")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.AudioDir) {
		t.Fatalf("expected absolute audio dir, got %q", cfg.Paths.AudioDir)
	}
	if cfg.Paths.TranscriptDir != cfg.Paths.AudioDir {
		t.Fatalf("expected transcript dir to default to audio dir, got %q", cfg.Paths.TranscriptDir)
	}
	if cfg.Cleanup.HeadLimit != 2000 || cfg.Cleanup.TailFloor != 15500 {
		t.Fatalf("unexpected thresholds: %d/%d", cfg.Cleanup.HeadLimit, cfg.Cleanup.TailFloor)
	}
	if cfg.Cleanup.HeadSkip != 2 {
		t.Fatalf("unexpected head skip: %d", cfg.Cleanup.HeadSkip)
	}
	if len(cfg.Cleanup.Heads) != len(config.DefaultHeads()) {
		t.Fatalf("expected built-in heads, got %d entries", len(cfg.Cleanup.Heads))
	}
	if len(cfg.Cleanup.Tails) != len(config.DefaultTails()) {
		t.Fatalf("expected built-in tails, got %d entries", len(cfg.Cleanup.Tails))
	}
	if cfg.Transcription.Engine != config.EngineWhisperCpp {
		t.Fatalf("unexpected engine: %q", cfg.Transcription.Engine)
	}
	if cfg.Transcription.Workers != 1 {
		t.Fatalf("unexpected workers: %d", cfg.Transcription.Workers)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.StateDir); err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.AudioDir); !os.IsNotExist(err) {
		t.Fatalf("expected audio dir to be left alone, stat err=%v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	configPath := filepath.Join(tempDir, "podscribe.toml")

	type payload struct {
		Paths struct {
			AudioDir   string `toml:"audio_dir"`
			OutputFile string `toml:"output_file"`
		} `toml:"paths"`
		Transcription struct {
			Engine  string `toml:"engine"`
			Model   string `toml:"model"`
			Workers int    `toml:"workers"`
		} `toml:"transcription"`
		Cleanup struct {
			Heads     []string `toml:"heads"`
			HeadLimit int      `toml:"head_limit"`
		} `toml:"cleanup"`
	}
	custom := payload{}
	custom.Paths.AudioDir = filepath.Join(tempDir, "audio")
	custom.Paths.OutputFile = "~/out/merged.md"
	custom.Transcription.Engine = "WhisperX"
	custom.Transcription.Model = "large-v3"
	custom.Transcription.Workers = 2
	custom.Cleanup.Heads = []string{"Benvenuti", "", "Benvenuti", "Ciao a tutti"}
	custom.Cleanup.HeadLimit = 500

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Transcription.Engine != config.EngineWhisperX {
		t.Fatalf("expected engine normalized to whisperx, got %q", cfg.Transcription.Engine)
	}
	if cfg.Transcription.Workers != 2 {
		t.Fatalf("unexpected workers: %d", cfg.Transcription.Workers)
	}
	if want := filepath.Join(tempDir, "out", "merged.md"); cfg.Paths.OutputFile != want {
		t.Fatalf("unexpected output file: got %q want %q", cfg.Paths.OutputFile, want)
	}
	wantHeads := []string{"Benvenuti", "Ciao a tutti"}
	if strings.Join(cfg.Cleanup.Heads, "|") != strings.Join(wantHeads, "|") {
		t.Fatalf("unexpected heads: %v", cfg.Cleanup.Heads)
	}
	if len(cfg.Cleanup.Tails) != len(config.DefaultTails()) {
		t.Fatalf("expected default tails when unset, got %d", len(cfg.Cleanup.Tails))
	}
	if cfg.Cleanup.HeadLimit != 500 {
		t.Fatalf("unexpected head limit: %d", cfg.Cleanup.HeadLimit)
	}
	if cfg.Cleanup.TailFloor != 15500 {
		t.Fatalf("expected default tail floor, got %d", cfg.Cleanup.TailFloor)
	}
}

func TestLoadReadsDotEnvNextToConfig(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("HF_TOKEN", "")
	os.Unsetenv("HF_TOKEN")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	os.Unsetenv("HUGGING_FACE_HUB_TOKEN")

	configPath := filepath.Join(tempDir, "podscribe.toml")
	if err := os.WriteFile(configPath, []byte("[transcription]\nengine = \"whisperx\"\nmodel = \"large-v3\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, ".env"), []byte("HF_TOKEN=hf-from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.WhisperXHFToken != "hf-from-dotenv" {
		t.Fatalf("expected token from .env, got %q", cfg.Transcription.WhisperXHFToken)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"too many workers", func(c *config.Config) { c.Transcription.Workers = 3 }, "transcription.workers"},
		{"zero workers", func(c *config.Config) { c.Transcription.Workers = 0 }, "transcription.workers"},
		{"unknown language", func(c *config.Config) { c.Transcription.Language = "klingon" }, "transcription.language"},
		{"unknown engine", func(c *config.Config) { c.Transcription.Engine = "vosk" }, "transcription.engine"},
		{"unknown whispercpp model", func(c *config.Config) { c.Transcription.Model = "huge" }, "transcription.model"},
		{"unknown device", func(c *config.Config) { c.Transcription.Device = "tpu" }, "transcription.device"},
		{"model url scheme", func(c *config.Config) { c.Transcription.ModelBaseURL = "ftp://example.com" }, "transcription.model_base_url"},
		{"head limit", func(c *config.Config) { c.Cleanup.HeadLimit = 0 }, "cleanup.head_limit"},
		{"tail floor", func(c *config.Config) { c.Cleanup.TailFloor = -1 }, "cleanup.tail_floor"},
		{"same extensions", func(c *config.Config) { c.Cleanup.TranscriptExtension = ".mp3" }, "cleanup.transcript_extension"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	path := filepath.Join(tempDir, "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if len(cfg.Cleanup.Heads) == 0 || len(cfg.Cleanup.Tails) == 0 {
		t.Fatal("expected sample config to keep built-in phrase lists")
	}
}
