package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"podscribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The audio, state and models directories exist; the output file does not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.TranscriptDir = cfgVal.Paths.AudioDir
	cfgVal.Paths.OutputFile = filepath.Join(base, "out", "total.md")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Transcription.ModelsDir = filepath.Join(base, "models")
	cfgVal.Transcription.AutoDownloadModel = false
	cfgVal.Logging.File = false
	cfgVal.Feed.URL = ""

	for _, dir := range []string{cfgVal.Paths.AudioDir, cfgVal.Paths.StateDir, cfgVal.Transcription.ModelsDir, filepath.Dir(cfgVal.Paths.OutputFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithEngine selects the transcription engine and model.
func WithEngine(engine, model string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Engine = engine
		b.cfg.Transcription.Model = model
	}
}

// WithWhisperModel writes an empty ggml file for the configured model.
func WithWhisperModel() ConfigOption {
	return func(b *configBuilder) {
		path := b.cfg.WhisperCppModelPath()
		if err := os.WriteFile(path, []byte("ggml"), 0o644); err != nil {
			b.t.Fatalf("write model: %v", err)
		}
	}
}

// WithStubbedBinaries writes stub executables that exit 0 for the provided
// names and prepends them to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "whisper-cli"}
		}
		for _, name := range names {
			WriteScript(b.t, filepath.Join(b.baseDir, "bin"), name, "exit 0\n")
		}
		PrependPath(b.t, filepath.Join(b.baseDir, "bin"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.AudioDir)
}
