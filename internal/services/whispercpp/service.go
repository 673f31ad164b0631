package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"podscribe/internal/device"
	"podscribe/internal/language"
	"podscribe/internal/services"
	"podscribe/internal/transcription"
)

// DefaultBinary is the whisper.cpp CLI name in current releases.
const DefaultBinary = "whisper-cli"

// Config captures runtime settings for whisper.cpp runs.
type Config struct {
	Binary    string
	ModelsDir string
	Model     string
	// Language is an ISO 639-1 code; empty requests auto-detection.
	Language string
	// Threads is passed with -t when positive.
	Threads int
	Device  device.Target
	// ScratchDir holds per-file output; empty uses the system temp dir.
	ScratchDir string
}

// Service provides whisper.cpp transcription.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper.cpp service.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Name identifies the engine in logs and history.
func (s *Service) Name() string {
	return "whispercpp"
}

// ModelPath returns the ggml model file for the configured model.
func (s *Service) ModelPath() string {
	return ModelPath(s.cfg.ModelsDir, s.cfg.Model)
}

// ModelPath returns the ggml model file for model inside dir.
func ModelPath(dir, model string) string {
	return filepath.Join(dir, "ggml-"+model+".bin")
}

// Transcribe runs whisper-cli on wavPath and returns its segments.
func (s *Service) Transcribe(ctx context.Context, wavPath string) ([]transcription.Segment, error) {
	if strings.TrimSpace(wavPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "whispercpp", "transcribe", "source path required", nil)
	}
	if _, err := os.Stat(s.ModelPath()); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "whispercpp", "load model",
			fmt.Sprintf("model file %s not found; download it from the whisper.cpp releases", s.ModelPath()), err)
	}

	scratch, err := os.MkdirTemp(s.cfg.ScratchDir, "whispercpp-*")
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "whispercpp", "scratch dir", "", err)
	}
	defer os.RemoveAll(scratch)

	stem := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	prefix := filepath.Join(scratch, stem)
	if err := s.run(ctx, s.cfg.Binary, s.buildArgs(wavPath, prefix)...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrExternalTool, "whispercpp", "transcribe", filepath.Base(wavPath), err)
	}

	segments, err := LoadSegments(prefix + ".json")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "whispercpp", "load output", filepath.Base(wavPath), err)
	}
	return segments, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, lastLines(string(output), 5))
	}
	return nil
}

func (s *Service) buildArgs(source, prefix string) []string {
	lang := language.ToISO2(s.cfg.Language)
	if lang == "" {
		lang = language.Auto
	}
	args := []string{
		"-m", s.ModelPath(),
		"-f", source,
		"-oj",
		"-of", prefix,
		"-np",
		"-l", lang,
	}
	if s.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(s.cfg.Threads))
	}
	if s.cfg.Device == device.CPU {
		args = append(args, "-ng")
	}
	return args
}

type offsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type entry struct {
	Offsets offsets `json:"offsets"`
	Text    string  `json:"text"`
}

type payload struct {
	Transcription []entry `json:"transcription"`
}

// LoadSegments parses a whisper-cli JSON file. Offsets are milliseconds.
func LoadSegments(jsonPath string) ([]transcription.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse whisper.cpp json: %w", err)
	}
	segments := make([]transcription.Segment, 0, len(p.Transcription))
	for _, e := range p.Transcription {
		segments = append(segments, transcription.Segment{
			Text:  e.Text,
			Start: float64(e.Offsets.From) / 1000,
			End:   float64(e.Offsets.To) / 1000,
		})
	}
	return segments, nil
}

func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
