package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and output file configuration.
type Paths struct {
	AudioDir      string `toml:"audio_dir"`
	TranscriptDir string `toml:"transcript_dir"`
	OutputFile    string `toml:"output_file"`
	StateDir      string `toml:"state_dir"`
}

// Transcription contains settings for the batch transcription pipeline.
type Transcription struct {
	Engine            string `toml:"engine"`
	Model             string `toml:"model"`
	Language          string `toml:"language"`
	Workers           int    `toml:"workers"`
	Device            string `toml:"device"`
	AudioExtension    string `toml:"audio_extension"`
	KeepWAV           bool   `toml:"keep_wav"`
	ModelsDir         string `toml:"models_dir"`
	WhisperCppBinary  string `toml:"whispercpp_binary"`
	Threads           int    `toml:"threads"`
	WhisperXVADMethod string `toml:"whisperx_vad_method"`
	WhisperXHFToken   string `toml:"whisperx_hf_token"`
	FFmpegBinary      string `toml:"ffmpeg_binary"`
	FFprobeBinary     string `toml:"ffprobe_binary"`
	// AutoDownloadModel fetches a missing ggml model into ModelsDir before
	// a whisper.cpp run.
	AutoDownloadModel bool   `toml:"auto_download_model"`
	ModelBaseURL      string `toml:"model_base_url"`
}

// Cleanup contains the head/tail stripping heuristic and merge layout settings.
type Cleanup struct {
	// Heads and Tails are ordered: the first phrase in list order that matches
	// inside its window wins.
	Heads []string `toml:"heads"`
	Tails []string `toml:"tails"`
	// HeadLimit is the exclusive upper bound for a head match offset.
	HeadLimit int `toml:"head_limit"`
	// TailFloor is the exclusive lower bound for a tail match offset.
	TailFloor int `toml:"tail_floor"`
	// HeadSkip is the number of characters dropped after a head phrase.
	HeadSkip            int    `toml:"head_skip"`
	TitlePrefixLen      int    `toml:"title_prefix_len"`
	TranscriptExtension string `toml:"transcript_extension"`
}

// Feed contains configuration for the optional podcast feed fetcher.
type Feed struct {
	URL            string `toml:"url"`
	Limit          int    `toml:"limit"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// History controls the SQLite run ledger.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	File          bool   `toml:"file"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for podscribe.
//
// Configuration sections by subsystem:
//   - Paths: audio/transcript directories, aggregate output, state directory
//   - Transcription: engine, model, worker count, execution device
//   - Cleanup: head/tail phrase lists and position thresholds
//   - Feed: podcast feed URL for the episode fetcher
//   - History: SQLite ledger of transcription outcomes
//   - Logging: log format, level, file output, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcription Transcription `toml:"transcription"`
	Cleanup       Cleanup       `toml:"cleanup"`
	Feed          Feed          `toml:"feed"`
	History       History       `toml:"history"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/podscribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(resolvedPath), ".env"), ".env"); err != nil {
		return nil, "", false, err
	}

	if exists {
		// Phrase lists come from the file when present; normalize restores
		// the built-in lists for keys the file leaves unset.
		cfg.Cleanup.Heads, cfg.Cleanup.Tails = nil, nil

		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("podscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// loadDotEnv populates unset environment variables from the given .env files.
// Missing files are ignored; variables already present in the environment win.
func loadDotEnv(paths ...string) error {
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			return fmt.Errorf("load env file %s: %w", abs, err)
		}
	}
	return nil
}

// EnsureDirectories creates the state directory and the aggregate output's
// parent directory. Source directories are never created: a missing audio or
// transcript directory is reported by the pipelines.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir}
	if out := strings.TrimSpace(c.Paths.OutputFile); out != "" {
		dirs = append(dirs, filepath.Dir(out))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogDir returns the directory that holds podscribe log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.Paths.StateDir, "logs")
}

// HistoryPath returns the SQLite ledger location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// MergeLockPath returns the lock file guarding merge runs.
func (c *Config) MergeLockPath() string {
	return filepath.Join(c.Paths.StateDir, "merge.lock")
}

// TranscribeLockPath returns the lock file guarding batch transcription runs.
func (c *Config) TranscribeLockPath() string {
	return filepath.Join(c.Paths.StateDir, "transcribe.lock")
}

// WhisperCppModelPath returns the ggml model file for the configured model.
func (c *Config) WhisperCppModelPath() string {
	return filepath.Join(c.Transcription.ModelsDir, fmt.Sprintf("ggml-%s.bin", c.Transcription.Model))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
