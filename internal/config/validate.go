package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"podscribe/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateCleanup(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.AudioDir) == "" {
		return errors.New("paths.audio_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		return errors.New("paths.output_file must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	switch t.Engine {
	case EngineWhisperCpp:
		if !slices.Contains(whisperCppModels, t.Model) {
			return fmt.Errorf("transcription.model %q is not a whisper.cpp model (expected one of %s)", t.Model, strings.Join(whisperCppModels, ", "))
		}
	case EngineWhisperX:
	default:
		return fmt.Errorf("transcription.engine must be %q or %q, got %q", EngineWhisperCpp, EngineWhisperX, t.Engine)
	}
	if !language.Known(t.Language) {
		return fmt.Errorf("transcription.language %q is not a recognized language code", t.Language)
	}
	if t.Workers < 1 || t.Workers > MaxWorkers {
		return fmt.Errorf("transcription.workers must be in the range [1, %d]", MaxWorkers)
	}
	switch t.Device {
	case DeviceAuto, DeviceCPU, DeviceCUDA, DeviceMetal:
	default:
		return fmt.Errorf("transcription.device must be one of auto, cpu, cuda, metal, got %q", t.Device)
	}
	if u, err := url.Parse(t.ModelBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("transcription.model_base_url must be an http(s) URL, got %q", t.ModelBaseURL)
	}
	if t.Threads < 0 {
		return errors.New("transcription.threads must be >= 0")
	}
	switch t.WhisperXVADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.whisperx_vad_method must be silero or pyannote, got %q", t.WhisperXVADMethod)
	}
	return nil
}

func (c *Config) validateCleanup() error {
	cl := c.Cleanup
	if cl.HeadLimit <= 0 {
		return errors.New("cleanup.head_limit must be positive")
	}
	if cl.TailFloor < 0 {
		return errors.New("cleanup.tail_floor must be >= 0")
	}
	if cl.HeadSkip < 0 {
		return errors.New("cleanup.head_skip must be >= 0")
	}
	if cl.TitlePrefixLen < 0 {
		return errors.New("cleanup.title_prefix_len must be >= 0")
	}
	if cl.TranscriptExtension == c.Transcription.AudioExtension {
		return errors.New("cleanup.transcript_extension must differ from transcription.audio_extension")
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.Limit < 0 {
		return errors.New("feed.limit must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "critical":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warning, error, critical, got %q", c.Logging.Level)
	}
}
