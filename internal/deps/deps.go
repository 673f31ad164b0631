// Package deps reports which external programs and model files the
// pipelines need and whether they are present.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"podscribe/internal/config"
	"podscribe/internal/services/whispercpp"
)

// Requirement defines an external dependency podscribe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries the configured pipelines invoke.
func Requirements(cfg *config.Config) []Requirement {
	t := cfg.Transcription
	reqs := []Requirement{
		{Name: "FFmpeg", Command: t.FFmpegBinary, Description: "Converts episodes to 16 kHz mono WAV"},
		{Name: "FFprobe", Command: t.FFprobeBinary, Description: "Reads episode duration for logs", Optional: true},
	}
	switch t.Engine {
	case config.EngineWhisperX:
		reqs = append(reqs, Requirement{Name: "uvx", Command: "uvx", Description: "Runs WhisperX"})
	default:
		reqs = append(reqs, Requirement{Name: "whisper.cpp", Command: t.WhisperCppBinary, Description: "Runs whisper.cpp transcription"})
	}
	reqs = append(reqs, Requirement{Name: "nvidia-smi", Command: "nvidia-smi", Description: "Detects CUDA GPUs", Optional: true})
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Path = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckWhisperModel reports whether the configured whisper.cpp model file
// exists. Other engines download their own models and need no check.
func CheckWhisperModel(cfg *config.Config) (Status, bool) {
	if cfg.Transcription.Engine != config.EngineWhisperCpp {
		return Status{}, false
	}
	path := whispercpp.ModelPath(cfg.Transcription.ModelsDir, cfg.Transcription.Model)
	status := Status{
		Name:        "whisper.cpp model",
		Command:     cfg.Transcription.Model,
		Path:        path,
		Description: "ggml model weights",
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		status.Detail = fmt.Sprintf("model file %s not found; run podscribe models pull or enable transcription.auto_download_model", path)
	case info.IsDir():
		status.Detail = fmt.Sprintf("%s is a directory", path)
	default:
		status.Available = true
	}
	return status, true
}
