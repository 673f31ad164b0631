package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is used when no binary is configured.
const DefaultBinary = "ffmpeg"

// SampleRate is the output sample rate in Hz.
const SampleRate = 16000

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Converter runs ffmpeg conversions.
type Converter struct {
	binary string
	run    Runner
}

// New returns a Converter for binary (DefaultBinary when empty).
func New(binary string) *Converter {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Converter{binary: binary, run: execRunner}
}

// WithRunner replaces the command runner (for testing).
func (c *Converter) WithRunner(run Runner) *Converter {
	c.run = run
	return c
}

// Binary returns the configured executable.
func (c *Converter) Binary() string {
	return c.binary
}

// ToWAV converts src into dest. The output is written to a temporary file
// first so an interrupted conversion never leaves a truncated WAV at dest.
func (c *Converter) ToWAV(ctx context.Context, src, dest string) error {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dest) == "" {
		return errors.New("ffmpeg convert: source and destination required")
	}
	tmp := dest + ".part"
	if output, err := c.run(ctx, c.binary, WAVArgs(src, tmp)...); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("ffmpeg convert: %w: %s", err, strings.TrimSpace(string(output)))
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("ffmpeg convert: %w", err)
	}
	return nil
}

// ToWAV converts src into dest with the given binary.
func ToWAV(ctx context.Context, binary, src, dest string) error {
	return New(binary).ToWAV(ctx, src, dest)
}

// WAVArgs returns the ffmpeg arguments for a mono 16 kHz PCM conversion.
func WAVArgs(src, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", SampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		dest,
	}
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}
