// Package device picks the compute target for speech recognition.
package device

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Target is the compute backend handed to the engines.
type Target string

const (
	CPU   Target = "cpu"
	CUDA  Target = "cuda"
	Metal Target = "metal"
)

// Auto asks Probe to detect the best available target.
const Auto = "auto"

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober detects available accelerators.
type Prober struct {
	run  Runner
	goos string
	arch string
}

// NewProber returns a Prober that runs real commands on the current platform.
func NewProber() *Prober {
	return &Prober{run: execRunner, goos: runtime.GOOS, arch: runtime.GOARCH}
}

// WithRunner replaces the command runner (for testing).
func (p *Prober) WithRunner(run Runner) *Prober {
	p.run = run
	return p
}

// WithPlatform overrides the detected platform (for testing).
func (p *Prober) WithPlatform(goos, arch string) *Prober {
	p.goos, p.arch = goos, arch
	return p
}

// Probe resolves preference into a Target. Explicit values are honoured as
// is; "auto" (or empty) selects CUDA when nvidia-smi lists a GPU, Metal on
// Apple silicon, and CPU otherwise.
func (p *Prober) Probe(ctx context.Context, preference string) (Target, error) {
	switch pref := strings.ToLower(strings.TrimSpace(preference)); pref {
	case string(CPU), string(CUDA), string(Metal):
		return Target(pref), nil
	case "", Auto:
	default:
		return CPU, fmt.Errorf("unknown device preference %q", preference)
	}
	if p.hasNvidiaGPU(ctx) {
		return CUDA, nil
	}
	if p.goos == "darwin" && p.arch == "arm64" {
		return Metal, nil
	}
	return CPU, nil
}

// Probe resolves preference on the current platform.
func Probe(ctx context.Context, preference string) (Target, error) {
	return NewProber().Probe(ctx, preference)
}

func (p *Prober) hasNvidiaGPU(ctx context.Context) bool {
	out, err := p.run(ctx, "nvidia-smi", "-L")
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "GPU ")
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec
}
