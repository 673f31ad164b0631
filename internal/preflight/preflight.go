package preflight

import (
	"context"
	"fmt"
	"path/filepath"

	"podscribe/internal/config"
	"podscribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional results never block a run.
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Audio directory", cfg.Paths.AudioDir),
	}
	if cfg.Paths.TranscriptDir != "" && cfg.Paths.TranscriptDir != cfg.Paths.AudioDir {
		results = append(results, CheckDirectoryAccess("Transcript directory", cfg.Paths.TranscriptDir))
	}
	results = append(results,
		CheckDirectoryAccess("Output directory", filepath.Dir(cfg.Paths.OutputFile)),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	)

	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}
	if status, applies := deps.CheckWhisperModel(cfg); applies {
		results = append(results, fromStatus(status))
	}

	if cfg.Feed.URL != "" {
		feed := CheckFeed(ctx, cfg.Feed.URL, cfg.Feed.UserAgent)
		feed.Optional = true
		results = append(results, feed)
	}
	return results
}

// CheckSystemDeps evaluates the binaries required by the configured engine.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}

// Blocking returns the failed results that are not optional.
func Blocking(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}

func fromStatus(status deps.Status) Result {
	res := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	switch {
	case status.Available && status.Path != "":
		res.Detail = status.Path
	case status.Available:
		res.Detail = "available"
	default:
		res.Detail = status.Detail
	}
	if status.Description != "" {
		res.Detail = fmt.Sprintf("%s (%s)", res.Detail, status.Description)
	}
	return res
}
