package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"podscribe/internal/config"
	"podscribe/internal/logging"
)

func TestParseLevelAcceptsCLINames(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"CRITICAL", logging.LevelCritical},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if err != nil {
				t.Fatalf("ParseLevel(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if _, err := logging.ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer logger.Close()

	logger.Info("message without caller", logging.String("k", "v"))

	out := buf.String()
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "message without caller") {
		t.Fatalf("unexpected console output %q", out)
	}
	if !strings.Contains(out, "    - k: v") {
		t.Fatalf("expected indented field, got %q", out)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer logger.Close()

	logger.Info("message with caller")

	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestCriticalLevelHidesErrors(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "CRITICAL", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer logger.Close()

	logger.Error("ordinary error")
	if buf.Len() != 0 {
		t.Fatalf("expected error to be filtered at critical level, got %q", buf.String())
	}
	logger.Log(context.Background(), logging.LevelCritical, "fatal condition")
	if !strings.Contains(buf.String(), "CRITICAL") {
		t.Fatalf("expected critical record, got %q", buf.String())
	}
}

func TestComponentAndFileRenderInHeader(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer logger.Close()

	ctx := logging.WithFile(logging.WithRunID(context.Background(), "run-1"), "[20240101] Episode One.txt")
	log := logging.WithContext(ctx, logging.NewComponentLogger(logger.Logger, "merge"))
	log.Info("section appended")

	out := buf.String()
	if !strings.Contains(out, "[merge] [20240101] Episode One.txt – section appended") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "run_id: run-1") {
		t.Fatalf("expected run id field, got %q", out)
	}
}

func TestFileOutputIsJSON(t *testing.T) {
	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "podscribe.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &console, FilePath: logPath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("log file line is not JSON: %v (%q)", err, data)
	}
	if record["msg"] != "json message" || record["k"] != "v" || record["level"] != "info" {
		t.Fatalf("unexpected record: %v", record)
	}
	if console.Len() == 0 {
		t.Fatal("expected console output alongside file output")
	}
}

func TestNewFromConfigOverrideWins(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Logging.Level = "info"
	cfg.Logging.File = true

	logger, err := logging.NewFromConfig(&cfg, "debug")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	defer logger.Close()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected --log-level override to enable debug")
	}
	entries, err := os.ReadDir(cfg.LogDir())
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file in %s, got %v (%v)", cfg.LogDir(), entries, err)
	}
}

func TestPruneDailyLogsUsesDateInName(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.Local)
	expired := logging.DailyLogPath(dir, now.AddDate(0, 0, -31))
	recent := logging.DailyLogPath(dir, now.AddDate(0, 0, -30))
	current := logging.DailyLogPath(dir, now)
	foreign := filepath.Join(dir, "notes.log")
	malformed := filepath.Join(dir, "podscribe-old.log")
	for _, p := range []string{expired, recent, current, foreign, malformed} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// File age is irrelevant; only the day in the name counts.
	past := now.AddDate(-1, 0, 0)
	for _, p := range []string{recent, current, foreign, malformed} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	removed := logging.PruneDailyLogs(logging.NewNop(), dir, 30, current, now)

	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(expired); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed, stat err=%v", expired, err)
	}
	for _, p := range []string{recent, current, foreign, malformed} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s kept: %v", p, err)
		}
	}
}

func TestPruneDailyLogsNeverRemovesCurrentFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.Local)
	current := logging.DailyLogPath(dir, now.AddDate(0, 0, -400))
	if err := os.WriteFile(current, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if removed := logging.PruneDailyLogs(logging.NewNop(), dir, 7, current, now); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if removed := logging.PruneDailyLogs(logging.NewNop(), dir, 0, "", now); removed != 0 {
		t.Fatalf("disabled retention removed %d files", removed)
	}
}
