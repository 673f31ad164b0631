package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dailyLogPrefix = "podscribe-"
	dailyLogSuffix = ".log"
	dailyLogLayout = "20060102"
)

// DailyLogPath names the log file for day inside dir.
func DailyLogPath(dir string, day time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s%s", dailyLogPrefix, day.Format(dailyLogLayout), dailyLogSuffix))
}

// dailyLogDate parses the day out of a podscribe-YYYYMMDD.log name.
func dailyLogDate(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, dailyLogPrefix) || !strings.HasSuffix(name, dailyLogSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, dailyLogPrefix), dailyLogSuffix)
	day, err := time.ParseInLocation(dailyLogLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// PruneDailyLogs removes podscribe daily logs in dir whose date lies more than
// retentionDays before now. The file named current is never removed, nor is
// anything that does not follow the daily naming scheme. It returns the number
// of files removed; retentionDays <= 0 disables pruning.
func PruneDailyLogs(logger *slog.Logger, dir string, retentionDays int, current string, now time.Time) int {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.Local).AddDate(0, 0, -retentionDays)
	current = filepath.Base(current)

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || name == current {
			continue
		}
		day, ok := dailyLogDate(name)
		if !ok || !day.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on the log directory"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned",
				String("path", path),
				String(FieldEventType, "log_pruned"),
			)
		}
	}
	return removed
}
