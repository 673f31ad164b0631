package merge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"podscribe/internal/cleanup"
	"podscribe/internal/episode"
	"podscribe/internal/fileutil"
	"podscribe/internal/logging"
	"podscribe/internal/textutil"
)

// ErrSourceMissing reports that the transcript directory does not exist.
var ErrSourceMissing = errors.New("transcript directory not found")

// Options configures a Merger.
type Options struct {
	Cleaner *cleanup.Cleaner
	// Extension selects transcript files; defaults to ".txt".
	Extension string
	// PrefixLen is the number of title characters dropped after a date tag.
	PrefixLen int
	// LockPath, when set, is flocked for the duration of Run so two merges
	// never interleave appends.
	LockPath string
	Logger   *slog.Logger
}

// Merger appends cleaned transcripts to one markdown document.
type Merger struct {
	cleaner   *cleanup.Cleaner
	extension string
	prefixLen int
	lockPath  string
	logger    *slog.Logger
}

// Summary describes a completed merge run.
type Summary struct {
	Files         int
	HeadsStripped int
	TailsStripped int
	// Fallbacks counts transcripts decoded as Windows-1252.
	Fallbacks int
	// Output is empty when no document was written.
	Output string
}

// New constructs a Merger.
func New(opts Options) *Merger {
	ext := strings.TrimSpace(opts.Extension)
	if ext == "" {
		ext = ".txt"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	cleaner := opts.Cleaner
	if cleaner == nil {
		cleaner = cleanup.New(cleanup.Options{Logger: opts.Logger})
	}
	return &Merger{
		cleaner:   cleaner,
		extension: strings.ToLower(ext),
		prefixLen: opts.PrefixLen,
		lockPath:  opts.LockPath,
		logger:    logging.NewComponentLogger(opts.Logger, "merge"),
	}
}

// Run rebuilds outputPath from the transcripts in sourceDir.
func (m *Merger) Run(ctx context.Context, sourceDir, outputPath string) (Summary, error) {
	var summary Summary

	if m.lockPath != "" {
		lock, err := fileutil.TryLock(m.lockPath)
		if err != nil {
			return summary, fmt.Errorf("another merge is running: %w", err)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logging.WarnWithContext(m.logger, "failed to release merge lock", "lock_release_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "remove the stale lock file if no merge is running"),
				)
			}
		}()
	}

	if err := fileutil.RemoveIfExists(outputPath); err != nil {
		return summary, fmt.Errorf("remove previous output: %w", err)
	}

	files, err := m.listTranscripts(sourceDir)
	if err != nil {
		return summary, err
	}
	m.logger.Info("merging transcripts",
		logging.String("source_dir", sourceDir),
		logging.String("output", outputPath),
		logging.Int("files", len(files)),
	)

	var out *os.File
	defer func() {
		if out != nil {
			_ = out.Close()
		}
	}()

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		section, res, fallback, err := m.render(filepath.Join(sourceDir, name), name)
		if err != nil {
			return summary, err
		}
		if out == nil {
			out, err = os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return summary, fmt.Errorf("open output: %w", err)
			}
			summary.Output = outputPath
		}
		if _, err := out.WriteString(section); err != nil {
			return summary, fmt.Errorf("append %s: %w", name, err)
		}

		summary.Files++
		if res.Head != nil {
			summary.HeadsStripped++
		}
		if res.Tail != nil {
			summary.TailsStripped++
		}
		if fallback {
			summary.Fallbacks++
		}
	}

	if out != nil {
		if err := out.Close(); err != nil {
			out = nil
			return summary, fmt.Errorf("close output: %w", err)
		}
		out = nil
	}

	m.logger.Info("merge complete",
		logging.Int("files", summary.Files),
		logging.Int("heads_stripped", summary.HeadsStripped),
		logging.Int("tails_stripped", summary.TailsStripped),
		logging.String("output", summary.Output),
	)
	return summary, nil
}

func (m *Merger) listTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrSourceMissing)
		}
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != m.extension {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (m *Merger) render(path, name string) (string, cleanup.Result, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", cleanup.Result{}, false, fmt.Errorf("read %s: %w", name, err)
	}
	text, fallback, err := textutil.Decode(data)
	if err != nil {
		return "", cleanup.Result{}, false, fmt.Errorf("decode %s: %w", name, err)
	}
	if fallback {
		logging.WarnWithContext(m.logger, "transcript is not valid UTF-8; decoded as Windows-1252", "decode_fallback",
			logging.String(logging.FieldFile, name),
			logging.String(logging.FieldErrorHint, "re-save the transcript as UTF-8"),
			logging.String(logging.FieldImpact, "accented characters may render differently"),
		)
	}

	res := m.cleaner.Clean(text, name)
	ep := episode.Parse(name, m.prefixLen)
	if ep.Tag != "" && !ep.HasDate {
		logging.WarnWithContext(m.logger, "date tag is not a valid calendar date", "invalid_date_tag",
			logging.String(logging.FieldFile, name),
			logging.String("tag", ep.Tag),
			logging.String(logging.FieldErrorHint, "rename the file with a YYYYMMDD tag"),
			logging.String(logging.FieldImpact, "section written without a publication line"),
		)
	}
	return episode.Section(ep, res.Text), res, fallback, nil
}
