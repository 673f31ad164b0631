package transcription

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
	"sync"
	"time"

	"github.com/google/uuid"

	"podscribe/internal/fileutil"
	"podscribe/internal/history"
	"podscribe/internal/logging"
	"podscribe/internal/media/ffprobe"
	"podscribe/internal/services"
)

// ErrAudioDirMissing reports that the audio directory does not exist.
var ErrAudioDirMissing = errors.New("audio directory not found")

// WAVSuffix names the normalized mono 16 kHz intermediate written beside
// each source. It never collides with a source file, even when the sources
// are themselves WAV files.
const WAVSuffix = ".16k.wav"

// Converter prepares the engine input.
type Converter interface {
	ToWAV(ctx context.Context, src, dest string) error
}

// Prober reads media metadata. Failures are only logged.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Recorder persists run history.
type Recorder interface {
	BeginRun(ctx context.Context, run history.Run) error
	RecordOutcome(ctx context.Context, outcome history.Outcome) error
	FinishRun(ctx context.Context, id string, finished time.Time) error
}

// Options configures a Batch.
type Options struct {
	Engine    Engine
	Converter Converter
	Prober    Prober
	Recorder  Recorder

	// AudioExtension selects input files; defaults to ".mp3".
	AudioExtension string
	// TranscriptExtension names outputs; defaults to ".txt".
	TranscriptExtension string
	// TranscriptDir receives transcripts; empty writes them beside the audio.
	TranscriptDir string
	Workers       int
	KeepWAV       bool
	// LockPath, when set, is flocked for the duration of Run.
	LockPath string
	// Device is the probed compute target, reported in the summary.
	Device string
	RunID  string
	Logger *slog.Logger
}

// Summary describes a completed transcription run.
type Summary struct {
	Found       int
	Skipped     int
	Transcribed int
	Failed      int
	Device      string
	Engine      string
	RunID       string
}

// Batch transcribes every pending audio file in a directory.
type Batch struct {
	opts     Options
	logger   *slog.Logger
	recorder Recorder
}

// New validates opts and constructs a Batch.
func New(opts Options) (*Batch, error) {
	if opts.Engine == nil {
		return nil, errors.New("transcription requires an engine")
	}
	if opts.Converter == nil {
		return nil, errors.New("transcription requires an audio converter")
	}
	opts.AudioExtension = normalizeExt(opts.AudioExtension, ".mp3")
	opts.TranscriptExtension = normalizeExt(opts.TranscriptExtension, ".txt")
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	logger := logging.NewComponentLogger(opts.Logger, "transcription").
		With(logging.String(logging.FieldRunID, opts.RunID))
	return &Batch{opts: opts, logger: logger}, nil
}

// RunID returns the identifier attached to logs and history rows.
func (b *Batch) RunID() string {
	return b.opts.RunID
}

type result struct {
	name string
	err  error
}

// Run transcribes the pending files in audioDir. Per-file failures are
// reported through the summary; the returned error covers setup problems and
// cancellation only.
func (b *Batch) Run(ctx context.Context, audioDir string) (Summary, error) {
	summary := Summary{Device: b.opts.Device, Engine: b.opts.Engine.Name(), RunID: b.opts.RunID}
	ctx = logging.WithRunID(ctx, b.opts.RunID)
	b.recorder = b.opts.Recorder

	if b.opts.LockPath != "" {
		lock, err := fileutil.TryLock(b.opts.LockPath)
		if err != nil {
			return summary, fmt.Errorf("another transcription is running: %w", err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	names, err := b.listAudio(audioDir)
	if err != nil {
		return summary, err
	}
	summary.Found = len(names)
	if len(names) == 0 {
		logging.WarnWithContext(b.logger, "no audio files found", "no_audio_files",
			logging.String("audio_dir", audioDir),
			logging.String("extension", b.opts.AudioExtension),
			logging.String(logging.FieldErrorHint, "check paths.audio_dir and transcription.audio_extension"),
			logging.String(logging.FieldImpact, "nothing to transcribe"),
		)
		return summary, nil
	}

	transcriptDir := b.opts.TranscriptDir
	if transcriptDir == "" {
		transcriptDir = audioDir
	}
	if err := os.MkdirAll(transcriptDir, 0o755); err != nil {
		return summary, fmt.Errorf("create transcript directory: %w", err)
	}

	b.beginRun(ctx, summary)
	defer b.finishRun(ctx)

	var pending []string
	for _, name := range names {
		exists, err := fileutil.Exists(b.transcriptPath(transcriptDir, name))
		if err != nil {
			return summary, fmt.Errorf("check transcript for %s: %w", name, err)
		}
		if exists {
			summary.Skipped++
			b.logger.Debug("transcript exists; skipping", logging.String(logging.FieldFile, name))
			b.record(ctx, name, history.StatusSkipped, 0, nil)
			continue
		}
		pending = append(pending, name)
	}

	b.logger.Info("transcription started",
		logging.String("audio_dir", audioDir),
		logging.Int("found", summary.Found),
		logging.Int("skipped", summary.Skipped),
		logging.Int("pending", len(pending)),
		logging.Int("workers", b.opts.Workers),
		logging.String("engine", summary.Engine),
		logging.String("device", summary.Device),
	)

	for res := range b.dispatch(ctx, audioDir, transcriptDir, pending) {
		if res.err != nil {
			summary.Failed++
			continue
		}
		summary.Transcribed++
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	b.logger.Info("transcription complete",
		logging.Int("transcribed", summary.Transcribed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (b *Batch) dispatch(ctx context.Context, audioDir, transcriptDir string, pending []string) <-chan result {
	jobs := make(chan string)
	results := make(chan result)

	workers := min(b.opts.Workers, max(len(pending), 1))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				if ctx.Err() != nil {
					continue
				}
				err := b.process(ctx, audioDir, transcriptDir, name)
				results <- result{name: name, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, name := range pending {
			select {
			case <-ctx.Done():
				return
			case jobs <- name:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

func (b *Batch) process(ctx context.Context, audioDir, transcriptDir, name string) error {
	started := time.Now()
	fileLogger := b.logger.With(logging.String(logging.FieldFile, name))
	err := b.transcribe(logging.WithFile(ctx, name), fileLogger, audioDir, transcriptDir, name)
	elapsed := time.Since(started)
	if err != nil {
		logging.ErrorWithContext(fileLogger, "transcription failed", "transcription_failed",
			logging.Error(err),
			logging.String("error_kind", services.Kind(err)),
			logging.Duration("elapsed", elapsed),
			logging.String(logging.FieldErrorHint, "the file will be retried on the next run"),
		)
		b.record(ctx, name, history.StatusFailed, elapsed, err)
		return err
	}
	fileLogger.Info("transcript written", logging.Duration("elapsed", elapsed.Round(time.Millisecond)))
	b.record(ctx, name, history.StatusTranscribed, elapsed, nil)
	return nil
}

func (b *Batch) transcribe(ctx context.Context, logger *slog.Logger, audioDir, transcriptDir, name string) error {
	src := filepath.Join(audioDir, name)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	wav := filepath.Join(audioDir, stem+WAVSuffix)

	if b.opts.Prober != nil {
		if info, err := b.opts.Prober.Inspect(ctx, src); err != nil {
			logger.Debug("ffprobe failed", logging.Error(err))
		} else {
			logger.Debug("audio inspected",
				logging.Duration("duration", info.Duration()),
				logging.Any("bit_rate", info.BitRate()),
			)
		}
	}

	exists, err := fileutil.Exists(wav)
	if err != nil {
		return fmt.Errorf("check wav: %w", err)
	}
	if exists {
		logger.Info("reusing existing wav", logging.String("wav", wav))
	} else {
		logger.Debug("converting to wav", logging.String("wav", wav))
		if err := b.opts.Converter.ToWAV(ctx, src, wav); err != nil {
			return services.Wrap(services.ErrExternalTool, "ffmpeg", "convert", name, err)
		}
	}

	segments, err := b.opts.Engine.Transcribe(ctx, wav)
	if err != nil {
		return err
	}
	text := Render(stem, segments)
	if err := fileutil.WriteFileAtomic(b.transcriptPath(transcriptDir, name), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if !b.opts.KeepWAV && wav != src {
		if err := fileutil.RemoveIfExists(wav); err != nil {
			logging.WarnWithContext(logger, "failed to remove wav", "wav_cleanup_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "disk space is not reclaimed"),
			)
		}
	}
	return nil
}

func (b *Batch) listAudio(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrAudioDirMissing)
		}
		return nil, fmt.Errorf("list audio: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isIntermediate(entry.Name()) {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), b.opts.AudioExtension) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func isIntermediate(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), WAVSuffix)
}

func (b *Batch) transcriptPath(dir, audioName string) string {
	stem := strings.TrimSuffix(audioName, filepath.Ext(audioName))
	return filepath.Join(dir, stem+b.opts.TranscriptExtension)
}

func (b *Batch) beginRun(ctx context.Context, summary Summary) {
	if b.recorder == nil {
		return
	}
	err := b.recorder.BeginRun(ctx, history.Run{
		ID:     b.opts.RunID,
		Kind:   history.KindTranscribe,
		Device: summary.Device,
		Engine: summary.Engine,
	})
	if err != nil {
		b.historyWarning(err)
		b.recorder = nil
	}
}

func (b *Batch) finishRun(ctx context.Context) {
	if b.recorder == nil {
		return
	}
	if err := b.recorder.FinishRun(context.WithoutCancel(ctx), b.opts.RunID, time.Now()); err != nil {
		b.historyWarning(err)
	}
}

func (b *Batch) record(ctx context.Context, name, status string, elapsed time.Duration, cause error) {
	if b.recorder == nil {
		return
	}
	outcome := history.Outcome{RunID: b.opts.RunID, File: name, Status: status, Duration: elapsed}
	if cause != nil {
		outcome.Error = cause.Error()
	}
	if err := b.recorder.RecordOutcome(context.WithoutCancel(ctx), outcome); err != nil {
		b.historyWarning(err)
	}
}

func (b *Batch) historyWarning(err error) {
	logging.WarnWithContext(b.logger, "history update failed", "history_write_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "delete the history database if it is corrupt"),
		logging.String(logging.FieldImpact, "status output may be incomplete"),
	)
}

func normalizeExt(ext, fallback string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return fallback
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
