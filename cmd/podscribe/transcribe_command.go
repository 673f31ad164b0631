package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podscribe/internal/config"
	"podscribe/internal/deps"
	"podscribe/internal/device"
	"podscribe/internal/logging"
	"podscribe/internal/media/ffmpeg"
	"podscribe/internal/media/ffprobe"
	"podscribe/internal/preflight"
	"podscribe/internal/services/whispercpp"
	"podscribe/internal/services/whisperx"
	"podscribe/internal/transcription"
)

type transcribeFlags struct {
	dir     string
	model   string
	engine  string
	workers int
	device  string
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var flags transcribeFlags

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe every audio file that has no transcript yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyTranscribeFlags(cmd, cfg, flags); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if cfg.Transcription.Engine == config.EngineWhisperCpp && cfg.Transcription.AutoDownloadModel {
				if _, _, err := fetchWhisperModel(cmd.Context(), cfg, cfg.Transcription.Model, logger); err != nil {
					return err
				}
			}

			if failed := transcribePreflight(cfg); len(failed) > 0 {
				for _, r := range failed {
					logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
						logging.String("check", r.Name),
						logging.String("detail", r.Detail),
						logging.String(logging.FieldErrorHint, "run podscribe doctor for details"),
					)
				}
				return fmt.Errorf("preflight: %d check(s) failed", len(failed))
			}

			target, err := device.Probe(cmd.Context(), cfg.Transcription.Device)
			if err != nil {
				return fmt.Errorf("probe device: %w", err)
			}
			logger.Info("compute device selected",
				logging.String("preference", cfg.Transcription.Device),
				logging.String("device", string(target)),
			)

			engine := buildEngine(cfg, target)
			opts := transcription.Options{
				Engine:              engine,
				Converter:           ffmpeg.New(cfg.Transcription.FFmpegBinary),
				Prober:              ffprobe.New(cfg.Transcription.FFprobeBinary),
				AudioExtension:      cfg.Transcription.AudioExtension,
				TranscriptExtension: cfg.Cleanup.TranscriptExtension,
				TranscriptDir:       cfg.Paths.TranscriptDir,
				Workers:             cfg.Transcription.Workers,
				KeepWAV:             cfg.Transcription.KeepWAV,
				LockPath:            cfg.TranscribeLockPath(),
				Device:              string(target),
				Logger:              logger,
			}
			if store := ctx.openHistory(logger); store != nil {
				defer store.Close()
				opts.Recorder = store
			}

			batch, err := transcription.New(opts)
			if err != nil {
				return err
			}
			summary, err := batch.Run(cmd.Context(), cfg.Paths.AudioDir)
			if err != nil {
				if errors.Is(err, transcription.ErrAudioDirMissing) {
					logging.ErrorWithContext(logger, "audio directory missing", "audio_dir_missing",
						logging.String("dir", cfg.Paths.AudioDir),
						logging.String(logging.FieldErrorHint, "set paths.audio_dir or pass --dir"),
					)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcribed %d, skipped %d, failed %d of %d files (engine %s, device %s)\n",
				summary.Transcribed, summary.Skipped, summary.Failed, summary.Found, summary.Engine, summary.Device)
			if summary.Failed > 0 {
				return fmt.Errorf("%d file(s) failed to transcribe; rerun to retry", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "Audio directory (overrides paths.audio_dir)")
	cmd.Flags().StringVar(&flags.model, "model", "", "Model name (overrides transcription.model)")
	cmd.Flags().StringVar(&flags.engine, "engine", "", "Engine: whispercpp or whisperx")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, fmt.Sprintf("Concurrent transcriptions (1-%d)", config.MaxWorkers))
	cmd.Flags().StringVar(&flags.device, "device", "", "Compute device: auto, cpu, cuda or metal")
	return cmd
}

func applyTranscribeFlags(cmd *cobra.Command, cfg *config.Config, flags transcribeFlags) error {
	t := &cfg.Transcription
	if cmd.Flags().Changed("dir") {
		dir, err := config.ExpandPath(strings.TrimSpace(flags.dir))
		if err != nil {
			return fmt.Errorf("resolve --dir: %w", err)
		}
		if cfg.Paths.TranscriptDir == cfg.Paths.AudioDir {
			cfg.Paths.TranscriptDir = dir
		}
		cfg.Paths.AudioDir = dir
	}
	if cmd.Flags().Changed("engine") {
		t.Engine = strings.ToLower(strings.TrimSpace(flags.engine))
	}
	if cmd.Flags().Changed("model") {
		t.Model = strings.TrimSpace(flags.model)
	}
	if cmd.Flags().Changed("workers") {
		t.Workers = flags.workers
	}
	if cmd.Flags().Changed("device") {
		t.Device = strings.ToLower(strings.TrimSpace(flags.device))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// transcribePreflight checks the binaries and model the run needs. Directory
// problems are left to the batch, which reports them with more context.
func transcribePreflight(cfg *config.Config) []preflight.Result {
	var results []preflight.Result
	for _, status := range preflight.CheckSystemDeps(cfg) {
		if !status.Available && !status.Optional {
			results = append(results, preflight.Result{Name: status.Name, Detail: status.Detail})
		}
	}
	if status, applies := deps.CheckWhisperModel(cfg); applies && !status.Available {
		results = append(results, preflight.Result{Name: status.Name, Detail: status.Detail})
	}
	return results
}

func buildEngine(cfg *config.Config, target device.Target) transcription.Engine {
	t := cfg.Transcription
	switch t.Engine {
	case config.EngineWhisperX:
		return whisperx.NewService(whisperx.Config{
			Model:     t.Model,
			Device:    target,
			Language:  t.Language,
			VADMethod: t.WhisperXVADMethod,
			HFToken:   t.WhisperXHFToken,
		})
	default:
		return whispercpp.NewService(whispercpp.Config{
			Binary:    t.WhisperCppBinary,
			ModelsDir: t.ModelsDir,
			Model:     t.Model,
			Language:  t.Language,
			Threads:   t.Threads,
			Device:    target,
		})
	}
}
