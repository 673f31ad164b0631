package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"podscribe/internal/cleanup"
	"podscribe/internal/config"
	"podscribe/internal/history"
	"podscribe/internal/logging"
	"podscribe/internal/merge"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Strip boilerplate from transcripts and rebuild the merged document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dir") {
				if cfg.Paths.TranscriptDir, err = config.ExpandPath(strings.TrimSpace(dirFlag)); err != nil {
					return fmt.Errorf("resolve --dir: %w", err)
				}
			}
			if cmd.Flags().Changed("output") {
				if cfg.Paths.OutputFile, err = config.ExpandPath(strings.TrimSpace(outputFlag)); err != nil {
					return fmt.Errorf("resolve --output: %w", err)
				}
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			runCtx := logging.WithRunID(cmd.Context(), runID)
			logger = logger.With(logging.String(logging.FieldRunID, runID))

			cleaner := cleanup.New(cleanup.Options{
				Heads:     cfg.Cleanup.Heads,
				Tails:     cfg.Cleanup.Tails,
				HeadSkip:  cfg.Cleanup.HeadSkip,
				HeadLimit: cfg.Cleanup.HeadLimit,
				TailFloor: cfg.Cleanup.TailFloor,
				Logger:    logger,
			})
			merger := merge.New(merge.Options{
				Cleaner:   cleaner,
				Extension: cfg.Cleanup.TranscriptExtension,
				PrefixLen: cfg.Cleanup.TitlePrefixLen,
				LockPath:  cfg.MergeLockPath(),
				Logger:    logger,
			})

			store := ctx.openHistory(logger)
			if store != nil {
				defer store.Close()
			}
			started := time.Now()
			summary, err := merger.Run(runCtx, cfg.Paths.TranscriptDir, cfg.Paths.OutputFile)
			recordPipelineRun(runCtx, store, logger, history.KindMerge, runID, started, cfg.Paths.OutputFile, err)
			if err != nil {
				if errors.Is(err, merge.ErrSourceMissing) {
					logging.ErrorWithContext(logger, "transcript directory missing", "transcript_dir_missing",
						logging.String("dir", cfg.Paths.TranscriptDir),
						logging.String(logging.FieldErrorHint, "run podscribe transcribe first or pass --dir"),
						logging.String(logging.FieldImpact, "no merged document was written"),
					)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if summary.Output == "" {
				fmt.Fprintln(out, "No transcripts found; nothing written")
				return nil
			}
			fmt.Fprintf(out, "Merged %d transcripts into %s (heads stripped %d, tails stripped %d)\n",
				summary.Files, summary.Output, summary.HeadsStripped, summary.TailsStripped)
			return nil
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "", "Transcript directory (overrides paths.transcript_dir)")
	cmd.Flags().StringVar(&outputFlag, "output", "", "Merged document path (overrides paths.output_file)")
	return cmd
}
