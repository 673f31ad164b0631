package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"podscribe/internal/config"
	"podscribe/internal/feed"
	"podscribe/internal/history"
	"podscribe/internal/logging"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var feedFlag string
	var dirFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download new episodes from the podcast feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("feed") {
				cfg.Feed.URL = strings.TrimSpace(feedFlag)
			}
			if cmd.Flags().Changed("dir") {
				if cfg.Paths.AudioDir, err = config.ExpandPath(strings.TrimSpace(dirFlag)); err != nil {
					return fmt.Errorf("resolve --dir: %w", err)
				}
			}
			if cmd.Flags().Changed("limit") {
				if limitFlag < 0 {
					return errors.New("--limit must be >= 0")
				}
				cfg.Feed.Limit = limitFlag
			}
			if cfg.Feed.URL == "" {
				return fmt.Errorf("%w: set feed.url or pass --feed", feed.ErrNoFeedURL)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			runCtx := logging.WithRunID(cmd.Context(), runID)
			logger = logger.With(logging.String(logging.FieldRunID, runID))

			fetcher := feed.New(feed.Options{
				URL:            cfg.Feed.URL,
				AudioDir:       cfg.Paths.AudioDir,
				AudioExtension: cfg.Transcription.AudioExtension,
				Limit:          cfg.Feed.Limit,
				Timeout:        time.Duration(cfg.Feed.TimeoutSeconds) * time.Second,
				UserAgent:      cfg.Feed.UserAgent,
				Logger:         logger,
			})

			store := ctx.openHistory(logger)
			if store != nil {
				defer store.Close()
			}
			started := time.Now()
			summary, err := fetcher.Run(runCtx)
			recordPipelineRun(runCtx, store, logger, history.KindFetch, runID, started, cfg.Feed.URL, err)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d, skipped %d, failed %d of %d episodes (%d bytes)\n",
				summary.Downloaded, summary.Skipped, summary.Failed, summary.Items, summary.Bytes)
			if summary.Failed > 0 {
				return fmt.Errorf("%d episode(s) failed to download; rerun to retry", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&feedFlag, "feed", "", "Feed URL (overrides feed.url)")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "Audio directory (overrides paths.audio_dir)")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Keep only the newest N episodes (0 means all)")
	return cmd
}
