package main

import (
	"context"
	"log/slog"
	"time"

	"podscribe/internal/history"
	"podscribe/internal/logging"
)

// recordPipelineRun stores a single-outcome run for pipelines that do not
// write per-file history themselves.
func recordPipelineRun(ctx context.Context, store *history.Store, logger *slog.Logger, kind, runID string, started time.Time, target string, runErr error) {
	if store == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	outcome := history.Outcome{
		RunID:    runID,
		File:     target,
		Status:   history.StatusCompleted,
		Duration: time.Since(started),
	}
	if runErr != nil {
		outcome.Status = history.StatusFailed
		outcome.Error = runErr.Error()
	}
	err := store.BeginRun(ctx, history.Run{ID: runID, Kind: kind, StartedAt: started})
	if err == nil {
		err = store.RecordOutcome(ctx, outcome)
	}
	if err == nil {
		err = store.FinishRun(ctx, runID, time.Now())
	}
	if err != nil {
		logging.WarnWithContext(logger, "history update failed", "history_write_failed",
			logging.String("kind", kind),
			logging.Error(err),
			logging.String(logging.FieldImpact, "status output may be incomplete"),
		)
	}
}
