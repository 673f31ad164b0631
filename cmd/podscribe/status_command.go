package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"podscribe/internal/config"
	"podscribe/internal/episode"
	"podscribe/internal/fileutil"
	"podscribe/internal/history"
	"podscribe/internal/logging"
)

const timeLayout = "2006-01-02 15:04"

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show episodes, transcripts and recent pipeline activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var latest map[string]history.Outcome
			var outcomes []history.Outcome
			runs := map[string]history.Run{}
			store := ctx.openHistory(logger)
			if store != nil {
				defer store.Close()
				if latest, err = store.LatestByFile(cmd.Context()); err != nil {
					return err
				}
				if outcomes, err = store.RecentOutcomes(cmd.Context(), recent); err != nil {
					return err
				}
				for _, kind := range []string{history.KindFetch, history.KindTranscribe, history.KindMerge} {
					run, ok, err := store.LastRun(cmd.Context(), kind)
					if err != nil {
						return err
					}
					if ok {
						runs[kind] = run
					}
				}
			}

			rows, err := episodeRows(cfg, latest)
			if err != nil {
				logger.Warn("cannot list audio directory",
					logging.String("dir", cfg.Paths.AudioDir),
					logging.Error(err),
				)
			}
			fmt.Fprintf(out, "Audio directory: %s\n", cfg.Paths.AudioDir)
			if len(rows) == 0 {
				fmt.Fprintln(out, "No episodes found")
			} else {
				fmt.Fprintln(out, renderTable(
					[]string{"Date", "Title", "Transcript", "Last outcome"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
			}

			if store == nil {
				fmt.Fprintln(out, "History disabled")
				return nil
			}

			fmt.Fprintln(out)
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
			} else {
				var runRows [][]string
				for _, kind := range []string{history.KindFetch, history.KindTranscribe, history.KindMerge} {
					run, ok := runs[kind]
					if !ok {
						continue
					}
					runRows = append(runRows, []string{kind, run.StartedAt.Local().Format(timeLayout), formatFinished(run), emptyDash(run.Engine), emptyDash(run.Device)})
				}
				fmt.Fprintln(out, renderTable([]string{"Pipeline", "Started", "Finished", "Engine", "Device"}, runRows, nil))
			}

			if len(outcomes) > 0 {
				var outcomeRows [][]string
				for _, o := range outcomes {
					outcomeRows = append(outcomeRows, []string{
						o.RecordedAt.Local().Format(timeLayout),
						filepath.Base(o.File),
						o.Status,
						o.Duration.Round(time.Second).String(),
						truncateText(o.Error, 48),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Recorded", "File", "Status", "Elapsed", "Error"},
					outcomeRows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 10, "Number of recent outcomes to show")
	return cmd
}

func episodeRows(cfg *config.Config, latest map[string]history.Outcome) ([][]string, error) {
	entries, err := os.ReadDir(cfg.Paths.AudioDir)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(cfg.Transcription.AudioExtension)
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.ToLower(filepath.Ext(entry.Name())) == ext {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		ep := episode.Parse(name, cfg.Cleanup.TitlePrefixLen)
		date := "-"
		if ep.HasDate {
			date = ep.Date.Format("2006-01-02")
		}
		transcript := filepath.Join(cfg.Paths.TranscriptDir, ep.Stem+cfg.Cleanup.TranscriptExtension)
		present, err := fileutil.Exists(transcript)
		if err != nil {
			return nil, err
		}
		last := "-"
		if o, ok := latest[name]; ok {
			last = fmt.Sprintf("%s %s", o.Status, o.RecordedAt.Local().Format(timeLayout))
		}
		rows = append(rows, []string{date, truncateText(ep.Title, 60), yesNo(present), last})
	}
	return rows, nil
}

func formatFinished(run history.Run) string {
	if run.FinishedAt.IsZero() {
		return "running"
	}
	return run.FinishedAt.Local().Format(timeLayout)
}

func emptyDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func truncateText(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
