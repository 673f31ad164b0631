package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"podscribe/internal/config"
	"podscribe/internal/services/whispercpp"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage whisper.cpp model files",
	}
	modelsCmd.AddCommand(newModelsPullCommand(ctx))
	return modelsCmd
}

func newModelsPullCommand(ctx *commandContext) *cobra.Command {
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download the configured whisper.cpp model if it is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			model := cfg.Transcription.Model
			if cmd.Flags().Changed("model") {
				model = strings.TrimSpace(modelFlag)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			path, downloaded, err := fetchWhisperModel(cmd.Context(), cfg, model, logger)
			if err != nil {
				return err
			}
			if downloaded {
				fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s to %s\n", model, path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Model %s already present at %s\n", model, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "Model name (overrides transcription.model)")
	return cmd
}

func fetchWhisperModel(ctx context.Context, cfg *config.Config, model string, logger *slog.Logger) (string, bool, error) {
	fetcher := &whispercpp.ModelFetcher{
		BaseURL: cfg.Transcription.ModelBaseURL,
		Allowed: config.WhisperCppModels(),
		Logger:  logger,
	}
	path, downloaded, err := fetcher.EnsureModel(ctx, cfg.Transcription.ModelsDir, model)
	if err != nil {
		return "", false, fmt.Errorf("fetch model: %w", err)
	}
	return path, downloaded, nil
}
