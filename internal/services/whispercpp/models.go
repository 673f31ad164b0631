package whispercpp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"podscribe/internal/fileutil"
	"podscribe/internal/logging"
	"podscribe/internal/services"
)

// DefaultModelBaseURL hosts the ggml weights published by the whisper.cpp
// project.
const DefaultModelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// ModelFetcher downloads ggml models that are missing from the models
// directory.
type ModelFetcher struct {
	// BaseURL is joined with "ggml-<model>.bin"; empty uses DefaultModelBaseURL.
	BaseURL string
	// Allowed, when non-empty, restricts which model names may be fetched.
	Allowed []string
	Client  *http.Client
	Logger  *slog.Logger
}

// EnsureModel returns the model path inside dir, downloading the file first
// when it is absent. dir is created on first use. The download lands under a
// temporary name and is renamed into place only when complete.
func (f *ModelFetcher) EnsureModel(ctx context.Context, dir, model string) (string, bool, error) {
	model = strings.TrimSpace(model)
	if model == "" || strings.ContainsAny(model, `/\`) || strings.Contains(model, "..") {
		return "", false, services.Wrap(services.ErrValidation, "whispercpp", "fetch model", fmt.Sprintf("invalid model name %q", model), nil)
	}
	if len(f.Allowed) > 0 && !slices.Contains(f.Allowed, model) {
		return "", false, services.Wrap(services.ErrValidation, "whispercpp", "fetch model",
			fmt.Sprintf("model %q is not a published whisper.cpp model", model), nil)
	}

	path := ModelPath(dir, model)
	present, err := fileutil.Exists(path)
	if err != nil {
		return "", false, fmt.Errorf("check model: %w", err)
	}
	if present {
		return path, false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, services.Wrap(services.ErrConfiguration, "whispercpp", "fetch model", "create models directory", err)
	}

	base := strings.TrimRight(f.BaseURL, "/")
	if base == "" {
		base = DefaultModelBaseURL
	}
	url := base + "/ggml-" + model + ".bin"
	logger := logging.NewComponentLogger(f.Logger, "whispercpp")
	logger.Info("downloading whisper.cpp model",
		logging.String("model", model),
		logging.String("url", url),
		logging.String("dest", path),
	)

	started := time.Now()
	n, err := f.download(ctx, url, path)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, services.Wrap(services.ErrExternalTool, "whispercpp", "fetch model", model, err)
	}
	logger.Info("whisper.cpp model downloaded",
		logging.String("model", model),
		logging.Any("bytes", n),
		logging.Duration("elapsed", time.Since(started).Round(time.Second)),
	)
	return path, true, nil
}

func (f *ModelFetcher) download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return fileutil.WriteReaderAtomic(dest, resp.Body, 0o644)
}
