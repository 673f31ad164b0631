package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"podscribe/internal/episode"
	"podscribe/internal/fileutil"
	"podscribe/internal/logging"
)

// ErrNoFeedURL reports that no feed URL was configured.
var ErrNoFeedURL = errors.New("feed URL is empty")

// Options configures a Fetcher.
type Options struct {
	URL      string
	AudioDir string
	// AudioExtension names every download, whatever the enclosure's
	// container, so the transcriber always picks new episodes up. ffmpeg
	// detects the real format from the content.
	AudioExtension string
	// Limit keeps only the newest Limit episodes; 0 means no limit.
	Limit     int
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
	Logger    *slog.Logger
}

// Episode is one downloadable feed item.
type Episode struct {
	Title     string
	URL       string
	Published time.Time
	FileName  string
}

// Summary describes a completed fetch.
type Summary struct {
	Items      int
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
}

// Fetcher downloads new episodes.
type Fetcher struct {
	opts   Options
	client *http.Client
	parser *gofeed.Parser
	logger *slog.Logger
}

// New constructs a Fetcher.
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	opts.AudioExtension = strings.ToLower(strings.TrimSpace(opts.AudioExtension))
	if opts.AudioExtension == "" {
		opts.AudioExtension = ".mp3"
	}
	if !strings.HasPrefix(opts.AudioExtension, ".") {
		opts.AudioExtension = "." + opts.AudioExtension
	}
	parser := gofeed.NewParser()
	parser.Client = client
	if opts.UserAgent != "" {
		parser.UserAgent = opts.UserAgent
	}
	return &Fetcher{
		opts:   opts,
		client: client,
		parser: parser,
		logger: logging.NewComponentLogger(opts.Logger, "feed"),
	}
}

// Episodes parses the feed and returns its audio episodes, newest first,
// truncated to the configured limit. Items without an audio enclosure or a
// date are left out.
func (f *Fetcher) Episodes(ctx context.Context) ([]Episode, error) {
	if strings.TrimSpace(f.opts.URL) == "" {
		return nil, ErrNoFeedURL
	}
	parsed, err := f.parser.ParseURLWithContext(f.opts.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	episodes := make([]Episode, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		audioURL := audioEnclosure(item)
		if audioURL == "" {
			f.logger.Debug("feed item has no audio enclosure", logging.String("title", item.Title))
			continue
		}
		published := itemDate(item)
		if published.IsZero() {
			logging.WarnWithContext(f.logger, "feed item has no date", "feed_item_undated",
				logging.String("title", item.Title),
				logging.String(logging.FieldImpact, "episode not downloaded"),
				logging.String(logging.FieldErrorHint, "download it manually and name it [YYYYMMDD] Title"),
			)
			continue
		}
		episodes = append(episodes, Episode{
			Title:     strings.TrimSpace(item.Title),
			URL:       audioURL,
			Published: published,
			FileName:  episode.AudioName(published, item.Title, f.opts.AudioExtension),
		})
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].Published.After(episodes[j].Published)
	})
	if f.opts.Limit > 0 && len(episodes) > f.opts.Limit {
		episodes = episodes[:f.opts.Limit]
	}
	return episodes, nil
}

// Run downloads every listed episode that is not already present.
func (f *Fetcher) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	episodes, err := f.Episodes(ctx)
	if err != nil {
		return summary, err
	}
	if err := os.MkdirAll(f.opts.AudioDir, 0o755); err != nil {
		return summary, fmt.Errorf("create audio directory: %w", err)
	}
	summary.Items = len(episodes)

	for _, ep := range episodes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		dest := filepath.Join(f.opts.AudioDir, ep.FileName)
		present, err := fileutil.Exists(dest)
		if err != nil {
			return summary, fmt.Errorf("check %s: %w", ep.FileName, err)
		}
		if present {
			summary.Skipped++
			f.logger.Debug("episode already downloaded", logging.String(logging.FieldFile, ep.FileName))
			continue
		}

		started := time.Now()
		n, err := f.download(ctx, ep.URL, dest)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			logging.ErrorWithContext(f.logger, "episode download failed", "download_failed",
				logging.String(logging.FieldFile, ep.FileName),
				logging.String("url", ep.URL),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run fetch again to retry"),
			)
			continue
		}
		summary.Downloaded++
		summary.Bytes += n
		f.logger.Info("episode downloaded",
			logging.String(logging.FieldFile, ep.FileName),
			logging.Any("bytes", n),
			logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
		)
	}

	f.logger.Info("fetch complete",
		logging.Int("items", summary.Items),
		logging.Int("downloaded", summary.Downloaded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	req.Header.Set("Accept", "audio/*, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return fileutil.WriteReaderAtomic(dest, resp.Body, 0o644)
}

func audioEnclosure(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || strings.TrimSpace(enc.URL) == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(enc.Type), "audio/") {
			return strings.TrimSpace(enc.URL)
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasSuffix(strings.ToLower(enc.URL), ".mp3") {
			return strings.TrimSpace(enc.URL)
		}
	}
	return ""
}

func itemDate(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
