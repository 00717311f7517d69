package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/dealbrew/dealbrew/app/config"
)

// Fetcher pulls entries from configured deal feeds. Sources are fetched
// one at a time; a failing source is logged and skipped, never aborting
// the run.
type Fetcher struct {
	client         *http.Client
	parser         *gofeed.Parser
	userAgent      string
	perSourceLimit int
}

// NewFetcher creates a fetcher. The client's timeout bounds each fetch.
func NewFetcher(client *http.Client, userAgent string, perSourceLimit int) *Fetcher {
	if perSourceLimit <= 0 {
		perSourceLimit = 3
	}
	return &Fetcher{
		client:         client,
		parser:         gofeed.NewParser(),
		userAgent:      userAgent,
		perSourceLimit: perSourceLimit,
	}
}

// Run fetches every source in order and returns the collected entries.
func (f *Fetcher) Run(ctx context.Context, sources []config.Source) []Entry {
	var entries []Entry

	for _, source := range sources {
		sourceEntries, err := f.fetchSource(ctx, source)
		if err != nil {
			slog.Warn("Skipping source", "source", source.Name, "error", err)
			continue
		}
		entries = append(entries, sourceEntries...)
	}

	return entries
}

func (f *Fetcher) fetchSource(ctx context.Context, source config.Source) ([]Entry, error) {
	data, err := f.fetch(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	limit := min(f.perSourceLimit, len(parsed.Items))
	entries := make([]Entry, 0, limit)
	for _, item := range parsed.Items[:limit] {
		entries = append(entries, Entry{
			Title:      item.Title,
			Link:       cmp.Or(item.Link, item.GUID),
			Summary:    joinSummary(item),
			SourceName: source.Name,
		})
	}

	slog.Info("Fetched source", "source", source.Name, "total", len(parsed.Items), "taken", len(entries))
	return entries, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// joinSummary concatenates description and content so downstream pattern
// scans see both.
func joinSummary(item *gofeed.Item) string {
	parts := make([]string, 0, 2)
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	if item.Content != "" && item.Content != item.Description {
		parts = append(parts, item.Content)
	}
	return strings.Join(parts, "\n")
}
