package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"golang.org/x/time/rate"

	"github.com/dealbrew/dealbrew/app/cfg"
	"github.com/dealbrew/dealbrew/app/config"
	"github.com/dealbrew/dealbrew/app/deal"
	"github.com/dealbrew/dealbrew/app/feed"
	"github.com/dealbrew/dealbrew/app/publish"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting deal pipeline", "version", appCfg.Version)

	sources, err := config.NewLoader(appCfg.SourcesFile).Load()
	if err != nil {
		log.Fatal("Failed to load sources: ", err)
	}
	slog.Info("Loaded sources", "count", len(sources.Sources))

	ctx := context.Background()

	fetchClient := &http.Client{Timeout: appCfg.GetFetchTimeout()}
	resolveClient := &http.Client{Timeout: appCfg.GetResolveTimeout()}

	fetcher := feed.NewFetcher(fetchClient, appCfg.UserAgent, appCfg.PerSourceLimit)
	resolver := deal.NewResolver(resolveClient, deal.ResolverOptions{
		FollowShortlinks: !appCfg.DisableShortlink,
		ScrapePages:      !appCfg.DisableScrape,
		SearchFallback:   !appCfg.DisableSearch,
		UserAgent:        appCfg.UserAgent,
		ScrapeDelay:      scrapeLimit(appCfg.GetScrapeDelay()),
	})
	monetizer := deal.NewMonetizer(appCfg.AffiliateTag)
	selector := deal.NewSelector()
	enricher := deal.NewEnricher(newChatModel(ctx, appCfg), deal.EnricherOptions{
		FallbackImages: sources.FallbackImages,
		FetchContext:   appCfg.FetchContext,
		ContextTimeout: appCfg.GetResolveTimeout(),
	})

	// Ingest
	entries := fetcher.Run(ctx, sources.Sources)

	// Resolve and monetize each candidate before selection so the
	// dedupe key can use product ids
	deals := make([]deal.Deal, 0, len(entries))
	for _, entry := range entries {
		d := deal.Deal{
			Title:      entry.Title,
			RawLink:    entry.Link,
			Summary:    entry.Summary,
			SourceName: entry.SourceName,
		}

		res := resolver.Run(ctx, d)
		d.ProductID = res.ProductID
		d.ResolvedLink = monetizer.Run(res.Link)
		d.ImageURL = deal.ExtractImage(d.Summary)

		slog.Debug("Resolved deal", "title", d.Title, "strategy", res.Strategy, "product_id", d.ProductID)
		deals = append(deals, d)
	}

	// Select, then enrich only the survivors to bound generation calls
	selected := selector.Run(deals, appCfg.MaxDeals, sources.ExcludeKeywords)
	for i, d := range selected {
		selected[i] = enricher.Run(ctx, d)
	}

	now := time.Now()

	page := publish.NewPage(sources.SiteTitle, sources.Footer)
	if err := page.WriteFile(appCfg.OutputDir, selected, now); err != nil {
		log.Fatal("Failed to write page: ", err)
	}

	rss := publish.NewFeed(sources.SiteTitle, sources.Footer)
	if err := rss.WriteFile(appCfg.OutputDir, selected, now); err != nil {
		log.Fatal("Failed to write feed: ", err)
	}

	if appCfg.NewsletterURL != "" {
		newsletter := publish.NewNewsletter(fetchClient, appCfg.NewsletterURL, appCfg.NewsletterToken)
		if err := newsletter.Run(ctx, selected, now); err != nil {
			slog.Warn("Newsletter draft failed", "error", err)
		}
	}

	slog.Info("Run complete",
		"entries", len(entries),
		"selected", len(selected),
		"output_dir", appCfg.OutputDir)
}

// newChatModel initializes the text generation client. Without an API
// key the enricher runs in fallback-only mode.
func newChatModel(ctx context.Context, appCfg *cfg.Cfg) deal.ChatModel {
	if appCfg.LLMAPIKey == "" {
		slog.Info("No LLM API key configured, enrichment uses fallback copy")
		return nil
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: appCfg.LLMBaseURL,
		APIKey:  appCfg.LLMAPIKey,
		Model:   appCfg.LLMModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize chat model: ", err)
	}
	return chatModel
}

// scrapeLimit converts the politeness delay into a request rate.
func scrapeLimit(delay time.Duration) rate.Limit {
	if delay <= 0 {
		return rate.Inf
	}
	return rate.Every(delay)
}
