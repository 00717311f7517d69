package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Content configuration
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"Path to the YAML file describing deal sources"`
	OutputDir   string `long:"output-dir" env:"OUTPUT_DIR" default:"." description:"Directory where index.html and deals.xml are written"`

	// Pipeline limits
	MaxDeals       int `long:"max-deals" env:"MAX_DEALS" default:"9" description:"Maximum number of deals in the rendered output"`
	PerSourceLimit int `long:"per-source-limit" env:"PER_SOURCE_LIMIT" default:"3" description:"Maximum number of entries taken from each feed"`

	// Monetization
	AffiliateTag string `long:"affiliate-tag" env:"AFFILIATE_TAG" description:"Amazon Associates tag stamped on resolved links (required)" required:"true"`

	// Resolution strategy toggles
	DisableShortlink bool `long:"disable-shortlink" env:"DISABLE_SHORTLINK" description:"Disable shortlink redirect following"`
	DisableScrape    bool `long:"disable-scrape" env:"DISABLE_SCRAPE" description:"Disable deal-page scraping"`
	DisableSearch    bool `long:"disable-search" env:"DISABLE_SEARCH" description:"Disable the search-link fallback"`

	// Timeouts and throttling
	FetchTimeout   int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Feed fetch timeout in seconds"`
	ResolveTimeout int `long:"resolve-timeout" env:"RESOLVE_TIMEOUT" default:"8" description:"Shortlink/scrape request timeout in seconds"`
	ScrapeDelay    int `long:"scrape-delay" env:"SCRAPE_DELAY" default:"2" description:"Politeness delay in seconds before each page scrape"`

	// Text generation
	LLMBaseURL   string `long:"llm-base-url" env:"LLM_BASE_URL" default:"https://api.openai.com/v1" description:"Base URL of the OpenAI-compatible API"`
	LLMAPIKey    string `long:"llm-api-key" env:"LLM_API_KEY" description:"API key for the text generation service (empty disables enrichment)"`
	LLMModel     string `long:"llm-model" env:"LLM_MODEL" default:"gpt-4o-mini" description:"Model name used for deal enrichment"`
	FetchContext bool   `long:"fetch-context" env:"FETCH_CONTEXT" description:"Fetch readable text of the resolved page as prompt context"`

	// Newsletter publishing
	NewsletterURL   string `long:"newsletter-url" env:"NEWSLETTER_URL" description:"Newsletter draft endpoint (empty disables the newsletter step)"`
	NewsletterToken string `long:"newsletter-token" env:"NEWSLETTER_TOKEN" description:"Bearer token for the newsletter endpoint"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses configuration from command-line flags and environment
// variables. The returned Cfg is passed explicitly into each pipeline
// stage; there is no package-global accessor.
func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourcesFile:      raw.SourcesFile,
		OutputDir:        raw.OutputDir,
		MaxDeals:         raw.MaxDeals,
		PerSourceLimit:   raw.PerSourceLimit,
		AffiliateTag:     raw.AffiliateTag,
		DisableShortlink: raw.DisableShortlink,
		DisableScrape:    raw.DisableScrape,
		DisableSearch:    raw.DisableSearch,
		FetchTimeout:     raw.FetchTimeout,
		ResolveTimeout:   raw.ResolveTimeout,
		ScrapeDelay:      raw.ScrapeDelay,
		LLMBaseURL:       raw.LLMBaseURL,
		LLMAPIKey:        raw.LLMAPIKey,
		LLMModel:         raw.LLMModel,
		FetchContext:     raw.FetchContext,
		NewsletterURL:    raw.NewsletterURL,
		NewsletterToken:  raw.NewsletterToken,
		UserAgent:        raw.UserAgent,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	return cfg, nil
}

func (c *Cfg) GetFetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *Cfg) GetResolveTimeout() time.Duration {
	if c.ResolveTimeout <= 0 {
		return 8 * time.Second
	}
	return time.Duration(c.ResolveTimeout) * time.Second
}

func (c *Cfg) GetScrapeDelay() time.Duration {
	if c.ScrapeDelay < 0 {
		return 0
	}
	return time.Duration(c.ScrapeDelay) * time.Second
}
