package cfg

type Cfg struct {
	// Content configuration
	SourcesFile string
	OutputDir   string

	// Pipeline limits
	MaxDeals       int
	PerSourceLimit int

	// Monetization
	AffiliateTag string

	// Resolution strategy toggles (direct pattern matching is always active)
	DisableShortlink bool
	DisableScrape    bool
	DisableSearch    bool

	// Timeouts and throttling (seconds)
	FetchTimeout   int
	ResolveTimeout int
	ScrapeDelay    int

	// Text generation
	LLMBaseURL   string
	LLMAPIKey    string
	LLMModel     string
	FetchContext bool

	// Newsletter publishing (optional, empty URL disables)
	NewsletterURL   string
	NewsletterToken string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
