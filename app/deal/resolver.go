package deal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// Resolution is the outcome of resolving one feed entry. Link is always
// set; ProductID only when a marketplace id was found. Strategy records
// which matcher produced the result.
type Resolution struct {
	ProductID string
	Link      string
	Strategy  string
}

// asinPatterns is the ordered list of marketplace link patterns. Order is
// significant: specific path patterns run before the domain-wide fallback.
var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})(?:[/?#&"']|$)`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})(?:[/?#&"']|$)`),
	regexp.MustCompile(`(?i:%2Fdp%2F)([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i:%2Fgp%2Fproduct%2F)([A-Z0-9]{10})`),
	regexp.MustCompile(`amazon\.com/[^\s"'<>]*?([A-Z0-9]{10})(?:[/?#&"']|$)`),
}

var imagePattern = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

// defaultShortenerDomains are hosts treated as redirecting shortlinks.
var defaultShortenerDomains = []string{"amzn.to", "a.co", "bit.ly", "tinyurl.com"}

// defaultAggregatorDomains are intermediate deals sites worth scraping
// for an outbound marketplace link.
var defaultAggregatorDomains = []string{"slickdeals.net", "dealnews.com", "9to5toys.com"}

// strategy is one resolution attempt. ok is false when the strategy does
// not apply or failed; the resolver then moves on to the next one.
type strategy struct {
	name string
	fn   func(ctx context.Context, d Deal) (Resolution, bool)
}

// Resolver determines the best outbound marketplace link for a deal by
// evaluating an ordered list of strategies with first-match-wins
// semantics.
type Resolver struct {
	strategies  []strategy
	client      *http.Client
	limiter     *rate.Limiter
	userAgent   string
	shorteners  []string
	aggregators []string
}

// ResolverOptions selects which fallback strategies are active. The
// direct pattern match always runs first.
type ResolverOptions struct {
	FollowShortlinks bool
	ScrapePages      bool
	SearchFallback   bool
	UserAgent        string
	ScrapeDelay      rate.Limit // requests per second against aggregator sites

	// Domain overrides, defaults apply when nil
	ShortenerDomains  []string
	AggregatorDomains []string
}

// NewResolver creates a resolver. The client must follow redirects; its
// timeout bounds every network attempt.
func NewResolver(client *http.Client, opts ResolverOptions) *Resolver {
	r := &Resolver{
		client:      client,
		userAgent:   opts.UserAgent,
		shorteners:  opts.ShortenerDomains,
		aggregators: opts.AggregatorDomains,
	}
	if r.shorteners == nil {
		r.shorteners = defaultShortenerDomains
	}
	if r.aggregators == nil {
		r.aggregators = defaultAggregatorDomains
	}

	if opts.ScrapeDelay <= 0 {
		opts.ScrapeDelay = rate.Limit(0.5)
	}
	r.limiter = rate.NewLimiter(opts.ScrapeDelay, 1)

	r.strategies = append(r.strategies, strategy{"direct", r.matchDirect})
	if opts.FollowShortlinks {
		r.strategies = append(r.strategies, strategy{"shortlink", r.matchShortlink})
	}
	if opts.ScrapePages {
		r.strategies = append(r.strategies, strategy{"scrape", r.matchScrape})
	}
	if opts.SearchFallback {
		r.strategies = append(r.strategies, strategy{"search", r.matchSearch})
	}

	return r
}

// Run resolves a deal to a marketplace link. It never returns an empty
// link: when every strategy fails (or the search fallback is disabled)
// the raw link passes through unchanged.
func (r *Resolver) Run(ctx context.Context, d Deal) Resolution {
	for _, s := range r.strategies {
		if res, ok := s.fn(ctx, d); ok {
			res.Strategy = s.name
			return res
		}
	}
	return Resolution{Link: d.RawLink, Strategy: "passthrough"}
}

// matchDirect scans the raw link and the entry summary for marketplace
// path patterns. First match wins.
func (r *Resolver) matchDirect(_ context.Context, d Deal) (Resolution, bool) {
	for _, text := range []string{d.RawLink, d.Summary} {
		if id, ok := findProductID(text); ok {
			return Resolution{ProductID: id, Link: canonicalLink(id)}, true
		}
	}
	return Resolution{}, false
}

// matchShortlink follows a known shortener via a redirect-following HEAD
// request and reruns the direct match against the final URL.
func (r *Resolver) matchShortlink(ctx context.Context, d Deal) (Resolution, bool) {
	if !hostMatches(d.RawLink, r.shorteners) {
		return Resolution{}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.RawLink, nil)
	if err != nil {
		return Resolution{}, false
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("Shortlink follow failed", "link", d.RawLink, "error", err)
		return Resolution{}, false
	}
	resp.Body.Close()

	final := resp.Request.URL.String()
	if id, ok := findProductID(final); ok {
		return Resolution{ProductID: id, Link: canonicalLink(id)}, true
	}
	return Resolution{}, false
}

// matchScrape fetches an aggregator page and scans every anchor href for
// a marketplace pattern. A politeness delay precedes each request.
func (r *Resolver) matchScrape(ctx context.Context, d Deal) (Resolution, bool) {
	if !hostMatches(d.RawLink, r.aggregators) {
		return Resolution{}, false
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return Resolution{}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.RawLink, nil)
	if err != nil {
		return Resolution{}, false
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("Page scrape failed", "link", d.RawLink, "error", err)
		return Resolution{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Resolution{}, false
	}

	for _, href := range extractHrefs(resp.Body) {
		if id, ok := findProductID(href); ok {
			return Resolution{ProductID: id, Link: canonicalLink(id)}, true
		}
	}
	return Resolution{}, false
}

// matchSearch builds a marketplace keyword-search URL from the entry
// title. This strategy never fails.
func (r *Resolver) matchSearch(_ context.Context, d Deal) (Resolution, bool) {
	return Resolution{Link: BuildSearchURL(d.Title)}, true
}

// findProductID runs the ordered pattern list against text and returns
// the first captured product id.
func findProductID(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, pattern := range asinPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func canonicalLink(productID string) string {
	return fmt.Sprintf("https://www.amazon.com/dp/%s", productID)
}

// ExtractImage returns the first image source found in the entry summary
// markup, or an empty string.
func ExtractImage(summary string) string {
	if m := imagePattern.FindStringSubmatch(summary); m != nil {
		return m[1]
	}
	return ""
}

func hostMatches(rawURL string, domains []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// extractHrefs walks the parsed document and collects every anchor href.
func extractHrefs(body io.Reader) []string {
	doc, err := html.Parse(body)
	if err != nil {
		return nil
	}

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return hrefs
}
