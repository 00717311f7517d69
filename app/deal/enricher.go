package deal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-shiori/go-readability"
)

// ChatModel is the slice of the eino chat model interface the enricher
// uses. Satisfied by any eino model implementation; stubbed in tests.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// enrichmentResponse is the structured output requested from the model.
type enrichmentResponse struct {
	Headline string `json:"headline"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
	Discount string `json:"discount"`
}

const maxContextLength = 6000
const fallbackHeadlineLength = 50
const fallbackReason = "Price drop detected."

// Enricher fills a deal's display fields via a single text-generation
// call. Any failure substitutes deterministic fallback values; an
// enriched deal always carries the complete field set.
type Enricher struct {
	chatModel      ChatModel
	fallbackImages map[string]string
	fetchContext   bool
	contextTimeout time.Duration
}

type EnricherOptions struct {
	// FallbackImages maps a category to a thumbnail used when the feed
	// entry carried none.
	FallbackImages map[string]string
	// FetchContext enables fetching readable text of the resolved page
	// as additional prompt context.
	FetchContext   bool
	ContextTimeout time.Duration
}

// NewEnricher creates an enricher. A nil chat model is allowed and puts
// every deal on the fallback path.
func NewEnricher(chatModel ChatModel, opts EnricherOptions) *Enricher {
	if opts.ContextTimeout <= 0 {
		opts.ContextTimeout = 8 * time.Second
	}
	return &Enricher{
		chatModel:      chatModel,
		fallbackImages: opts.FallbackImages,
		fetchContext:   opts.FetchContext,
		contextTimeout: opts.ContextTimeout,
	}
}

// Run enriches a single deal. One generation attempt, no retry; one
// failure is terminal for that deal and falls back immediately.
func (e *Enricher) Run(ctx context.Context, d Deal) Deal {
	enriched, err := e.generate(ctx, d)
	if err != nil {
		slog.Warn("Enrichment failed, using fallback", "title", d.Title, "error", err)
		d = applyFallback(d)
	} else {
		d.Headline = enriched.Headline
		d.Reason = enriched.Reason
		d.Discount = enriched.Discount
		if ValidCategory(enriched.Category) {
			d.Category = enriched.Category
		} else {
			d.Category = CategoryDefault
		}
	}

	if d.ImageURL == "" {
		d.ImageURL = e.fallbackImage(d.Category)
	}

	return d
}

func (e *Enricher) generate(ctx context.Context, d Deal) (*enrichmentResponse, error) {
	if e.chatModel == nil {
		return nil, fmt.Errorf("no chat model configured")
	}

	messages := []*schema.Message{
		{
			Role:    schema.System,
			Content: "You are a JSON generator. Output a single JSON object and nothing else.",
		},
		{
			Role:    schema.User,
			Content: e.buildPrompt(d),
		},
	}

	resp, err := e.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	content := strings.TrimSpace(resp.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var enriched enrichmentResponse
	if err := json.Unmarshal([]byte(content), &enriched); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}

	if enriched.Headline == "" || enriched.Reason == "" {
		return nil, fmt.Errorf("response missing required fields")
	}

	return &enriched, nil
}

func (e *Enricher) buildPrompt(d Deal) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Analyze this deal: '%s'.
Return JSON with:
- "headline": short, punchy title (max 6 words).
- "reason": one sentence on why it's a steal.
- "category": one of Tech, Home, Audio, Default.
- "discount": estimated discount (e.g. "30%%"), or "" if unknown.`, d.Title)

	if d.ResolvedLink != "" {
		fmt.Fprintf(&b, "\nProduct link: %s", d.ResolvedLink)
	}

	if e.fetchContext && d.ResolvedLink != "" {
		if text := e.fetchPageContext(d.ResolvedLink); text != "" {
			fmt.Fprintf(&b, "\nProduct page excerpt:\n%s", text)
		}
	}

	return b.String()
}

// fetchPageContext pulls readable text from the resolved page. Failures
// only shrink the prompt.
func (e *Enricher) fetchPageContext(link string) string {
	article, err := readability.FromURL(link, e.contextTimeout)
	if err != nil {
		slog.Debug("Page context fetch failed", "link", link, "error", err)
		return ""
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > maxContextLength {
		text = text[:maxContextLength]
	}
	return text
}

func (e *Enricher) fallbackImage(category string) string {
	if img, ok := e.fallbackImages[category]; ok {
		return img
	}
	return e.fallbackImages[CategoryDefault]
}

// applyFallback populates the display fields deterministically so the
// deal still reaches the render stage complete.
func applyFallback(d Deal) Deal {
	d.Headline = truncate(d.Title, fallbackHeadlineLength)
	d.Reason = fallbackReason
	d.Category = CategoryDefault
	d.Discount = ""
	return d
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
