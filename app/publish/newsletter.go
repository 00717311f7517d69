package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dealbrew/dealbrew/app/deal"
)

// Newsletter posts a plain-text draft of the day's deals to an
// authenticated newsletter endpoint.
type Newsletter struct {
	client *http.Client
	url    string
	token  string
}

type newsletterDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewNewsletter(client *http.Client, url, token string) *Newsletter {
	return &Newsletter{client: client, url: url, token: token}
}

// Run builds and posts the draft. The caller treats an error as a
// warning; a failed newsletter never fails the run.
func (n *Newsletter) Run(ctx context.Context, deals []deal.Deal, now time.Time) error {
	draft := newsletterDraft{
		Subject: fmt.Sprintf("Deal drops for %s", now.Format("January 2, 2006")),
		Body:    buildBody(deals),
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post draft: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("newsletter endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func buildBody(deals []deal.Deal) string {
	if len(deals) == 0 {
		return "No deals today. Check back tomorrow."
	}

	var b strings.Builder
	for _, d := range deals {
		fmt.Fprintf(&b, "%s [%s]\n%s\n%s\n\n", d.Headline, d.Category, d.Reason, d.ResolvedLink)
	}
	return strings.TrimRight(b.String(), "\n")
}
