package publish

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dealbrew/dealbrew/app/deal"
)

var testTime = time.Date(2026, time.August, 31, 8, 0, 0, 0, time.UTC)

func TestPageRendersDeals(t *testing.T) {
	page := NewPage("CircuitBreaker", "Links may earn commission.")

	deals := []deal.Deal{
		{
			Headline:     "Sony XM5 Steal",
			Reason:       "Lowest price this year.",
			Category:     deal.CategoryAudio,
			Discount:     "30%",
			ResolvedLink: "https://www.amazon.com/dp/B08N5WRWNW?tag=mytag-20",
			ImageURL:     "https://cdn.example.com/xm5.jpg",
		},
	}

	var buf bytes.Buffer
	if err := page.Run(&buf, deals, testTime); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"CircuitBreaker",
		"Sony XM5 Steal",
		"Lowest price this year.",
		"Audio",
		"30%",
		"https://cdn.example.com/xm5.jpg",
		"August 31, 2026",
		"Links may earn commission.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered page missing %q", want)
		}
	}

	if !strings.Contains(out, "https://www.amazon.com/dp/B08N5WRWNW?tag=mytag-20") {
		t.Error("Rendered page should link to the monetized URL")
	}
}

func TestPageRendersEmptyState(t *testing.T) {
	page := NewPage("CircuitBreaker", "Footer")

	var buf bytes.Buffer
	if err := page.Run(&buf, nil, testTime); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "No deals today") {
		t.Error("Empty run should render the no-deals state")
	}
	if strings.Contains(out, "class=\"card\"") {
		t.Error("Empty run should render no deal cards")
	}
}

func TestPageEscapesContent(t *testing.T) {
	page := NewPage("CircuitBreaker", "Footer")

	deals := []deal.Deal{
		{
			Headline:     `<script>alert("x")</script>`,
			Reason:       "Reason",
			Category:     deal.CategoryDefault,
			ResolvedLink: "https://www.amazon.com/dp/B08N5WRWNW",
		},
	}

	var buf bytes.Buffer
	if err := page.Run(&buf, deals, testTime); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(buf.String(), "<script>alert") {
		t.Error("Headline markup should be escaped")
	}
}
