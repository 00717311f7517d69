package publish

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dealbrew/dealbrew/app/deal"
)

func TestNewsletterPostsDraft(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	newsletter := NewNewsletter(server.Client(), server.URL, "secret-token")

	deals := []deal.Deal{
		{
			Headline:     "Sony XM5 Steal",
			Reason:       "Lowest price this year.",
			Category:     deal.CategoryAudio,
			ResolvedLink: "https://www.amazon.com/dp/B08N5WRWNW?tag=mytag-20",
		},
	}

	if err := newsletter.Run(context.Background(), deals, testTime); err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Expected bearer auth header, got '%s'", gotAuth)
	}

	var draft struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal(gotBody, &draft); err != nil {
		t.Fatalf("Draft payload should be JSON: %v", err)
	}
	if !strings.Contains(draft.Subject, "August 31, 2026") {
		t.Errorf("Subject should carry the run date, got '%s'", draft.Subject)
	}
	if !strings.Contains(draft.Body, "Sony XM5 Steal") {
		t.Errorf("Body should contain the headline, got '%s'", draft.Body)
	}
}

func TestNewsletterZeroDeals(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	newsletter := NewNewsletter(server.Client(), server.URL, "")

	if err := newsletter.Run(context.Background(), nil, testTime); err != nil {
		t.Fatal(err)
	}

	var draft struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(gotBody, &draft); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(draft.Body, "No deals today") {
		t.Errorf("Zero-deal draft should still have body text, got '%s'", draft.Body)
	}
}

func TestNewsletterNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	newsletter := NewNewsletter(server.Client(), server.URL, "wrong")

	err := newsletter.Run(context.Background(), nil, testTime)
	if err == nil {
		t.Fatal("Expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("Error should carry the status code, got: %v", err)
	}
}
