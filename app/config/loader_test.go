package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sources.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidSources(t *testing.T) {
	path := writeSourcesFile(t, `
site_title: "CircuitBreaker"
footer: "Links may earn commission."

sources:
  - name: "Slickdeals"
    url: "https://slickdeals.net/newsearch.php?rss=1"
  - name: "9to5Toys"
    url: "https://9to5toys.com/feed/"

exclude_keywords:
  - "refurbished"
  - "open box"

fallback_images:
  Tech: "https://cdn.example.com/tech.jpg"
  Default: "https://cdn.example.com/default.jpg"
`)

	sources, err := NewLoader(path).Load()
	if err != nil {
		t.Fatal(err)
	}

	if len(sources.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(sources.Sources))
	}
	if sources.Sources[0].Name != "Slickdeals" {
		t.Errorf("Expected first source 'Slickdeals', got '%s'", sources.Sources[0].Name)
	}
	if sources.SiteTitle != "CircuitBreaker" {
		t.Errorf("Expected site title 'CircuitBreaker', got '%s'", sources.SiteTitle)
	}
	if len(sources.ExcludeKeywords) != 2 {
		t.Errorf("Expected 2 exclude keywords, got %d", len(sources.ExcludeKeywords))
	}
	if sources.FallbackImages["Tech"] != "https://cdn.example.com/tech.jpg" {
		t.Errorf("Unexpected Tech fallback image: %s", sources.FallbackImages["Tech"])
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: "Feed"
    url: "https://example.com/feed.xml"
`)

	sources, err := NewLoader(path).Load()
	if err != nil {
		t.Fatal(err)
	}

	if sources.SiteTitle == "" {
		t.Error("Expected default site title")
	}
	if sources.Footer == "" {
		t.Error("Expected default footer")
	}
}

func TestLoadRequiresSources(t *testing.T) {
	path := writeSourcesFile(t, `
exclude_keywords:
  - "spam"
`)

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for empty source list")
	}
}

func TestLoadRejectsSourceWithoutURL(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: "No URL"
`)

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for source without url")
	}
}

func TestLoadRejectsUnknownFallbackCategory(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: "Feed"
    url: "https://example.com/feed.xml"

fallback_images:
  Gadgets: "https://cdn.example.com/gadget.jpg"
`)

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for unknown fallback image category")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewLoader("/nonexistent/sources.yml").Load(); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeSourcesFile(t, "sources: [unclosed")

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
