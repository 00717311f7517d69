package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dealbrew/dealbrew/app/deal"
)

// Loader handles loading and validation of the sources configuration
type Loader struct {
	path string
}

// NewLoader creates a new configuration loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and validates the YAML sources file
func (l *Loader) Load() (*Sources, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sources Sources
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&sources)

	if err := l.validate(&sources); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", l.path, err)
	}

	return &sources, nil
}

func (l *Loader) setDefaults(s *Sources) {
	if s.SiteTitle == "" {
		s.SiteTitle = "Daily Deal Drops"
	}
	if s.Footer == "" {
		s.Footer = "Links may earn commission."
	}
}

func (l *Loader) validate(s *Sources) error {
	if len(s.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	for i, src := range s.Sources {
		if src.Name == "" {
			return fmt.Errorf("source at index %d has no name", i)
		}
		if src.URL == "" {
			return fmt.Errorf("source %q has no url", src.Name)
		}
	}

	for category := range s.FallbackImages {
		if !deal.ValidCategory(category) {
			return fmt.Errorf("unknown fallback image category: %s", category)
		}
	}

	return nil
}
