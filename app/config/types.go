package config

// Sources is the content configuration: which feeds to read and how the
// rendered output is dressed up.
type Sources struct {
	Sources         []Source          `yaml:"sources"`
	ExcludeKeywords []string          `yaml:"exclude_keywords"`
	FallbackImages  map[string]string `yaml:"fallback_images"`
	Footer          string            `yaml:"footer"`
	SiteTitle       string            `yaml:"site_title"`
}

// Source is a single deal feed.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}
