package deal

// Deal is the single record flowing through the pipeline. It is created
// per feed entry at ingest and mutated in place through resolution,
// monetization and enrichment; nothing survives past the render step.
type Deal struct {
	Title      string
	RawLink    string
	Summary    string
	SourceName string

	// Set by resolution
	ProductID    string
	ResolvedLink string
	ImageURL     string

	// Set by enrichment (always populated, via fallback if need be)
	Headline string
	Reason   string
	Category string
	Discount string
}

// Category enumeration. Model output outside this set maps to CategoryDefault.
const (
	CategoryTech    = "Tech"
	CategoryHome    = "Home"
	CategoryAudio   = "Audio"
	CategoryDefault = "Default"
)

var categories = []string{CategoryTech, CategoryHome, CategoryAudio, CategoryDefault}

// ValidCategory reports whether s is one of the known categories.
func ValidCategory(s string) bool {
	for _, c := range categories {
		if c == s {
			return true
		}
	}
	return false
}
