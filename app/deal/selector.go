package deal

import (
	"strings"
)

// Selector drops excluded titles, deduplicates and truncates the deal
// list.
type Selector struct{}

func NewSelector() *Selector {
	return &Selector{}
}

// Run filters deals whose title contains an excluded keyword
// (case-insensitive), deduplicates preserving first-seen order, and
// truncates to maxCount. The dedupe key priority is fixed: product id
// when present, else resolved link, else lowercased title. Falling back
// to a weaker key while a stronger one exists would let the same product
// through twice, so the strongest available key always wins.
func (s *Selector) Run(deals []Deal, maxCount int, excludeKeywords []string) []Deal {
	seen := make(map[string]bool)
	selected := make([]Deal, 0, len(deals))

	for _, d := range deals {
		if s.excluded(d.Title, excludeKeywords) {
			continue
		}

		key := dedupeKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true

		selected = append(selected, d)
		if maxCount > 0 && len(selected) == maxCount {
			break
		}
	}

	return selected
}

func (s *Selector) excluded(title string, keywords []string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func dedupeKey(d Deal) string {
	switch {
	case d.ProductID != "":
		return "id:" + d.ProductID
	case d.ResolvedLink != "":
		return "link:" + d.ResolvedLink
	default:
		return "title:" + strings.ToLower(d.Title)
	}
}
