package deal

import (
	"net/url"
	"strings"
)

// Monetizer stamps the affiliate tag on marketplace links.
type Monetizer struct {
	tag string
}

func NewMonetizer(tag string) *Monetizer {
	return &Monetizer{tag: tag}
}

// Run returns the link with the affiliate tag parameter set. Re-tagging
// replaces any prior value, so the call is idempotent and the parameter
// appears exactly once. Non-marketplace or unparseable links pass
// through unchanged.
func (m *Monetizer) Run(link string) string {
	if m.tag == "" {
		return link
	}

	u, err := url.Parse(link)
	if err != nil || !isMarketplaceHost(u.Hostname()) {
		return link
	}

	query := u.Query()
	query.Set("tag", m.tag)
	u.RawQuery = query.Encode()

	return u.String()
}

func isMarketplaceHost(host string) bool {
	host = strings.ToLower(host)
	return host == "amazon.com" || strings.HasSuffix(host, ".amazon.com")
}
