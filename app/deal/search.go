package deal

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords are noise tokens dropped from search queries. Pure numerals
// are dropped as well.
var stopwords = map[string]bool{
	"sale":   true,
	"deal":   true,
	"deals":  true,
	"off":    true,
	"coupon": true,
	"promo":  true,
	"code":   true,
}

const maxSearchTokens = 5

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// BuildSearchURL constructs a marketplace keyword-search link from a deal
// title: lowercase, fold diacritics, strip punctuation, drop stopwords
// and pure numerals, keep the first five remaining tokens.
func BuildSearchURL(title string) string {
	tokens := SearchTokens(title)
	query := url.QueryEscape(strings.Join(tokens, " "))
	return "https://www.amazon.com/s?k=" + query
}

// SearchTokens returns the query tokens extracted from a title.
func SearchTokens(title string) []string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(title))
	if err != nil {
		folded = strings.ToLower(title)
	}

	var tokens []string
	for _, raw := range strings.Fields(folded) {
		token := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if token == "" || stopwords[token] || isNumeral(token) {
			continue
		}
		tokens = append(tokens, token)
		if len(tokens) == maxSearchTokens {
			break
		}
	}
	return tokens
}

func isNumeral(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
