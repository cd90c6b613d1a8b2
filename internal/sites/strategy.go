// Package sites implements per-site extraction strategies and the registry
// that dispatches product URLs to them. Each supported store contributes one
// Strategy; the set is closed at build time and registered explicitly by the
// process entry point.
package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricepulse/pricepulse/pkg/price"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// Strategy extracts a normalized price reading from one store's markup.
//
// Supports must be a cheap, pure string match (no I/O); it runs during
// dispatch before any fetch. Extract receives an already-fetched document
// and either returns a complete reading or a typed *domain.ScrapeError.
type Strategy interface {
	Supports(url string) bool
	SiteName() string
	Extract(doc *goquery.Document, pageURL string) (*domain.PriceReading, error)
}

// priceSelector is one candidate location for the price on a page. An empty
// attr means the element's text is the candidate; otherwise the named
// attribute's value is (e.g. the content attribute of a schema.org meta tag).
type priceSelector struct {
	css  string
	attr string
}

// probePrice walks candidates in order and returns the first positive parsed
// price. Order encodes a reliability ranking and is part of each site's
// contract: most stable markup first, generic fallback last.
func probePrice(doc *goquery.Document, candidates []priceSelector) (string, bool) {
	for _, c := range candidates {
		sel := doc.Find(c.css).First()
		if sel.Length() == 0 {
			continue
		}

		raw := sel.Text()
		if c.attr != "" {
			raw, _ = sel.Attr(c.attr)
		}

		if _, err := price.Parse(raw); err != nil {
			continue
		}
		return raw, true
	}
	return "", false
}

// probeText returns the first non-empty trimmed text among the selectors.
func probeText(doc *goquery.Document, selectors []string) (string, bool) {
	for _, css := range selectors {
		sel := doc.Find(css).First()
		if sel.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text, true
		}
	}
	return "", false
}

// pageTitle returns the trimmed <title> text, or "" if absent.
func pageTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// unknownProduct is the placeholder name when no title can be extracted.
// A missing title is not fatal; a missing price is.
const unknownProduct = "Unknown Product"

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
