package sites

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricepulse/pricepulse/pkg/price"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// amazonPriceSelectors, in falling reliability order. Amazon rotates its
// price markup frequently; the generic .a-offscreen fallback sits last
// because it also matches struck-through list prices.
var amazonPriceSelectors = []priceSelector{
	{css: ".a-price-whole"},
	{css: "#priceblock_ourprice"},
	{css: "#priceblock_dealprice"},
	{css: ".a-offscreen"},
	{css: "span[data-a-color='price'] .a-offscreen"},
	{css: "#corePrice_feature_div .a-offscreen"},
	{css: ".priceToPay .a-offscreen"},
	{css: "#apex_offerDisplay_desktop .a-offscreen"},
}

var amazonTitleSelectors = []string{"#productTitle"}

// Amazon extracts readings from amazon.com and amazon.in product pages.
type Amazon struct{}

// NewAmazon creates the Amazon extraction strategy.
func NewAmazon() *Amazon {
	return &Amazon{}
}

// Supports matches Amazon retail and short-link domains, case-insensitive.
func (a *Amazon) Supports(url string) bool {
	lower := strings.ToLower(url)
	return containsAny(lower, "amazon.in", "amazon.com", "amzn.in", "amzn.com")
}

// SiteName returns the stable site label persisted on tracked products.
func (a *Amazon) SiteName() string {
	return "Amazon"
}

// Extract pulls name, price, and availability from an Amazon product page.
func (a *Amazon) Extract(doc *goquery.Document, pageURL string) (*domain.PriceReading, error) {
	raw, ok := probePrice(doc, amazonPriceSelectors)
	if !ok {
		return nil, domain.NewScrapeError(
			domain.ErrKindPriceNotFound, pageURL,
			fmt.Errorf("no price selector matched"),
		)
	}

	p, err := price.Parse(raw)
	if err != nil {
		return nil, domain.NewScrapeError(domain.ErrKindPriceNotFound, pageURL, err)
	}

	currency := "USD"
	if strings.Contains(strings.ToLower(pageURL), "amazon.in") {
		currency = "INR"
	}

	return &domain.PriceReading{
		ProductName:  a.extractTitle(doc),
		Price:        p,
		Availability: a.availability(doc),
		Currency:     currency,
		CapturedAt:   time.Now().UTC(),
	}, nil
}

func (a *Amazon) extractTitle(doc *goquery.Document) string {
	if title, ok := probeText(doc, amazonTitleSelectors); ok {
		return title
	}

	// Fall back to the page title, stripping the trailing " - Amazon.in"
	// style suffix after the last dash.
	if text := pageTitle(doc); text != "" {
		if i := strings.LastIndex(text, "-"); i > 0 {
			return strings.TrimSpace(text[:i])
		}
		return text
	}

	return unknownProduct
}

// availability reads the #availability block when present. With no explicit
// signal, the presence of the add-to-cart control alone promotes only to
// in-stock; a page with neither signal stays unknown rather than guessing,
// since Amazon renders a cart control for backorder states too.
func (a *Amazon) availability(doc *goquery.Document) domain.Availability {
	block := doc.Find("#availability").First()
	if block.Length() > 0 {
		text := strings.ToLower(block.Text())
		if strings.Contains(text, "in stock") {
			return domain.AvailabilityInStock
		}
		if containsAny(text, "out of stock", "unavailable") {
			return domain.AvailabilityOutOfStock
		}
	}

	if doc.Find("#add-to-cart-button").Length() > 0 {
		return domain.AvailabilityInStock
	}
	return domain.AvailabilityUnknown
}
