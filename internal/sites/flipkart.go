package sites

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricepulse/pricepulse/pkg/price"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// flipkartPriceSelectors, in falling reliability order. Flipkart's class
// names are build artifacts and churn often; the schema.org meta tag is the
// last resort and is read from its content attribute rather than text.
var flipkartPriceSelectors = []priceSelector{
	{css: "div._30jeq3._16Jk6d"},
	{css: "div._30jeq3"},
	{css: "div._16Jk6d"},
	{css: "span._2I-_Kd._30jeq3"},
	{css: "div[class*='_30jeq3']"},
	{css: "meta[itemprop='price']", attr: "content"},
}

var flipkartTitleSelectors = []string{
	"span.B_NuCI",
	"h1.yhB1nd",
	".G6XhRU",
	"h1._9E25nV",
	"span._35KyD6",
}

// Flipkart extracts readings from flipkart.com product pages.
type Flipkart struct{}

// NewFlipkart creates the Flipkart extraction strategy.
func NewFlipkart() *Flipkart {
	return &Flipkart{}
}

// Supports matches flipkart.com and its fkrt.it short links, case-insensitive.
func (f *Flipkart) Supports(url string) bool {
	lower := strings.ToLower(url)
	return containsAny(lower, "flipkart.com", "fkrt.it")
}

// SiteName returns the stable site label persisted on tracked products.
func (f *Flipkart) SiteName() string {
	return "Flipkart"
}

// Extract pulls name, price, and availability from a Flipkart product page.
// Flipkart serves a single locale, so currency is fixed to INR.
func (f *Flipkart) Extract(doc *goquery.Document, pageURL string) (*domain.PriceReading, error) {
	raw, ok := probePrice(doc, flipkartPriceSelectors)
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

	return &domain.PriceReading{
		ProductName:  f.extractTitle(doc),
		Price:        p,
		Availability: f.availability(doc),
		Currency:     "INR",
		CapturedAt:   time.Now().UTC(),
	}, nil
}

func (f *Flipkart) extractTitle(doc *goquery.Document) string {
	if title, ok := probeText(doc, flipkartTitleSelectors); ok {
		return title
	}

	// Page titles look like "Product Name: Buy Product ... - Flipkart.com".
	if text := pageTitle(doc); text != "" {
		if i := strings.Index(text, ":"); i > 0 {
			return strings.TrimSpace(text[:i])
		}
		return strings.TrimSpace(strings.ReplaceAll(text, "- Flipkart.com", ""))
	}

	return unknownProduct
}

// availability checks the negative "notify me" signal before the purchase
// controls: Flipkart keeps rendering a primary action button for
// out-of-stock items, so the button's presence alone proves nothing.
func (f *Flipkart) availability(doc *goquery.Document) domain.Availability {
	notify := doc.Find("button._2KpZ6l._2ObVJD").First()
	if notify.Length() > 0 && strings.Contains(strings.ToLower(notify.Text()), "notify") {
		return domain.AvailabilityOutOfStock
	}

	buyNow := doc.Find("button._2KpZ6l._2U9uOA._3v1-ww").Length() > 0
	addToCart := doc.Find("button._2KpZ6l._2U9uOA.ihZ75k._3AWRsL").Length() > 0
	if buyNow || addToCart {
		return domain.AvailabilityInStock
	}
	return domain.AvailabilityUnknown
}
