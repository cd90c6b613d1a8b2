// Package scrape retrieves product pages and coordinates per-URL
// extraction: dispatch to a site strategy, fetch, extract.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// Retail sites reject unidentified clients, so requests carry a realistic
// browser signature.
const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultTimeout = 15 * time.Second
)

// Fetcher retrieves a product page and returns it parsed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// HTTPFetcher fetches pages over HTTP with browser-identifying headers and
// a token-bucket limit on outbound request rate. The limit is shared by
// every caller of this fetcher, so the bound holds no matter how many
// batches run concurrently.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client.Timeout = d
	}
}

// WithRateLimit bounds outbound requests to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) FetcherOption {
	return func(f *HTTPFetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithUserAgent overrides the request user agent.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// NewHTTPFetcher creates a fetcher with a 15 second timeout and a default
// outbound limit of 2 requests per second.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		limiter:   rate.NewLimiter(rate.Limit(2), 4),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves url and parses the body. Transport and status failures
// come back as fetch errors, a body that cannot be parsed as HTML as a
// parse error; both carry the URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, domain.NewScrapeError(domain.ErrKindFetchFailed, url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewScrapeError(domain.ErrKindFetchFailed, url, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domain.NewScrapeError(domain.ErrKindFetchFailed, url, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewScrapeError(
			domain.ErrKindFetchFailed, url,
			fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.NewScrapeError(domain.ErrKindParse, url, err)
	}

	return doc, nil
}
