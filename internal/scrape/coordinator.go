package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/pricepulse/pricepulse/internal/metrics"
	"github.com/pricepulse/pricepulse/internal/sites"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// Coordinator runs one scrape end to end: dispatch the URL to a strategy,
// fetch the page, extract the reading. It performs no retries; retry
// policy belongs to the caller.
type Coordinator struct {
	registry *sites.Registry
	fetcher  Fetcher
	log      *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.log = l
	}
}

// NewCoordinator creates a Coordinator over the given registry and fetcher.
func NewCoordinator(reg *sites.Registry, f Fetcher, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		registry: reg,
		fetcher:  f,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry exposes the site registry for introspection queries.
func (c *Coordinator) Registry() *sites.Registry {
	return c.registry
}

// ScrapeOne produces a price reading for url or a typed *domain.ScrapeError.
// An unsupported URL short-circuits before any fetch.
func (c *Coordinator) ScrapeOne(ctx context.Context, url string) (*domain.PriceReading, error) {
	strategy, err := c.registry.Dispatch(url)
	if err != nil {
		return nil, err
	}

	site := strategy.SiteName()
	c.log.Debug("scraping", "site", site, "url", url)

	start := time.Now()
	defer func() {
		metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	}()

	doc, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.ScrapeFailuresTotal.WithLabelValues(site).Inc()
		return nil, err
	}

	reading, err := strategy.Extract(doc, url)
	if err != nil {
		metrics.ScrapeFailuresTotal.WithLabelValues(site).Inc()
		return nil, err
	}

	metrics.ScrapesTotal.WithLabelValues(site).Inc()
	c.log.Info("scraped",
		"site", site,
		"name", reading.ProductName,
		"price", reading.Price.String(),
		"currency", reading.Currency,
	)

	return reading, nil
}
