package engine

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pricepulse/pricepulse/internal/scrape"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

const defaultMaxConcurrent = 5

// BatchItem identifies one product URL submitted to a batch run.
type BatchItem struct {
	ProductID string
	URL       string
}

// Batcher fans a set of scrape items out over a bounded worker pool.
// Failures are isolated per item: one bad URL never aborts the batch,
// and every submitted item ends up with exactly one outcome.
type Batcher struct {
	coordinator   *scrape.Coordinator
	maxConcurrent int
	log           *slog.Logger
}

// NewBatcher creates a Batcher on top of a scrape coordinator.
func NewBatcher(c *scrape.Coordinator, opts ...BatcherOption) *Batcher {
	b := &Batcher{
		coordinator:   c,
		maxConcurrent: defaultMaxConcurrent,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher)

// WithMaxConcurrent bounds the number of in-flight scrapes.
func WithMaxConcurrent(n int) BatcherOption {
	return func(b *Batcher) {
		if n > 0 {
			b.maxConcurrent = n
		}
	}
}

// WithBatcherLogger sets a custom logger.
func WithBatcherLogger(l *slog.Logger) BatcherOption {
	return func(b *Batcher) {
		b.log = l
	}
}

// Run scrapes all items concurrently and returns one outcome per item,
// in input order. Workers never return an error to the group; a scrape
// failure is recorded in the item's outcome slot instead, so the
// remaining items always proceed. Cancellation of ctx is recorded as a
// fetch failure on every item not yet finished.
func (b *Batcher) Run(ctx context.Context, items []BatchItem) *domain.BatchResult {
	outcomes := make([]domain.ScrapeOutcome, len(items))

	var g errgroup.Group
	g.SetLimit(b.maxConcurrent)

	for i, item := range items {
		g.Go(func() error {
			outcomes[i] = b.scrapeItem(ctx, item)
			return nil
		})
	}

	// Workers only return nil; Wait is used purely as a barrier.
	_ = g.Wait()

	result := &domain.BatchResult{Outcomes: outcomes}
	for i := range outcomes {
		if outcomes[i].Success() {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	return result
}

func (b *Batcher) scrapeItem(ctx context.Context, item BatchItem) domain.ScrapeOutcome {
	outcome := domain.ScrapeOutcome{ProductID: item.ProductID, URL: item.URL}

	if err := ctx.Err(); err != nil {
		outcome.Err = domain.NewScrapeError(domain.ErrKindFetchFailed, item.URL, err)
		return outcome
	}

	reading, err := b.coordinator.ScrapeOne(ctx, item.URL)
	if err != nil {
		se, ok := domain.AsScrapeError(err)
		if !ok {
			se = domain.NewScrapeError(domain.ErrKindFetchFailed, item.URL, err)
		}
		b.log.Warn("scrape failed",
			"product_id", item.ProductID,
			"url", item.URL,
			"kind", se.Kind,
			"error", err,
		)
		outcome.Err = se
		return outcome
	}

	outcome.Reading = reading
	return outcome
}
