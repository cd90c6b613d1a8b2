package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pricepulse/pricepulse/internal/metrics"
	"github.com/pricepulse/pricepulse/internal/notify"
	"github.com/pricepulse/pricepulse/internal/scrape"
	"github.com/pricepulse/pricepulse/internal/store"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// Engine orchestrates scrape batches, price history, and alerting.
type Engine struct {
	store       store.Store
	coordinator *scrape.Coordinator
	notifier    notify.Notifier
	log         *slog.Logger

	maxConcurrent int
	batcher       *Batcher
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	c *scrape.Coordinator,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:         s,
		coordinator:   c,
		notifier:      n,
		log:           slog.Default(),
		maxConcurrent: defaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(eng)
	}

	eng.batcher = NewBatcher(c,
		WithMaxConcurrent(eng.maxConcurrent),
		WithBatcherLogger(eng.log),
	)

	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithEngineMaxConcurrent bounds in-flight scrapes per batch.
func WithEngineMaxConcurrent(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrent = n
		}
	}
}

// RunBatch scrapes every active product on the given cadence, records
// the outcomes, and drains pending alerts. Per-item failures are
// tolerated; the batch result reports them without aborting the run.
func (eng *Engine) RunBatch(
	ctx context.Context,
	cadence domain.Cadence,
) (*domain.BatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.BatchDuration.WithLabelValues(string(cadence)).Observe(time.Since(start).Seconds())
	}()

	jobName := jobNameFor(cadence)

	runID, err := eng.store.InsertJobRun(ctx, jobName)
	if err != nil {
		eng.log.Error("recording job run failed", "job", jobName, "error", err)
	}

	result, runErr := eng.runBatch(ctx, cadence)

	if runID != "" {
		status, errText := "success", ""
		if runErr != nil {
			status, errText = "failed", runErr.Error()
		}
		var succeeded int
		if result != nil {
			succeeded = result.Succeeded
		}
		if err := eng.store.CompleteJobRun(ctx, runID, status, errText, succeeded); err != nil {
			eng.log.Error("completing job run failed", "job", jobName, "error", err)
		}
	}

	return result, runErr
}

func (eng *Engine) runBatch(
	ctx context.Context,
	cadence domain.Cadence,
) (*domain.BatchResult, error) {
	products, err := eng.store.ListProductsByCadence(ctx, cadence)
	if err != nil {
		return nil, fmt.Errorf("listing products for cadence %s: %w", cadence, err)
	}

	eng.log.Info("batch starting", "cadence", cadence, "products", len(products))

	items := make([]BatchItem, len(products))
	for i := range products {
		items[i] = BatchItem{ProductID: products[i].ID, URL: products[i].URL}
	}

	result := eng.batcher.Run(ctx, items)

	// Outcomes are index-aligned with items.
	for i := range result.Outcomes {
		outcome := &result.Outcomes[i]

		if !outcome.Success() {
			metrics.BatchItemsTotal.WithLabelValues(string(cadence), "failure").Inc()
			continue
		}
		metrics.BatchItemsTotal.WithLabelValues(string(cadence), "success").Inc()

		if err := eng.recordReading(ctx, &products[i], outcome.Reading); err != nil {
			eng.log.Error("recording reading failed",
				"product_id", products[i].ID,
				"error", err,
			)
		}
	}

	if err := ProcessAlerts(ctx, eng.store, eng.notifier); err != nil {
		eng.log.Error("alert processing failed", "error", err)
	}

	eng.log.Info("batch complete",
		"cadence", cadence,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)

	return result, nil
}

// ScrapeProduct scrapes a single product on demand, records the reading,
// and evaluates alerts for it. Used by the manual scrape endpoint.
func (eng *Engine) ScrapeProduct(
	ctx context.Context,
	productID string,
) (*domain.PriceReading, error) {
	product, err := eng.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("getting product %s: %w", productID, err)
	}

	reading, err := eng.coordinator.ScrapeOne(ctx, product.URL)
	if err != nil {
		return nil, err
	}

	if err := eng.recordReading(ctx, product, reading); err != nil {
		return nil, err
	}

	if err := ProcessAlerts(ctx, eng.store, eng.notifier); err != nil {
		eng.log.Error("alert processing failed", "error", err)
	}

	return reading, nil
}

// recordReading persists one observation: append to price history,
// evaluate alerts against the previous price, then advance the current
// price. The previous price must be captured before the update or the
// crossing-edge check never sees the transition.
func (eng *Engine) recordReading(
	ctx context.Context,
	product *domain.Product,
	reading *domain.PriceReading,
) error {
	prev := product.CurrentPrice

	point := &domain.PricePoint{
		ProductID:    product.ID,
		Price:        reading.Price,
		Availability: reading.Availability,
		Currency:     reading.Currency,
	}
	if err := eng.store.InsertPricePoint(ctx, point); err != nil {
		return fmt.Errorf("inserting price point: %w", err)
	}

	events := EvaluateAlerts(EvaluationInput{
		Product:   product,
		NewPrice:  reading.Price,
		PrevPrice: prev,
	})

	for i := range events {
		alert := &domain.Alert{
			ProductID:     events[i].ProductID,
			Kind:          events[i].Kind,
			TriggerPrice:  events[i].TriggerPrice,
			PreviousPrice: events[i].PreviousPrice,
			PercentChange: events[i].PercentChange,
			Email:         events[i].Email,
		}
		if err := eng.store.CreateAlert(ctx, alert); err != nil {
			eng.log.Error("creating alert failed",
				"product_id", product.ID,
				"kind", events[i].Kind,
				"error", err,
			)
		}
	}

	if err := eng.store.UpdateCurrentPrice(ctx, product.ID, reading.Price); err != nil {
		return fmt.Errorf("updating current price: %w", err)
	}

	return nil
}

func jobNameFor(cadence domain.Cadence) string {
	if cadence == domain.CadenceDaily {
		return "scrape_daily"
	}
	return "scrape_hourly"
}
