package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pricepulse/pricepulse/internal/store"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// BatchRunner defines the interface for triggering a scrape batch.
type BatchRunner interface {
	RunBatch(ctx context.Context, cadence domain.Cadence) (*domain.BatchResult, error)
}

// ProductScraper defines the interface for scraping a single product now.
type ProductScraper interface {
	ScrapeProduct(ctx context.Context, productID string) (*domain.PriceReading, error)
}

// BatchHandler handles manual scrape batch trigger requests.
type BatchHandler struct {
	runner BatchRunner
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(r BatchRunner) *BatchHandler {
	return &BatchHandler{runner: r}
}

// RunBatchInput selects which cadence bucket to scrape.
type RunBatchInput struct {
	Cadence string `path:"cadence" doc:"Cadence bucket to scrape" enum:"hourly,daily"`
}

// RunBatchOutput summarizes a triggered batch run.
type RunBatchOutput struct {
	Body struct {
		Cadence   string `json:"cadence"`
		Total     int    `json:"total"`
		Succeeded int    `json:"succeeded"`
		Failed    int    `json:"failed"`
	}
}

// RunBatch scrapes every active product on the given cadence.
func (h *BatchHandler) RunBatch(
	ctx context.Context,
	input *RunBatchInput,
) (*RunBatchOutput, error) {
	cadence := domain.Cadence(strings.ToUpper(input.Cadence))

	result, err := h.runner.RunBatch(ctx, cadence)
	if err != nil {
		return nil, huma.Error500InternalServerError("scrape batch failed: " + err.Error())
	}

	resp := &RunBatchOutput{}
	resp.Body.Cadence = input.Cadence
	resp.Body.Total = len(result.Outcomes)
	resp.Body.Succeeded = result.Succeeded
	resp.Body.Failed = result.Failed

	return resp, nil
}

// ScrapeNowHandler handles single-product scrape requests.
type ScrapeNowHandler struct {
	scraper ProductScraper
}

// NewScrapeNowHandler creates a new ScrapeNowHandler.
func NewScrapeNowHandler(s ProductScraper) *ScrapeNowHandler {
	return &ScrapeNowHandler{scraper: s}
}

// ScrapeNowInput selects the product to scrape.
type ScrapeNowInput struct {
	ID string `path:"id" doc:"Product UUID"`
}

// ScrapeNowOutput carries the fresh reading for a scraped product.
type ScrapeNowOutput struct {
	Body struct {
		ProductID string               `json:"product_id"`
		Reading   *domain.PriceReading `json:"reading"`
	}
}

// ScrapeNow scrapes one product immediately and records the reading.
func (h *ScrapeNowHandler) ScrapeNow(
	ctx context.Context,
	input *ScrapeNowInput,
) (*ScrapeNowOutput, error) {
	reading, err := h.scraper.ScrapeProduct(ctx, input.ID)
	if err != nil {
		return nil, mapScrapeError(err)
	}

	resp := &ScrapeNowOutput{}
	resp.Body.ProductID = input.ID
	resp.Body.Reading = reading

	return resp, nil
}

// mapScrapeError translates scrape failures into HTTP errors. A fetch
// failure is the upstream site's fault, so it maps to a gateway error
// rather than a client or server one.
func mapScrapeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return huma.Error404NotFound("product not found")
	}

	se, ok := domain.AsScrapeError(err)
	if !ok {
		return huma.Error500InternalServerError("scrape failed: " + err.Error())
	}

	switch se.Kind {
	case domain.ErrKindUnsupportedSite:
		return huma.Error400BadRequest("no scraper supports this site")
	case domain.ErrKindFetchFailed:
		return huma.Error502BadGateway("fetching product page failed: " + se.Error())
	case domain.ErrKindPriceNotFound, domain.ErrKindParse:
		return huma.Error422UnprocessableEntity("extracting price failed: " + se.Error())
	default:
		return huma.Error500InternalServerError("scrape failed: " + se.Error())
	}
}

// RegisterTriggerRoutes registers manual scrape endpoints with the Huma API.
func RegisterTriggerRoutes(api huma.API, batchH *BatchHandler, scrapeH *ScrapeNowHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "run-scrape-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/scrape/{cadence}",
		Summary:     "Trigger a scrape batch",
		Description: "Scrapes every active product on the given cadence, records readings, " +
			"and delivers any fired alerts.",
		Tags:   []string{"scrape"},
		Errors: []int{http.StatusInternalServerError},
	}, batchH.RunBatch)

	huma.Register(api, huma.Operation{
		OperationID: "scrape-product-now",
		Method:      http.MethodPost,
		Path:        "/api/v1/products/{id}/scrape",
		Summary:     "Scrape one product now",
		Description: "Scrapes a single product immediately, records the reading, and " +
			"delivers any fired alerts.",
		Tags: []string{"scrape"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusBadRequest,
			http.StatusBadGateway,
			http.StatusUnprocessableEntity,
		},
	}, scrapeH.ScrapeNow)
}
