package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pricepulse/pricepulse/internal/store"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// HistoryHandler handles price history and analytics endpoints.
type HistoryHandler struct {
	store store.Store
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(s store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// HistoryInput selects a product and a trailing window in days.
type HistoryInput struct {
	ID   string `path:"id"    doc:"Product UUID"`
	Days int    `query:"days" doc:"Trailing window in days" default:"30" minimum:"1" maximum:"365"`
}

// HistoryOutput is the response for a product's price history.
type HistoryOutput struct {
	Body struct {
		ProductID string              `json:"product_id"`
		Days      int                 `json:"days"`
		Points    []domain.PricePoint `json:"points"`
	}
}

// AnalyticsOutput is the response for a product's price analytics.
type AnalyticsOutput struct {
	Body domain.PriceAnalytics
}

// GetHistory returns a product's recorded price points, newest first.
func (h *HistoryHandler) GetHistory(
	ctx context.Context,
	input *HistoryInput,
) (*HistoryOutput, error) {
	if _, err := h.store.GetProduct(ctx, input.ID); err != nil {
		return nil, mapStoreError(err, "fetching product")
	}

	points, err := h.store.ListPriceHistory(ctx, input.ID, input.Days)
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching price history failed: " + err.Error())
	}

	if points == nil {
		points = []domain.PricePoint{}
	}

	resp := &HistoryOutput{}
	resp.Body.ProductID = input.ID
	resp.Body.Days = input.Days
	resp.Body.Points = points

	return resp, nil
}

// GetAnalytics returns min/max/avg price over a trailing window.
func (h *HistoryHandler) GetAnalytics(
	ctx context.Context,
	input *HistoryInput,
) (*AnalyticsOutput, error) {
	if _, err := h.store.GetProduct(ctx, input.ID); err != nil {
		return nil, mapStoreError(err, "fetching product")
	}

	analytics, err := h.store.GetPriceAnalytics(ctx, input.ID, input.Days)
	if err != nil {
		return nil, huma.Error500InternalServerError("computing price analytics failed: " + err.Error())
	}

	return &AnalyticsOutput{Body: *analytics}, nil
}

// RegisterHistoryRoutes registers price history endpoints with the Huma API.
func RegisterHistoryRoutes(api huma.API, h *HistoryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-price-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}/history",
		Summary:     "Get price history",
		Description: "Returns the product's recorded price points over a trailing window, newest first.",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetHistory)

	huma.Register(api, huma.Operation{
		OperationID: "get-price-analytics",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}/analytics",
		Summary:     "Get price analytics",
		Description: "Returns min, max, and average price over a trailing window.",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetAnalytics)
}
