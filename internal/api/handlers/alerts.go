package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pricepulse/pricepulse/internal/store"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// AlertsHandler handles alert history endpoints.
type AlertsHandler struct {
	store store.Store
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(s store.Store) *AlertsHandler {
	return &AlertsHandler{store: s}
}

// ListProductAlertsInput selects a product's alert history.
type ListProductAlertsInput struct {
	ID    string `path:"id"     doc:"Product UUID"`
	Limit int    `query:"limit" doc:"Number of alerts to return" default:"20" minimum:"1" maximum:"200"`
}

// ListAlertsOutput is the response for alert listings.
type ListAlertsOutput struct {
	Body []domain.Alert
}

// ListByProduct returns a product's fired alerts, newest first.
func (h *AlertsHandler) ListByProduct(
	ctx context.Context,
	input *ListProductAlertsInput,
) (*ListAlertsOutput, error) {
	if _, err := h.store.GetProduct(ctx, input.ID); err != nil {
		return nil, mapStoreError(err, "fetching product")
	}

	alerts, err := h.store.ListAlertsByProduct(ctx, input.ID, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing alerts failed: " + err.Error())
	}

	if alerts == nil {
		alerts = []domain.Alert{}
	}

	return &ListAlertsOutput{Body: alerts}, nil
}

// ListPending returns alerts that have not been delivered yet.
func (h *AlertsHandler) ListPending(
	ctx context.Context,
	_ *struct{},
) (*ListAlertsOutput, error) {
	alerts, err := h.store.ListPendingAlerts(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing pending alerts failed: " + err.Error())
	}

	if alerts == nil {
		alerts = []domain.Alert{}
	}

	return &ListAlertsOutput{Body: alerts}, nil
}

// RegisterAlertRoutes registers alert endpoints with the Huma API.
func RegisterAlertRoutes(api huma.API, h *AlertsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-product-alerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}/alerts",
		Summary:     "List alerts for a product",
		Description: "Returns the product's fired alerts, newest first.",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusNotFound},
	}, h.ListByProduct)

	huma.Register(api, huma.Operation{
		OperationID: "list-pending-alerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/alerts/pending",
		Summary:     "List pending alerts",
		Description: "Returns fired alerts that have not been delivered to a notification sink yet.",
		Tags:        []string{"alerts"},
	}, h.ListPending)
}
