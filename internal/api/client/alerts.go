package client

import (
	"context"
	"fmt"

	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// ListProductAlerts returns a product's fired alerts, newest first.
func (c *Client) ListProductAlerts(ctx context.Context, productID string) ([]domain.Alert, error) {
	var alerts []domain.Alert
	if err := c.get(ctx, fmt.Sprintf("/api/v1/products/%s/alerts", productID), &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListPendingAlerts returns alerts not yet delivered to a sink.
func (c *Client) ListPendingAlerts(ctx context.Context) ([]domain.Alert, error) {
	var alerts []domain.Alert
	if err := c.get(ctx, "/api/v1/alerts/pending", &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
