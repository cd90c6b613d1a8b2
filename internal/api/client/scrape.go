package client

import (
	"context"
	"fmt"

	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// BatchResponse summarizes a triggered scrape batch.
type BatchResponse struct {
	Cadence   string `json:"cadence"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}

// ScrapeNowResponse carries the fresh reading for one product.
type ScrapeNowResponse struct {
	ProductID string               `json:"product_id"`
	Reading   *domain.PriceReading `json:"reading"`
}

// RunBatch triggers a scrape of every active product on a cadence
// ("hourly" or "daily").
func (c *Client) RunBatch(ctx context.Context, cadence string) (*BatchResponse, error) {
	var resp BatchResponse
	if err := c.post(ctx, "/api/v1/scrape/"+cadence, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ScrapeNow scrapes a single product immediately.
func (c *Client) ScrapeNow(ctx context.Context, productID string) (*ScrapeNowResponse, error) {
	var resp ScrapeNowResponse
	path := fmt.Sprintf("/api/v1/products/%s/scrape", productID)
	if err := c.post(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
