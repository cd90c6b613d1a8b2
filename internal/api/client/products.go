package client

import (
	"context"
	"fmt"

	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// productRequest contains only the fields the API accepts for create.
type productRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Cadence     string `json:"scrape_cadence"`
	TargetPrice string `json:"target_price,omitempty"`
	AlertEmail  string `json:"alert_email,omitempty"`
}

// CreateProductParams are the inputs for tracking a new product.
type CreateProductParams struct {
	Name        string
	URL         string
	Cadence     string
	TargetPrice string
	AlertEmail  string
}

// CreateProduct starts tracking a new product URL.
func (c *Client) CreateProduct(
	ctx context.Context,
	params *CreateProductParams,
) (*domain.Product, error) {
	var created domain.Product
	req := productRequest{
		Name:        params.Name,
		URL:         params.URL,
		Cadence:     params.Cadence,
		TargetPrice: params.TargetPrice,
		AlertEmail:  params.AlertEmail,
	}
	if err := c.post(ctx, "/api/v1/products", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListProducts returns tracked products, optionally only active ones.
func (c *Client) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	path := "/api/v1/products"
	if activeOnly {
		path += "?active=true"
	}

	var products []domain.Product
	if err := c.get(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/api/v1/products/"+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetTargetPrice updates a product's target price; empty clears it.
func (c *Client) SetTargetPrice(ctx context.Context, id, target string) error {
	body := map[string]string{}
	if target != "" {
		body["target_price"] = target
	}
	return c.put(ctx, fmt.Sprintf("/api/v1/products/%s/target", id), body, nil)
}

// SetProductActive activates or deactivates scraping for a product.
func (c *Client) SetProductActive(ctx context.Context, id string, active bool) error {
	body := map[string]bool{"active": active}
	return c.put(ctx, fmt.Sprintf("/api/v1/products/%s/active", id), body, nil)
}

// DeleteProduct deletes a product by ID.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/products/"+id, nil)
}

// HistoryResponse is the price history payload for one product.
type HistoryResponse struct {
	ProductID string              `json:"product_id"`
	Days      int                 `json:"days"`
	Points    []domain.PricePoint `json:"points"`
}

// GetPriceHistory returns a product's recorded price points over a window.
func (c *Client) GetPriceHistory(
	ctx context.Context,
	id string,
	days int,
) (*HistoryResponse, error) {
	var resp HistoryResponse
	path := fmt.Sprintf("/api/v1/products/%s/history?days=%d", id, days)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPriceAnalytics returns min/max/avg price over a window.
func (c *Client) GetPriceAnalytics(
	ctx context.Context,
	id string,
	days int,
) (*domain.PriceAnalytics, error) {
	var resp domain.PriceAnalytics
	path := fmt.Sprintf("/api/v1/products/%s/analytics?days=%d", id, days)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
