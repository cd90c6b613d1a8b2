package client

import (
	"context"
	"net/url"
)

// SitesResponse lists the registered site names.
type SitesResponse struct {
	Sites []string `json:"sites"`
}

// SiteCheckResponse reports whether a URL is scrapeable.
type SiteCheckResponse struct {
	URL       string `json:"url"`
	Supported bool   `json:"supported"`
	Site      string `json:"site,omitempty"`
}

// ListSites returns the supported site names.
func (c *Client) ListSites(ctx context.Context) (*SitesResponse, error) {
	var resp SitesResponse
	if err := c.get(ctx, "/api/v1/sites", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckSite reports whether a product URL has a registered scraper.
func (c *Client) CheckSite(ctx context.Context, pageURL string) (*SiteCheckResponse, error) {
	var resp SiteCheckResponse
	path := "/api/v1/sites/check?url=" + url.QueryEscape(pageURL)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
