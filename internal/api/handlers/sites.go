package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pricepulse/pricepulse/internal/sites"
)

// SitesHandler exposes the registered scraper strategies.
type SitesHandler struct {
	registry *sites.Registry
}

// NewSitesHandler creates a new SitesHandler.
func NewSitesHandler(r *sites.Registry) *SitesHandler {
	return &SitesHandler{registry: r}
}

// ListSitesOutput is the response for listing supported sites.
type ListSitesOutput struct {
	Body struct {
		Sites []string `json:"sites" doc:"Registered site names in dispatch order"`
	}
}

// CheckSiteInput is the input for checking URL support.
type CheckSiteInput struct {
	URL string `query:"url" required:"true" doc:"Product page URL to check"`
}

// CheckSiteOutput is the response for checking URL support.
type CheckSiteOutput struct {
	Body struct {
		URL       string `json:"url"`
		Supported bool   `json:"supported"`
		Site      string `json:"site,omitempty" doc:"Matched site name when supported"`
	}
}

// ListSites returns the registered site names in dispatch order.
func (h *SitesHandler) ListSites(
	_ context.Context,
	_ *struct{},
) (*ListSitesOutput, error) {
	resp := &ListSitesOutput{}
	resp.Body.Sites = h.registry.SiteNames()
	return resp, nil
}

// CheckSite reports whether any registered strategy supports a URL.
func (h *SitesHandler) CheckSite(
	_ context.Context,
	input *CheckSiteInput,
) (*CheckSiteOutput, error) {
	resp := &CheckSiteOutput{}
	resp.Body.URL = input.URL
	resp.Body.Supported = h.registry.IsSupported(input.URL)
	if resp.Body.Supported {
		resp.Body.Site = h.registry.SiteNameFor(input.URL)
	}
	return resp, nil
}

// RegisterSiteRoutes registers site endpoints with the Huma API.
func RegisterSiteRoutes(api huma.API, h *SitesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-sites",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites",
		Summary:     "List supported sites",
		Description: "Returns the site names with a registered extraction strategy.",
		Tags:        []string{"sites"},
	}, h.ListSites)

	huma.Register(api, huma.Operation{
		OperationID: "check-site",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites/check",
		Summary:     "Check URL support",
		Description: "Reports whether a product URL is handled by a registered strategy.",
		Tags:        []string{"sites"},
	}, h.CheckSite)
}
