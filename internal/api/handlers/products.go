package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/pricepulse/pricepulse/internal/sites"
	"github.com/pricepulse/pricepulse/internal/store"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// ProductsHandler handles tracked-product CRUD endpoints.
type ProductsHandler struct {
	store    store.Store
	registry *sites.Registry
	scraper  ProductScraper
}

// NewProductsHandler creates a new ProductsHandler. The scraper is used to
// take a first reading when a product is registered; it may be nil.
func NewProductsHandler(s store.Store, r *sites.Registry, scraper ProductScraper) *ProductsHandler {
	return &ProductsHandler{store: s, registry: r, scraper: scraper}
}

// --- Input/Output types ---

// CreateProductInput is the request body for tracking a new product.
type CreateProductInput struct {
	Body struct {
		Name        string `json:"name"                   doc:"Display name for the product"`
		URL         string `json:"url"                    doc:"Product page URL"                 format:"uri"`
		Cadence     string `json:"scrape_cadence"         doc:"How often the product is scraped" enum:"HOURLY,DAILY"`
		TargetPrice string `json:"target_price,omitempty" doc:"Alert target price as a decimal string"`
		AlertEmail  string `json:"alert_email,omitempty"  doc:"Email recorded on fired alerts"`
	}
}

// CreateProductOutput is the response for creating a product.
type CreateProductOutput struct {
	Body struct {
		domain.Product
		FirstReading *domain.PriceReading `json:"first_reading,omitempty" doc:"Initial reading, when the registration scrape succeeded"`
	}
}

// ListProductsInput is the input for listing tracked products.
type ListProductsInput struct {
	Active bool `query:"active" doc:"Only return active products"`
}

// ListProductsOutput is the response for listing tracked products.
type ListProductsOutput struct {
	Body []domain.Product
}

// GetProductInput is the input for getting a single product.
type GetProductInput struct {
	ID string `path:"id" doc:"Product UUID"`
}

// GetProductOutput is the response for getting a single product.
type GetProductOutput struct {
	Body domain.Product
}

// SetTargetPriceInput updates or clears a product's alert target.
type SetTargetPriceInput struct {
	ID   string `path:"id" doc:"Product UUID"`
	Body struct {
		TargetPrice string `json:"target_price,omitempty" doc:"New target price; empty clears the target"`
	}
}

// SetActiveInput toggles whether a product is scraped.
type SetActiveInput struct {
	ID   string `path:"id" doc:"Product UUID"`
	Body struct {
		Active bool `json:"active" doc:"Whether the product should be scraped"`
	}
}

// ProductStatusOutput is the response for product mutations.
type ProductStatusOutput struct {
	Body struct {
		Status string `json:"status" example:"updated" doc:"Mutation status"`
	}
}

// DeleteProductInput is the input for deleting a product.
type DeleteProductInput struct {
	ID string `path:"id" doc:"Product UUID"`
}

// --- Handlers ---

// Create starts tracking a product URL.
func (h *ProductsHandler) Create(
	ctx context.Context,
	input *CreateProductInput,
) (*CreateProductOutput, error) {
	if !h.registry.IsSupported(input.Body.URL) {
		return nil, huma.Error400BadRequest("no scraper supports this site")
	}

	target, err := parseOptionalPrice(input.Body.TargetPrice)
	if err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:        input.Body.Name,
		SourceSite:  h.registry.SiteNameFor(input.Body.URL),
		URL:         input.Body.URL,
		Cadence:     domain.Cadence(input.Body.Cadence),
		TargetPrice: target,
		AlertEmail:  input.Body.AlertEmail,
		Active:      true,
	}

	if err := h.store.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicateURL) {
			return nil, huma.Error409Conflict("product url already tracked")
		}
		return nil, huma.Error500InternalServerError("creating product failed: " + err.Error())
	}

	out := &CreateProductOutput{}
	out.Body.Product = *p

	// Take a first reading right away so the product is not priceless until
	// its next scheduled cycle. A failed scrape does not fail registration;
	// the scheduler will retry on the next cycle.
	if h.scraper != nil {
		if reading, err := h.scraper.ScrapeProduct(ctx, p.ID); err == nil {
			out.Body.FirstReading = reading
		}
	}

	return out, nil
}

// List returns tracked products, optionally filtered to active ones.
func (h *ProductsHandler) List(
	ctx context.Context,
	input *ListProductsInput,
) (*ListProductsOutput, error) {
	products, err := h.store.ListProducts(ctx, input.Active)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing products failed: " + err.Error())
	}

	if products == nil {
		products = []domain.Product{}
	}

	return &ListProductsOutput{Body: products}, nil
}

// Get returns a single product by ID.
func (h *ProductsHandler) Get(
	ctx context.Context,
	input *GetProductInput,
) (*GetProductOutput, error) {
	p, err := h.store.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, mapStoreError(err, "fetching product")
	}

	return &GetProductOutput{Body: *p}, nil
}

// SetTarget updates or clears a product's target price.
func (h *ProductsHandler) SetTarget(
	ctx context.Context,
	input *SetTargetPriceInput,
) (*ProductStatusOutput, error) {
	target, err := parseOptionalPrice(input.Body.TargetPrice)
	if err != nil {
		return nil, err
	}

	if err := h.store.UpdateTargetPrice(ctx, input.ID, target); err != nil {
		return nil, mapStoreError(err, "updating target price")
	}

	resp := &ProductStatusOutput{}
	resp.Body.Status = "updated"
	return resp, nil
}

// SetActive activates or deactivates scraping for a product.
func (h *ProductsHandler) SetActive(
	ctx context.Context,
	input *SetActiveInput,
) (*ProductStatusOutput, error) {
	if err := h.store.SetProductActive(ctx, input.ID, input.Body.Active); err != nil {
		return nil, mapStoreError(err, "updating product")
	}

	resp := &ProductStatusOutput{}
	resp.Body.Status = "updated"
	return resp, nil
}

// Delete removes a product and its price history.
func (h *ProductsHandler) Delete(
	ctx context.Context,
	input *DeleteProductInput,
) (*struct{}, error) {
	if err := h.store.DeleteProduct(ctx, input.ID); err != nil {
		return nil, mapStoreError(err, "deleting product")
	}

	return &struct{}{}, nil
}

// parseOptionalPrice parses a decimal price string; empty means unset.
func parseOptionalPrice(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return nil, huma.Error422UnprocessableEntity("price must be a positive decimal string")
	}

	return &d, nil
}

// mapStoreError translates store sentinels into HTTP errors.
func mapStoreError(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return huma.Error404NotFound("product not found")
	}
	return huma.Error500InternalServerError(what + " failed: " + err.Error())
}

// RegisterProductRoutes registers product endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-product",
		Method:        http.MethodPost,
		Path:          "/api/v1/products",
		Summary:       "Track a new product",
		Description:   "Starts tracking a product URL on an hourly or daily scrape cadence and takes an initial price reading.",
		Tags:          []string{"products"},
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusConflict,
			http.StatusUnprocessableEntity,
		},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List tracked products",
		Description: "Returns tracked products, optionally filtered to active ones.",
		Tags:        []string{"products"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get a product by ID",
		Description: "Returns a single tracked product by its UUID.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "set-target-price",
		Method:      http.MethodPut,
		Path:        "/api/v1/products/{id}/target",
		Summary:     "Set or clear the target price",
		Description: "Updates the alert target price; an empty value clears it.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, h.SetTarget)

	huma.Register(api, huma.Operation{
		OperationID: "set-product-active",
		Method:      http.MethodPut,
		Path:        "/api/v1/products/{id}/active",
		Summary:     "Activate or deactivate a product",
		Description: "Toggles whether the scheduler scrapes this product.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.SetActive)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-product",
		Method:        http.MethodDelete,
		Path:          "/api/v1/products/{id}",
		Summary:       "Delete a product",
		Description:   "Removes a product and cascades its price history and alerts.",
		Tags:          []string{"products"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.Delete)
}
