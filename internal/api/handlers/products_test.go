package handlers_test

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricepulse/pricepulse/internal/api/handlers"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

func newProductsAPI(t *testing.T, fs *fakeStore) humatest.TestAPI {
	t.Helper()

	h := handlers.NewProductsHandler(fs, testRegistry(), nil)
	_, api := humatest.New(t)
	handlers.RegisterProductRoutes(api, h)

	return api
}

func TestProductsHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		setup      func(*fakeStore)
		wantStatus int
		wantBody   string
	}{
		{
			name: "creates product",
			body: map[string]any{
				"name":           "Mechanical Keyboard",
				"url":            "https://shop.example/p/kb-1",
				"scrape_cadence": "HOURLY",
				"target_price":   "2999.00",
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"Mechanical Keyboard"`,
		},
		{
			name: "resolves source site from registry",
			body: map[string]any{
				"name":           "Monitor",
				"url":            "https://shop.example/p/mon-1",
				"scrape_cadence": "DAILY",
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"source_site":"Shop"`,
		},
		{
			name: "unsupported site",
			body: map[string]any{
				"name":           "Widget",
				"url":            "https://unknown.example/p/1",
				"scrape_cadence": "HOURLY",
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "no scraper supports this site",
		},
		{
			name: "duplicate url",
			body: map[string]any{
				"name":           "Keyboard Again",
				"url":            "https://shop.example/p/kb-1",
				"scrape_cadence": "HOURLY",
			},
			setup: func(fs *fakeStore) {
				fs.addProduct(&domain.Product{
					Name: "Keyboard",
					URL:  "https://shop.example/p/kb-1",
				})
			},
			wantStatus: http.StatusConflict,
			wantBody:   "already tracked",
		},
		{
			name: "invalid cadence",
			body: map[string]any{
				"name":           "Widget",
				"url":            "https://shop.example/p/1",
				"scrape_cadence": "WEEKLY",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "scrape_cadence",
		},
		{
			name: "malformed target price",
			body: map[string]any{
				"name":           "Widget",
				"url":            "https://shop.example/p/1",
				"scrape_cadence": "HOURLY",
				"target_price":   "abc",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "positive decimal",
		},
		{
			name: "negative target price",
			body: map[string]any{
				"name":           "Widget",
				"url":            "https://shop.example/p/1",
				"scrape_cadence": "HOURLY",
				"target_price":   "-10",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "positive decimal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := newFakeStore()
			if tt.setup != nil {
				tt.setup(fs)
			}
			api := newProductsAPI(t, fs)

			resp := api.Post("/api/v1/products", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestProductsHandler_Create_InitialScrape(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	scraper := &fakeScraper{
		reading: &domain.PriceReading{
			ProductName:  "Mechanical Keyboard",
			Price:        decimal.NewFromInt(2799),
			Availability: domain.AvailabilityInStock,
			Currency:     "INR",
		},
	}
	h := handlers.NewProductsHandler(fs, testRegistry(), scraper)
	_, api := humatest.New(t)
	handlers.RegisterProductRoutes(api, h)

	resp := api.Post("/api/v1/products", map[string]any{
		"name":           "Mechanical Keyboard",
		"url":            "https://shop.example/p/kb-1",
		"scrape_cadence": "HOURLY",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.NotEmpty(t, scraper.productID)
	assert.Contains(t, resp.Body.String(), scraper.productID)
	assert.Contains(t, resp.Body.String(), `"first_reading"`)
	assert.Contains(t, resp.Body.String(), `"2799"`)
}

func TestProductsHandler_Create_InitialScrapeFailure(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	h := handlers.NewProductsHandler(fs, testRegistry(), &fakeScraper{err: assert.AnError})
	_, api := humatest.New(t)
	handlers.RegisterProductRoutes(api, h)

	resp := api.Post("/api/v1/products", map[string]any{
		"name":           "Monitor",
		"url":            "https://shop.example/p/mon-1",
		"scrape_cadence": "DAILY",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.NotContains(t, resp.Body.String(), "first_reading")
}

func TestProductsHandler_List(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.addProduct(&domain.Product{
		Name:   "Keyboard",
		URL:    "https://shop.example/p/1",
		Active: true,
	})
	fs.addProduct(&domain.Product{
		Name:   "Retired Mouse",
		URL:    "https://shop.example/p/2",
		Active: false,
	})
	api := newProductsAPI(t, fs)

	resp := api.Get("/api/v1/products")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Keyboard")
	assert.Contains(t, resp.Body.String(), "Retired Mouse")

	resp = api.Get("/api/v1/products?active=true")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Keyboard")
	assert.NotContains(t, resp.Body.String(), "Retired Mouse")
}

func TestProductsHandler_List_Empty(t *testing.T) {
	t.Parallel()

	api := newProductsAPI(t, newFakeStore())

	resp := api.Get("/api/v1/products")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestProductsHandler_List_StoreError(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	fs.listProductsErr = assert.AnError
	api := newProductsAPI(t, fs)

	resp := api.Get("/api/v1/products")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "listing products")
}

func TestProductsHandler_Get(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	p := fs.addProduct(&domain.Product{
		Name: "Keyboard",
		URL:  "https://shop.example/p/1",
	})
	api := newProductsAPI(t, fs)

	resp := api.Get("/api/v1/products/" + p.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"Keyboard"`)

	resp = api.Get("/api/v1/products/missing")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "product not found")
}

func TestProductsHandler_SetTarget(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	p := fs.addProduct(&domain.Product{
		Name: "Keyboard",
		URL:  "https://shop.example/p/1",
	})
	api := newProductsAPI(t, fs)

	resp := api.Put("/api/v1/products/"+p.ID+"/target", map[string]any{
		"target_price": "1999.50",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	got := api.Get("/api/v1/products/" + p.ID)
	assert.Contains(t, got.Body.String(), "1999.5")

	// An empty body clears the target.
	resp = api.Put("/api/v1/products/"+p.ID+"/target", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)

	got = api.Get("/api/v1/products/" + p.ID)
	assert.NotContains(t, got.Body.String(), "target_price")
}

func TestProductsHandler_SetTarget_NotFound(t *testing.T) {
	t.Parallel()

	api := newProductsAPI(t, newFakeStore())

	resp := api.Put("/api/v1/products/missing/target", map[string]any{
		"target_price": "10.00",
	})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProductsHandler_SetActive(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	p := fs.addProduct(&domain.Product{
		Name:   "Keyboard",
		URL:    "https://shop.example/p/1",
		Active: true,
	})
	api := newProductsAPI(t, fs)

	resp := api.Put("/api/v1/products/"+p.ID+"/active", map[string]any{
		"active": false,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	got := api.Get("/api/v1/products/" + p.ID)
	assert.Contains(t, got.Body.String(), `"active":false`)

	resp = api.Put("/api/v1/products/missing/active", map[string]any{
		"active": true,
	})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProductsHandler_Delete(t *testing.T) {
	t.Parallel()

	fs := newFakeStore()
	p := fs.addProduct(&domain.Product{
		Name: "Keyboard",
		URL:  "https://shop.example/p/1",
	})
	api := newProductsAPI(t, fs)

	resp := api.Delete("/api/v1/products/" + p.ID)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Delete("/api/v1/products/" + p.ID)
	require.Equal(t, http.StatusNotFound, resp.Code)
}
