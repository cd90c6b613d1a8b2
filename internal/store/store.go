package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// Sentinel errors returned by Store implementations. Callers match with
// errors.Is so HTTP handlers can map them to status codes.
var (
	ErrNotFound     = errors.New("store: not found")
	ErrDuplicateURL = errors.New("store: product url already tracked")
)

// Store is the persistence surface for products, price history, alerts,
// and job runs. Postgres is the production implementation.
type Store interface {
	// Products
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductByURL(ctx context.Context, url string) (*domain.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	ListProductsByCadence(ctx context.Context, cadence domain.Cadence) ([]domain.Product, error)
	UpdateTargetPrice(ctx context.Context, id string, target *decimal.Decimal) error
	SetProductActive(ctx context.Context, id string, active bool) error
	UpdateCurrentPrice(ctx context.Context, id string, price decimal.Decimal) error
	DeleteProduct(ctx context.Context, id string) error

	// Price history
	InsertPricePoint(ctx context.Context, pp *domain.PricePoint) error
	ListPriceHistory(ctx context.Context, productID string, days int) ([]domain.PricePoint, error)
	GetPriceAnalytics(ctx context.Context, productID string, days int) (*domain.PriceAnalytics, error)

	// Alerts
	CreateAlert(ctx context.Context, a *domain.Alert) error
	ListPendingAlerts(ctx context.Context) ([]domain.Alert, error)
	ListAlertsByProduct(ctx context.Context, productID string, limit int) ([]domain.Alert, error)
	MarkAlertNotified(ctx context.Context, id string) error

	// Job runs
	InsertJobRun(ctx context.Context, jobName string) (string, error)
	CompleteJobRun(ctx context.Context, id, status, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}
