package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domain "github.com/pricepulse/pricepulse/pkg/types"
)

const defaultPoolSize = 10

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateProduct inserts a new tracked product.
func (s *PostgresStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	args := pgx.NamedArgs{
		"name":           p.Name,
		"source_site":    p.SourceSite,
		"url":            p.URL,
		"scrape_cadence": string(p.Cadence),
		"target_price":   p.TargetPrice,
		"alert_email":    p.AlertEmail,
		"active":         p.Active,
	}

	err := s.pool.QueryRow(ctx, queryCreateProduct, args).Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateURL
	}
	return err
}

// GetProduct retrieves a product by its internal UUID.
func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	if err := scanProduct(s.pool.QueryRow(ctx, queryGetProduct, id), p); err != nil {
		return nil, mapNoRows(err)
	}
	return p, nil
}

// GetProductByURL retrieves a product by its tracked URL.
func (s *PostgresStore) GetProductByURL(ctx context.Context, url string) (*domain.Product, error) {
	p := &domain.Product{}
	if err := scanProduct(s.pool.QueryRow(ctx, queryGetProductByURL, url), p); err != nil {
		return nil, mapNoRows(err)
	}
	return p, nil
}

// ListProducts returns all products, optionally filtered to active only.
func (s *PostgresStore) ListProducts(
	ctx context.Context,
	activeOnly bool,
) ([]domain.Product, error) {
	query := queryListProductsAll
	if activeOnly {
		query = queryListProductsActive
	}
	return s.queryProducts(ctx, query)
}

// ListProductsByCadence returns active products due on the given cadence.
func (s *PostgresStore) ListProductsByCadence(
	ctx context.Context,
	cadence domain.Cadence,
) ([]domain.Product, error) {
	return s.queryProducts(ctx, queryListProductsByCadence, string(cadence))
}

// UpdateTargetPrice sets or clears a product's target price.
func (s *PostgresStore) UpdateTargetPrice(
	ctx context.Context,
	id string,
	target *decimal.Decimal,
) error {
	return s.execOne(ctx, queryUpdateTargetPrice, id, target)
}

// SetProductActive enables or disables scraping for a product.
func (s *PostgresStore) SetProductActive(ctx context.Context, id string, active bool) error {
	return s.execOne(ctx, querySetProductActive, id, active)
}

// UpdateCurrentPrice records the most recently observed price on the product row.
func (s *PostgresStore) UpdateCurrentPrice(
	ctx context.Context,
	id string,
	price decimal.Decimal,
) error {
	return s.execOne(ctx, queryUpdateCurrentPrice, id, price)
}

// DeleteProduct removes a product and, via cascade, its history and alerts.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	return s.execOne(ctx, queryDeleteProduct, id)
}

// InsertPricePoint appends a price observation to a product's history.
func (s *PostgresStore) InsertPricePoint(ctx context.Context, pp *domain.PricePoint) error {
	args := pgx.NamedArgs{
		"product_id":   pp.ProductID,
		"price":        pp.Price,
		"availability": string(pp.Availability),
		"currency":     pp.Currency,
	}

	return s.pool.QueryRow(ctx, queryInsertPricePoint, args).Scan(&pp.ID, &pp.RecordedAt)
}

// ListPriceHistory returns a product's observations within the last N days,
// newest first.
func (s *PostgresStore) ListPriceHistory(
	ctx context.Context,
	productID string,
	days int,
) ([]domain.PricePoint, error) {
	rows, err := s.pool.Query(ctx, queryListPriceHistory, productID, days)
	if err != nil {
		return nil, fmt.Errorf("querying price history: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var pp domain.PricePoint
		if err := rows.Scan(
			&pp.ID, &pp.ProductID, &pp.Price, &pp.Availability, &pp.Currency, &pp.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning price point: %w", err)
		}
		points = append(points, pp)
	}

	return points, rows.Err()
}

// GetPriceAnalytics aggregates min/max/avg over a product's recent history.
func (s *PostgresStore) GetPriceAnalytics(
	ctx context.Context,
	productID string,
	days int,
) (*domain.PriceAnalytics, error) {
	a := &domain.PriceAnalytics{ProductID: productID, WindowDays: days}
	err := s.pool.QueryRow(ctx, queryGetPriceAnalytics, productID, days).Scan(
		&a.MinPrice, &a.MaxPrice, &a.AvgPrice, &a.RecordCount,
	)
	if err != nil {
		return nil, fmt.Errorf("querying price analytics: %w", err)
	}
	return a, nil
}

// CreateAlert inserts a new un-notified alert.
func (s *PostgresStore) CreateAlert(ctx context.Context, a *domain.Alert) error {
	args := pgx.NamedArgs{
		"product_id":     a.ProductID,
		"kind":           string(a.Kind),
		"trigger_price":  a.TriggerPrice,
		"previous_price": a.PreviousPrice,
		"percent_change": a.PercentChange,
		"email":          a.Email,
	}

	return s.pool.QueryRow(ctx, queryCreateAlert, args).Scan(&a.ID, &a.TriggeredAt)
}

// ListPendingAlerts returns all un-notified alerts, oldest first.
func (s *PostgresStore) ListPendingAlerts(ctx context.Context) ([]domain.Alert, error) {
	return s.queryAlerts(ctx, queryListPendingAlerts)
}

// ListAlertsByProduct returns recent alerts for a product.
func (s *PostgresStore) ListAlertsByProduct(
	ctx context.Context,
	productID string,
	limit int,
) ([]domain.Alert, error) {
	return s.queryAlerts(ctx, queryListAlertsByProduct, productID, limit)
}

// MarkAlertNotified marks a single alert as delivered.
func (s *PostgresStore) MarkAlertNotified(ctx context.Context, id string) error {
	return s.execOne(ctx, queryMarkAlertNotified, id)
}

// InsertJobRun records the start of a scheduled job and returns its UUID.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun marks a job run as finished with the given status and metadata.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id, status, errText string,
	rowsAffected int,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected)
	if err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

// ListJobRuns returns the most recent runs for a specific job, newest first.
func (s *PostgresStore) ListJobRuns(
	ctx context.Context,
	jobName string,
	limit int,
) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListLatestJobRuns returns the most recent run for each distinct job.
func (s *PostgresStore) ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListLatestJobRuns)
	if err != nil {
		return nil, fmt.Errorf("querying latest job runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// execOne runs a statement expected to touch exactly one row; zero rows
// means the target id does not exist.
func (s *PostgresStore) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// queryProducts is a helper for product list queries.
func (s *PostgresStore) queryProducts(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProductRow(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// queryAlerts is a helper for alert queries.
func (s *PostgresStore) queryAlerts(
	ctx context.Context,
	query string,
	args ...any,
) ([]domain.Alert, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(
			&a.ID, &a.ProductID, &a.Kind, &a.TriggerPrice, &a.PreviousPrice,
			&a.PercentChange, &a.Email, &a.Notified, &a.NotifiedAt, &a.TriggeredAt,
		); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func scanProduct(row scannable, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.SourceSite, &p.URL, &p.Cadence,
		&p.TargetPrice, &p.CurrentPrice, &p.AlertEmail, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func scanProductRow(rows pgx.Rows, p *domain.Product) error {
	return scanProduct(rows, p)
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
