package handlers_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/pricepulse/pricepulse/internal/sites"
	"github.com/pricepulse/pricepulse/internal/store"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// stubStrategy matches URLs by prefix; extraction is never exercised
// through the API handlers.
type stubStrategy struct {
	name   string
	prefix string
}

func (s *stubStrategy) Supports(url string) bool { return strings.HasPrefix(url, s.prefix) }
func (s *stubStrategy) SiteName() string         { return s.name }

func (s *stubStrategy) Extract(*goquery.Document, string) (*domain.PriceReading, error) {
	return nil, domain.NewScrapeError(domain.ErrKindPriceNotFound, "", nil)
}

var _ sites.Strategy = (*stubStrategy)(nil)

// testRegistry returns a registry with one stub site for handler tests.
func testRegistry() *sites.Registry {
	return sites.NewRegistry(&stubStrategy{name: "Shop", prefix: "https://shop.example/"})
}

// fakeStore is an in-memory Store with optional error injection.
type fakeStore struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	points   []domain.PricePoint
	alerts   map[string]*domain.Alert
	jobRuns  map[string]*domain.JobRun
	nextID   int

	createProductErr error
	listProductsErr  error
	historyErr       error
	listPendingErr   error
	listAlertsErr    error
	listJobsErr      error
	jobHistoryErr    error
	pingErr          error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[string]*domain.Product),
		alerts:   make(map[string]*domain.Alert),
		jobRuns:  make(map[string]*domain.JobRun),
	}
}

func (f *fakeStore) genID() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeStore) addProduct(p *domain.Product) *domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = f.genID()
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeStore) CreateProduct(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createProductErr != nil {
		return f.createProductErr
	}
	for _, existing := range f.products {
		if existing.URL == p.URL {
			return store.ErrDuplicateURL
		}
	}
	p.ID = f.genID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetProductByURL(_ context.Context, url string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.URL == url {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListProducts(_ context.Context, activeOnly bool) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listProductsErr != nil {
		return nil, f.listProductsErr
	}
	var out []domain.Product
	for i := 1; i <= f.nextID; i++ {
		p, ok := f.products[fmt.Sprintf("id-%d", i)]
		if ok && (!activeOnly || p.Active) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListProductsByCadence(
	_ context.Context,
	cadence domain.Cadence,
) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if p.Active && p.Cadence == cadence {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateTargetPrice(_ context.Context, id string, target *decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.TargetPrice = target
	return nil
}

func (f *fakeStore) SetProductActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Active = active
	return nil
}

func (f *fakeStore) UpdateCurrentPrice(_ context.Context, id string, price decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.CurrentPrice = &price
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) InsertPricePoint(_ context.Context, pp *domain.PricePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pp.ID = f.genID()
	if pp.RecordedAt.IsZero() {
		pp.RecordedAt = time.Now()
	}
	f.points = append(f.points, *pp)
	return nil
}

func (f *fakeStore) ListPriceHistory(
	_ context.Context,
	productID string,
	_ int,
) ([]domain.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var out []domain.PricePoint
	for _, pp := range f.points {
		if pp.ProductID == productID {
			out = append(out, pp)
		}
	}
	return out, nil
}

func (f *fakeStore) GetPriceAnalytics(
	_ context.Context,
	productID string,
	days int,
) (*domain.PriceAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	out := &domain.PriceAnalytics{ProductID: productID, WindowDays: days}
	for _, pp := range f.points {
		if pp.ProductID != productID {
			continue
		}
		out.RecordCount++
		price := pp.Price
		if out.MinPrice == nil || price.LessThan(*out.MinPrice) {
			out.MinPrice = &price
		}
		if out.MaxPrice == nil || price.GreaterThan(*out.MaxPrice) {
			out.MaxPrice = &price
		}
	}
	return out, nil
}

func (f *fakeStore) CreateAlert(_ context.Context, a *domain.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.genID()
	if a.TriggeredAt.IsZero() {
		a.TriggeredAt = time.Now()
	}
	f.alerts[a.ID] = a
	return nil
}

func (f *fakeStore) ListPendingAlerts(_ context.Context) ([]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listPendingErr != nil {
		return nil, f.listPendingErr
	}
	var out []domain.Alert
	for i := 1; i <= f.nextID; i++ {
		a, ok := f.alerts[fmt.Sprintf("id-%d", i)]
		if ok && !a.Notified {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAlertsByProduct(
	_ context.Context,
	productID string,
	_ int,
) ([]domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listAlertsErr != nil {
		return nil, f.listAlertsErr
	}
	var out []domain.Alert
	for i := 1; i <= f.nextID; i++ {
		a, ok := f.alerts[fmt.Sprintf("id-%d", i)]
		if ok && a.ProductID == productID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkAlertNotified(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[id]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now()
	a.Notified = true
	a.NotifiedAt = &now
	return nil
}

func (f *fakeStore) InsertJobRun(_ context.Context, jobName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.genID()
	f.jobRuns[id] = &domain.JobRun{
		ID:        id,
		JobName:   jobName,
		StartedAt: time.Now(),
		Status:    "running",
	}
	return id, nil
}

func (f *fakeStore) CompleteJobRun(
	_ context.Context,
	id, status, errText string,
	rowsAffected int,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.jobRuns[id]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now()
	run.CompletedAt = &now
	run.Status = status
	run.ErrorText = errText
	run.RowsAffected = &rowsAffected
	return nil
}

func (f *fakeStore) ListJobRuns(
	_ context.Context,
	jobName string,
	_ int,
) ([]domain.JobRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.jobHistoryErr != nil {
		return nil, f.jobHistoryErr
	}
	var out []domain.JobRun
	for i := 1; i <= f.nextID; i++ {
		r, ok := f.jobRuns[fmt.Sprintf("id-%d", i)]
		if ok && r.JobName == jobName {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListLatestJobRuns(_ context.Context) ([]domain.JobRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listJobsErr != nil {
		return nil, f.listJobsErr
	}
	latest := make(map[string]domain.JobRun)
	for i := 1; i <= f.nextID; i++ {
		r, ok := f.jobRuns[fmt.Sprintf("id-%d", i)]
		if !ok {
			continue
		}
		cur, seen := latest[r.JobName]
		if !seen || r.StartedAt.After(cur.StartedAt) {
			latest[r.JobName] = *r
		}
	}
	var out []domain.JobRun
	for _, r := range latest {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) Migrate(context.Context) error { return nil }
func (f *fakeStore) Ping(context.Context) error    { return f.pingErr }
func (f *fakeStore) Close()                        {}

var _ store.Store = (*fakeStore)(nil)
