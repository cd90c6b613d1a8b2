package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pricepulse/pricepulse/internal/notify"
	"github.com/pricepulse/pricepulse/internal/scrape"
	"github.com/pricepulse/pricepulse/internal/sites"
	"github.com/pricepulse/pricepulse/internal/store"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory Store with optional error injection.
type fakeStore struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	points   []domain.PricePoint
	alerts   map[string]*domain.Alert
	jobRuns  map[string]*domain.JobRun
	nextID   int

	listPendingErr  error
	createAlertErr  error
	markNotifiedErr error
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
	f.addProduct(p)
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
	var out []domain.Product
	for _, p := range f.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, *p)
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
	// Iterate in insertion order via numeric ids for deterministic batches.
	for i := 1; i <= f.nextID; i++ {
		p, ok := f.products[fmt.Sprintf("id-%d", i)]
		if ok && p.Active && p.Cadence == cadence {
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
	pp.RecordedAt = time.Now()
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
	return &domain.PriceAnalytics{ProductID: productID, WindowDays: days}, nil
}

func (f *fakeStore) CreateAlert(_ context.Context, a *domain.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAlertErr != nil {
		return f.createAlertErr
	}
	a.ID = f.genID()
	a.TriggeredAt = time.Now()
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
	var out []domain.Alert
	for _, a := range f.alerts {
		if a.ProductID == productID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkAlertNotified(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markNotifiedErr != nil {
		return f.markNotifiedErr
	}
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
	var out []domain.JobRun
	for _, r := range f.jobRuns {
		if r.JobName == jobName {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListLatestJobRuns(_ context.Context) ([]domain.JobRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := make(map[string]*domain.JobRun)
	for _, r := range f.jobRuns {
		cur, ok := latest[r.JobName]
		if !ok || r.StartedAt.After(cur.StartedAt) {
			latest[r.JobName] = r
		}
	}
	var out []domain.JobRun
	for _, r := range latest {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStore) Migrate(context.Context) error { return nil }
func (f *fakeStore) Ping(context.Context) error    { return nil }
func (f *fakeStore) Close()                        {}

var _ store.Store = (*fakeStore)(nil)

// fakeNotifier records delivered payloads and can fail on demand.
type fakeNotifier struct {
	mu      sync.Mutex
	sent    []notify.AlertPayload
	batches [][]notify.AlertPayload
	sendErr error
}

func (f *fakeNotifier) SendAlert(_ context.Context, alert *notify.AlertPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, *alert)
	return nil
}

func (f *fakeNotifier) SendBatchAlert(
	_ context.Context,
	alerts []notify.AlertPayload,
	_ string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.batches = append(f.batches, alerts)
	return nil
}

var _ notify.Notifier = (*fakeNotifier)(nil)

// stubFetcher returns an empty document for every URL; failures are
// injected per URL. It tracks in-flight concurrency for the pool tests.
type stubFetcher struct {
	mu       sync.Mutex
	calls    int
	inFlight int
	peak     int
	delay    time.Duration
	failURLs map[string]error
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	err := f.failURLs[url]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, domain.NewScrapeError(domain.ErrKindFetchFailed, url, ctx.Err())
		case <-time.After(f.delay):
		}
	}

	if err != nil {
		return nil, domain.NewScrapeError(domain.ErrKindFetchFailed, url, err)
	}

	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if parseErr != nil {
		return nil, parseErr
	}
	return doc, nil
}

var _ scrape.Fetcher = (*stubFetcher)(nil)

// stubStrategy serves canned readings keyed by URL.
type stubStrategy struct {
	readings map[string]*domain.PriceReading
	errs     map[string]error
}

func (s *stubStrategy) Supports(string) bool { return true }
func (s *stubStrategy) SiteName() string     { return "Stub" }

func (s *stubStrategy) Extract(
	_ *goquery.Document,
	pageURL string,
) (*domain.PriceReading, error) {
	if err := s.errs[pageURL]; err != nil {
		return nil, err
	}
	if r, ok := s.readings[pageURL]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, domain.NewScrapeError(domain.ErrKindPriceNotFound, pageURL, nil)
}

var _ sites.Strategy = (*stubStrategy)(nil)

func testReading(price int64) *domain.PriceReading {
	return &domain.PriceReading{
		ProductName:  "Test Product",
		Price:        decimal.NewFromInt(price),
		Availability: domain.AvailabilityInStock,
		Currency:     "INR",
		CapturedAt:   time.Now(),
	}
}

// newTestCoordinator wires a coordinator over stub site handling.
func newTestCoordinator(
	t *testing.T,
	fetcher *stubFetcher,
	strategy *stubStrategy,
) *scrape.Coordinator {
	t.Helper()
	require.NotNil(t, fetcher)
	reg := sites.NewRegistry(strategy)
	return scrape.NewCoordinator(reg, fetcher, scrape.WithLogger(quietLogger()))
}
