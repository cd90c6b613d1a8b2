// Package domain defines the core business types for pricepulse.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cadence represents how often a product is re-scraped.
type Cadence string

// Cadence constants.
const (
	CadenceHourly Cadence = "HOURLY"
	CadenceDaily  Cadence = "DAILY"
)

// Valid reports whether c is a known cadence.
func (c Cadence) Valid() bool {
	return c == CadenceHourly || c == CadenceDaily
}

// Availability is the tri-state stock signal extracted from a product page.
type Availability string

// Availability constants.
const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityUnknown    Availability = "unknown"
)

// Product represents a tracked product URL with its alert configuration.
// Within one scrape cycle the engine treats a Product as an immutable
// snapshot; only the store mutates it.
type Product struct {
	ID           string           `json:"id"                      db:"id"`
	Name         string           `json:"name"                    db:"name"`
	SourceSite   string           `json:"source_site"             db:"source_site"`
	URL          string           `json:"url"                     db:"url"`
	Cadence      Cadence          `json:"scrape_cadence"          db:"scrape_cadence"`
	TargetPrice  *decimal.Decimal `json:"target_price,omitempty"  db:"target_price"`
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty" db:"current_price"`
	AlertEmail   string           `json:"alert_email,omitempty"   db:"alert_email"`
	Active       bool             `json:"active"                  db:"active"`
	CreatedAt    time.Time        `json:"created_at"              db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"              db:"updated_at"`
}

// HasTarget reports whether a target price is configured.
func (p *Product) HasTarget() bool {
	return p.TargetPrice != nil
}

// PriceReading is one normalized observation scraped from a product page.
// Readings are produced fresh each cycle and never mutated afterwards.
type PriceReading struct {
	ProductName  string          `json:"product_name"`
	Price        decimal.Decimal `json:"price"`
	Availability Availability    `json:"availability"`
	Currency     string          `json:"currency"`
	CapturedAt   time.Time       `json:"captured_at"`
}

// PricePoint is a persisted price history row for a product.
type PricePoint struct {
	ID           string          `json:"id"           db:"id"`
	ProductID    string          `json:"product_id"   db:"product_id"`
	Price        decimal.Decimal `json:"price"        db:"price"`
	Availability Availability    `json:"availability" db:"availability"`
	Currency     string          `json:"currency"     db:"currency"`
	RecordedAt   time.Time       `json:"recorded_at"  db:"recorded_at"`
}

// AlertKind identifies why an alert fired.
type AlertKind string

// Alert kind constants.
const (
	AlertTargetReached AlertKind = "TARGET_REACHED"
	AlertPriceDrop     AlertKind = "PRICE_DROP"
)

// AlertEvent is the evaluator's output: a notification that should be
// delivered for a product. It carries both prices so the percentage
// computation can be reconstructed deterministically.
type AlertEvent struct {
	ProductID     string           `json:"product_id"`
	Kind          AlertKind        `json:"kind"`
	TriggerPrice  decimal.Decimal  `json:"trigger_price"`
	PreviousPrice *decimal.Decimal `json:"previous_price,omitempty"`
	PercentChange *float64         `json:"percent_change,omitempty"`
	Email         string           `json:"email"`
}

// Alert is a persisted alert record. The notified flag is the durable
// at-most-once bookkeeping: an alert is marked notified only after the
// sink accepts it, so delivery survives process restarts without
// duplication.
type Alert struct {
	ID            string           `json:"id"                       db:"id"`
	ProductID     string           `json:"product_id"               db:"product_id"`
	Kind          AlertKind        `json:"kind"                     db:"kind"`
	TriggerPrice  decimal.Decimal  `json:"trigger_price"            db:"trigger_price"`
	PreviousPrice *decimal.Decimal `json:"previous_price,omitempty" db:"previous_price"`
	PercentChange *float64         `json:"percent_change,omitempty" db:"percent_change"`
	Email         string           `json:"email"                    db:"email"`
	Notified      bool             `json:"notified"                 db:"notified"`
	NotifiedAt    *time.Time       `json:"notified_at,omitempty"    db:"notified_at"`
	TriggeredAt   time.Time        `json:"triggered_at"             db:"triggered_at"`
}

// PriceAnalytics summarizes a product's price history over a window.
type PriceAnalytics struct {
	ProductID   string           `json:"product_id"`
	WindowDays  int              `json:"window_days"`
	MinPrice    *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice    *decimal.Decimal `json:"max_price,omitempty"`
	AvgPrice    *decimal.Decimal `json:"avg_price,omitempty"`
	RecordCount int              `json:"record_count"`
}

// JobRun records a single execution of a scheduled scrape batch.
type JobRun struct {
	ID           string     `json:"id"                      db:"id"`
	JobName      string     `json:"job_name"                db:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string     `json:"status"                  db:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected *int       `json:"rows_affected,omitempty" db:"rows_affected"`
}
