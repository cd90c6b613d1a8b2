package domain

import (
	"errors"
	"fmt"
)

// ScrapeErrorKind classifies why a scrape failed.
type ScrapeErrorKind string

// Scrape error kinds.
const (
	// ErrKindUnsupportedSite means no registered strategy matches the URL.
	// Permanent until a new strategy is registered.
	ErrKindUnsupportedSite ScrapeErrorKind = "unsupported_site"

	// ErrKindFetchFailed means the page could not be retrieved. Transient.
	ErrKindFetchFailed ScrapeErrorKind = "fetch_failed"

	// ErrKindPriceNotFound means every price selector on the page failed to
	// yield a positive price. Likely recurring until selectors are updated.
	ErrKindPriceNotFound ScrapeErrorKind = "price_not_found"

	// ErrKindParse means the page body could not be parsed as a document.
	ErrKindParse ScrapeErrorKind = "parse_error"
)

// ScrapeError is the typed failure for one scrape attempt. It always
// carries the offending URL; strategies and the fetcher never propagate
// an unstructured error.
type ScrapeError struct {
	Kind ScrapeErrorKind
	URL  string
	Err  error
}

// NewScrapeError builds a ScrapeError wrapping an optional cause.
func NewScrapeError(kind ScrapeErrorKind, url string, err error) *ScrapeError {
	return &ScrapeError{Kind: kind, URL: url, Err: err}
}

// Error implements the error interface.
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.URL)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// AsScrapeError extracts a ScrapeError from an error chain.
func AsScrapeError(err error) (*ScrapeError, bool) {
	var se *ScrapeError
	ok := errors.As(err, &se)
	return se, ok
}

// ScrapeOutcome is the tagged per-item result of one scrape cycle:
// either a reading or a typed failure, never both.
type ScrapeOutcome struct {
	ProductID string        `json:"product_id"`
	URL       string        `json:"url"`
	Reading   *PriceReading `json:"reading,omitempty"`
	Err       *ScrapeError  `json:"-"`
}

// Success reports whether the outcome carries a reading.
func (o *ScrapeOutcome) Success() bool {
	return o.Err == nil && o.Reading != nil
}

// BatchResult aggregates the outcomes of one scheduled batch run.
// Every item submitted to the batch appears exactly once.
type BatchResult struct {
	Outcomes  []ScrapeOutcome `json:"outcomes"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}
