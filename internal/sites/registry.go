package sites

import (
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// Registry holds the registered extraction strategies in a fixed order.
// Dispatch is first-match-wins over that order, so registration order is
// the tie-break when two strategies could both match a URL and must be
// stable across runs.
type Registry struct {
	strategies []Strategy
}

// NewRegistry creates a registry over the given strategies. Registering
// zero strategies is legal; such a registry reports nothing supported.
func NewRegistry(strategies ...Strategy) *Registry {
	return &Registry{strategies: strategies}
}

// DefaultRegistry returns the registry with every built-in strategy, in
// the order the process registers them at startup.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewAmazon(),
		NewFlipkart(),
	)
}

// Dispatch returns the first registered strategy that supports the URL,
// or an unsupported-site error. For a fixed registration order this is a
// pure function of the URL.
func (r *Registry) Dispatch(url string) (Strategy, error) {
	for _, s := range r.strategies {
		if s.Supports(url) {
			return s, nil
		}
	}
	return nil, domain.NewScrapeError(domain.ErrKindUnsupportedSite, url, nil)
}

// IsSupported reports whether any registered strategy supports the URL.
func (r *Registry) IsSupported(url string) bool {
	_, err := r.Dispatch(url)
	return err == nil
}

// SiteNameFor returns the matched strategy's site name, or "Unknown" when
// no strategy supports the URL.
func (r *Registry) SiteNameFor(url string) string {
	s, err := r.Dispatch(url)
	if err != nil {
		return "Unknown"
	}
	return s.SiteName()
}

// SiteNames lists the registered site names in registration order.
// Duplicate names are listed as registered; dispatch only ever reaches
// the first.
func (r *Registry) SiteNames() []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.SiteName())
	}
	return names
}
