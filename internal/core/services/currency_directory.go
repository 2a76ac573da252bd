package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/currensee/currency_converter_app/internal/core/domain"
	portsprov "github.com/currensee/currency_converter_app/internal/core/ports/providers"
)

// CurrencyDirectory is a process-wide, load-once cache of the currencies the
// fiat provider supports. It is populated on first use and never refreshed;
// a failed load leaves it empty so the next call retries. The mutex doubles
// as a single-flight guard so concurrent first callers trigger exactly one
// upstream call.
type CurrencyDirectory struct {
	mu         sync.Mutex
	currencies []domain.Currency
	loaded     bool
}

// NewCurrencyDirectory creates an empty directory.
func NewCurrencyDirectory() *CurrencyDirectory {
	return &CurrencyDirectory{}
}

// Currencies returns every known currency sorted by display name
// (case-insensitive), ties broken by code. The provider is only consulted
// until the first successful load.
func (d *CurrencyDirectory) Currencies(ctx context.Context, provider portsprov.FiatRateProvider) ([]domain.Currency, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		currencies, err := provider.GetCodes(ctx)
		if err != nil {
			return nil, err
		}
		sort.Slice(currencies, func(i, j int) bool {
			ni := strings.ToLower(currencies[i].Name)
			nj := strings.ToLower(currencies[j].Name)
			if ni != nj {
				return ni < nj
			}
			return currencies[i].CurrencyCode < currencies[j].CurrencyCode
		})
		d.currencies = currencies
		d.loaded = true
	}

	// Hand out a copy so callers cannot mutate the cache.
	out := make([]domain.Currency, len(d.currencies))
	copy(out, d.currencies)
	return out, nil
}
