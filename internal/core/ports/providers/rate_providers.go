package providers

import (
	"context"

	"github.com/currensee/currency_converter_app/internal/core/domain"
)

// PairQuote is a normalized quote for one currency pair as reported by the
// fiat provider. ConversionResult is nil when the provider omitted the
// converted magnitude (it does so for zero amounts).
type PairQuote struct {
	Rate             float64
	ConversionResult *float64
}

// FiatRateProvider is the narrow interface over the fiat exchange-rate
// upstream. Implementations only translate wire schemas; retry and fallback
// policy lives in the conversion service.
type FiatRateProvider interface {
	// GetCodes retrieves the full list of supported currencies.
	GetCodes(ctx context.Context) ([]domain.Currency, error)

	// GetPairRate quotes a single pair via the provider's pair endpoint.
	// amount is forwarded to the provider when positive so the provider
	// computes the converted magnitude itself.
	GetPairRate(ctx context.Context, baseCode, targetCode string, amount float64) (*PairQuote, error)

	// GetLatestRates retrieves the bulk rate table quoted against baseCode.
	GetLatestRates(ctx context.Context, baseCode string) (map[string]float64, error)
}

// CryptoRateProvider is the narrow interface over the cryptocurrency quote
// upstream.
type CryptoRateProvider interface {
	// GetQuote returns the price of one unit of cryptoSymbol in fiatSymbol.
	GetQuote(ctx context.Context, cryptoSymbol, fiatSymbol string) (float64, error)
}
