package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/currensee/currency_converter_app/internal/apperrors"
	"github.com/currensee/currency_converter_app/internal/core/domain"
	portsprov "github.com/currensee/currency_converter_app/internal/core/ports/providers"
	portsrepo "github.com/currensee/currency_converter_app/internal/core/ports/repositories"
	portssvc "github.com/currensee/currency_converter_app/internal/core/ports/services"
	"github.com/currensee/currency_converter_app/internal/dto"
	"github.com/shopspring/decimal"
)

// recentConversionsLimit caps the "recent history" listing.
const recentConversionsLimit = 10

// directHistoryThreshold is the record count above which the inverse
// direction is not consulted when assembling pair history.
const directHistoryThreshold = 7

// ConversionService is the conversion gateway: it orchestrates the two rate
// providers, applies the fiat endpoint-fallback policy, owns the currency
// directory cache and appends accepted conversions to the history.
type ConversionService struct {
	BaseService
	conversionRepo portsrepo.ConversionRepositoryFacade
	fiatProvider   portsprov.FiatRateProvider
	cryptoProvider portsprov.CryptoRateProvider
	directory      *CurrencyDirectory
	now            func() time.Time
}

// ConversionServiceOption is a functional option for configuring the
// conversion service.
type ConversionServiceOption func(*ConversionService)

// WithConversionClock overrides the clock used to timestamp conversions.
func WithConversionClock(now func() time.Time) ConversionServiceOption {
	return func(s *ConversionService) {
		s.now = now
	}
}

// NewConversionService creates a new ConversionService.
func NewConversionService(
	conversionRepo portsrepo.ConversionRepositoryFacade,
	fiatProvider portsprov.FiatRateProvider,
	cryptoProvider portsprov.CryptoRateProvider,
	options ...ConversionServiceOption,
) *ConversionService {
	svc := &ConversionService{
		conversionRepo: conversionRepo,
		fiatProvider:   fiatProvider,
		cryptoProvider: cryptoProvider,
		directory:      NewCurrencyDirectory(),
		now:            time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// ListCurrencies returns every currency the fiat provider supports, sorted by
// display name. The upstream code list is fetched once and cached for the
// process lifetime.
func (s *ConversionService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.directory.Currencies(ctx, s.fiatProvider)
	if err != nil {
		s.LogError(ctx, err, "Failed to populate currency directory")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

// ConvertFiat converts between two fiat currencies via the pair endpoint,
// falling back to the latest-rates table when the pair endpoint fails for any
// reason. The accepted conversion is appended to the history.
func (s *ConversionService) ConvertFiat(ctx context.Context, req dto.ConvertFiatRequest) (*dto.ConversionResponse, error) {
	source := strings.ToUpper(req.SourceCode)
	target := strings.ToUpper(req.TargetCode)
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	amount := req.Amount.InexactFloat64()

	var rate decimal.Decimal
	var result decimal.Decimal

	quote, err := s.fiatProvider.GetPairRate(ctx, source, target, amount)
	if err == nil {
		rate = decimal.NewFromFloat(quote.Rate)
		if quote.ConversionResult != nil {
			result = decimal.NewFromFloat(*quote.ConversionResult)
		} else {
			// Zero-amount requests omit the magnitude; derive it locally.
			result = req.Amount.Mul(rate)
		}
	} else {
		s.LogWarn(ctx, "Pair endpoint failed, falling back to latest rates",
			slog.String("source", source),
			slog.String("target", target),
			slog.String("error", err.Error()),
		)
		rates, fbErr := s.fiatProvider.GetLatestRates(ctx, source)
		if fbErr != nil {
			s.LogError(ctx, fbErr, "Fallback latest-rates endpoint failed",
				slog.String("source", source))
			return nil, fmt.Errorf("fiat conversion failed: %w", fbErr)
		}
		tableRate, ok := rates[target]
		if !ok {
			return nil, fmt.Errorf("%w: rate for %s missing from latest-rates table", apperrors.ErrSchemaMismatch, target)
		}
		rate = decimal.NewFromFloat(tableRate)
		result = req.Amount.Mul(rate)
	}

	// Persisted rates must be positive; a zero or negative quote is a broken
	// provider response, not a conversion.
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive rate %s for %s/%s", apperrors.ErrSchemaMismatch, rate, source, target)
	}

	conversion := domain.Conversion{
		SourceCode:   source,
		TargetCode:   target,
		SourceAmount: req.Amount,
		TargetAmount: result,
		Rate:         rate,
		ConvertedAt:  s.now(),
		Kind:         domain.KindFiat,
	}
	if err := s.conversionRepo.SaveConversion(ctx, conversion); err != nil {
		s.LogError(ctx, err, "Failed to record fiat conversion",
			slog.String("source", source), slog.String("target", target))
		return nil, fmt.Errorf("failed to record conversion: %w", err)
	}

	s.LogInfo(ctx, "Fiat conversion completed",
		slog.String("source", source),
		slog.String("target", target),
		slog.String("rate", rate.String()),
	)
	resp := dto.ToConversionResponse(&conversion)
	return &resp, nil
}

// ConvertCrypto converts a cryptocurrency amount into a fiat currency. There
// is no fallback path; provider errors propagate unchanged and nothing is
// recorded on failure.
func (s *ConversionService) ConvertCrypto(ctx context.Context, req dto.ConvertCryptoRequest) (*dto.ConversionResponse, error) {
	symbol := strings.ToUpper(req.CryptoSymbol)
	fiat := strings.ToUpper(req.FiatSymbol)
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	price, err := s.cryptoProvider.GetQuote(ctx, symbol, fiat)
	if err != nil {
		s.LogError(ctx, err, "Crypto quote failed",
			slog.String("symbol", symbol), slog.String("fiat", fiat))
		return nil, fmt.Errorf("crypto conversion failed: %w", err)
	}

	rate := decimal.NewFromFloat(price)
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive price %s for %s/%s", apperrors.ErrSchemaMismatch, rate, symbol, fiat)
	}
	result := req.Amount.Mul(rate)

	conversion := domain.Conversion{
		SourceCode:   symbol,
		TargetCode:   fiat,
		SourceAmount: req.Amount,
		TargetAmount: result,
		Rate:         rate,
		ConvertedAt:  s.now(),
		Kind:         domain.KindCrypto,
	}
	if err := s.conversionRepo.SaveConversion(ctx, conversion); err != nil {
		s.LogError(ctx, err, "Failed to record crypto conversion",
			slog.String("symbol", symbol), slog.String("fiat", fiat))
		return nil, fmt.Errorf("failed to record conversion: %w", err)
	}

	s.LogInfo(ctx, "Crypto conversion completed",
		slog.String("symbol", symbol),
		slog.String("fiat", fiat),
		slog.String("rate", rate.String()),
	)
	resp := dto.ToConversionResponse(&conversion)
	return &resp, nil
}

// ListRecentConversions returns the ten most recent conversions.
func (s *ConversionService) ListRecentConversions(ctx context.Context) ([]domain.Conversion, error) {
	conversions, err := s.conversionRepo.ListRecent(ctx, recentConversionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent conversions: %w", err)
	}
	return conversions, nil
}

// ListConversionsByKind returns all conversions of one kind, newest first.
func (s *ConversionService) ListConversionsByKind(ctx context.Context, kind domain.ConversionKind) ([]domain.Conversion, error) {
	if kind != domain.KindFiat && kind != domain.KindCrypto {
		return nil, fmt.Errorf("%w: unknown conversion kind %q", apperrors.ErrValidation, kind)
	}
	conversions, err := s.conversionRepo.FindByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions by kind: %w", err)
	}
	return conversions, nil
}

// ListAllConversions returns the full conversion history.
func (s *ConversionService) ListAllConversions(ctx context.Context) ([]domain.Conversion, error) {
	conversions, err := s.conversionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	return conversions, nil
}

// ListConversionsForPair returns the history for a directed pair, newest
// first. When fewer direct records exist than the threshold, records from the
// opposite direction are inverted and merged in.
func (s *ConversionService) ListConversionsForPair(ctx context.Context, sourceCode, targetCode string) ([]domain.Conversion, error) {
	source := strings.ToUpper(sourceCode)
	target := strings.ToUpper(targetCode)

	direct, err := s.conversionRepo.FindByDirection(ctx, source, target)
	if err != nil {
		return nil, fmt.Errorf("failed to query pair history: %w", err)
	}
	if len(direct) >= directHistoryThreshold {
		return direct, nil
	}

	inverse, err := s.conversionRepo.FindByDirection(ctx, target, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query inverse pair history: %w", err)
	}

	merged := make([]domain.Conversion, 0, len(direct)+len(inverse))
	merged = append(merged, direct...)
	for _, conv := range inverse {
		merged = append(merged, conv.Inverted())
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ConvertedAt.After(merged[j].ConvertedAt)
	})
	return merged, nil
}

// Ensure ConversionService implements the converter facade
var _ portssvc.ConverterSvcFacade = (*ConversionService)(nil)
