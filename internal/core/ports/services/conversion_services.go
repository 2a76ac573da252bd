package services

import (
	"context"

	"github.com/currensee/currency_converter_app/internal/core/domain"
	"github.com/currensee/currency_converter_app/internal/dto"
)

// CurrencyReaderSvc exposes the currency directory.
type CurrencyReaderSvc interface {
	// ListCurrencies returns every currency known to the fiat provider,
	// sorted by display name (case-insensitive), ties broken by code.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ConverterSvc performs conversions and records them in the history.
type ConverterSvc interface {
	// ConvertFiat converts between two fiat currencies.
	ConvertFiat(ctx context.Context, req dto.ConvertFiatRequest) (*dto.ConversionResponse, error)

	// ConvertCrypto converts a cryptocurrency amount into a fiat currency.
	ConvertCrypto(ctx context.Context, req dto.ConvertCryptoRequest) (*dto.ConversionResponse, error)
}

// HistoryReaderSvc exposes read access to the persisted conversion history.
type HistoryReaderSvc interface {
	// ListRecentConversions returns the ten most recent conversions.
	ListRecentConversions(ctx context.Context) ([]domain.Conversion, error)

	// ListConversionsByKind returns all conversions of one kind, newest first.
	ListConversionsByKind(ctx context.Context, kind domain.ConversionKind) ([]domain.Conversion, error)

	// ListAllConversions returns the full history.
	ListAllConversions(ctx context.Context) ([]domain.Conversion, error)

	// ListConversionsForPair returns the merged direct plus direction-inverted
	// history for a pair, newest first.
	ListConversionsForPair(ctx context.Context, sourceCode, targetCode string) ([]domain.Conversion, error)
}

// ConverterSvcFacade combines the conversion-facing service interfaces.
type ConverterSvcFacade interface {
	CurrencyReaderSvc
	ConverterSvc
	HistoryReaderSvc
}

// ChartSvcFacade builds chart payloads from the conversion history.
type ChartSvcFacade interface {
	// SeriesForPair returns a 7-point chronological rate series for a pair,
	// synthesizing points when real history is sparse.
	SeriesForPair(ctx context.Context, sourceCode, targetCode string) (*dto.RateSeriesResponse, error)

	// DistributionByCurrency returns the ten most converted source currencies.
	DistributionByCurrency(ctx context.Context) (*dto.DistributionResponse, error)

	// DistributionByKind returns conversion counts per kind.
	DistributionByKind(ctx context.Context) (*dto.DistributionResponse, error)
}
