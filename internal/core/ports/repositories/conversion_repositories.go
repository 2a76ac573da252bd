package repositories

import (
	"context"

	"github.com/currensee/currency_converter_app/internal/core/domain"
)

// ConversionReader defines read operations over the conversion history.
type ConversionReader interface {
	// FindByDirection retrieves all conversions with the exact source/target
	// direction, newest first.
	FindByDirection(ctx context.Context, sourceCode, targetCode string) ([]domain.Conversion, error)

	// FindByKind retrieves all conversions of the given kind, newest first.
	FindByKind(ctx context.Context, kind domain.ConversionKind) ([]domain.Conversion, error)

	// CountByKind counts conversions of the given kind.
	CountByKind(ctx context.Context, kind domain.ConversionKind) (int64, error)

	// ListRecent retrieves the most recent conversions, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Conversion, error)

	// ListAll retrieves the full conversion history.
	ListAll(ctx context.Context) ([]domain.Conversion, error)
}

// ConversionWriter defines write operations over the conversion history.
type ConversionWriter interface {
	// SaveConversion persists a new conversion record.
	SaveConversion(ctx context.Context, conversion domain.Conversion) error
}

// ConversionRepositoryFacade combines all conversion-history repository
// interfaces for clients that need full access.
type ConversionRepositoryFacade interface {
	ConversionReader
	ConversionWriter
}
