package pgsql

import (
	"context"
	"fmt"

	"github.com/currensee/currency_converter_app/internal/core/domain"
	portsrepo "github.com/currensee/currency_converter_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConversionRepository implements the ports.ConversionRepositoryFacade
// interface using pgxpool.
type PgxConversionRepository struct {
	db *pgxpool.Pool
}

// NewConversionRepository creates a new PgxConversionRepository.
func NewConversionRepository(db *pgxpool.Pool) *PgxConversionRepository {
	return &PgxConversionRepository{db: db}
}

const conversionColumns = `
	conversion_id, source_code, target_code, source_amount, target_amount,
	rate, converted_at, kind
`

// SaveConversion inserts a new conversion into the history. The identifier is
// assigned here; callers pass records without one.
func (r *PgxConversionRepository) SaveConversion(ctx context.Context, conversion domain.Conversion) error {
	if conversion.ConversionID == "" {
		conversion.ConversionID = uuid.NewString()
	}
	query := `
		INSERT INTO conversions (
			conversion_id, source_code, target_code, source_amount, target_amount,
			rate, converted_at, kind
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		conversion.ConversionID, conversion.SourceCode, conversion.TargetCode,
		conversion.SourceAmount, conversion.TargetAmount,
		conversion.Rate, conversion.ConvertedAt, conversion.Kind,
	)
	if err != nil {
		return fmt.Errorf("error inserting conversion: %w", err)
	}
	return nil
}

// FindByDirection retrieves all conversions with the exact source/target
// direction, newest first.
func (r *PgxConversionRepository) FindByDirection(ctx context.Context, sourceCode, targetCode string) ([]domain.Conversion, error) {
	query := `
		SELECT ` + conversionColumns + `
		FROM conversions
		WHERE source_code = $1 AND target_code = $2
		ORDER BY converted_at DESC
	`
	rows, err := r.db.Query(ctx, query, sourceCode, targetCode)
	if err != nil {
		return nil, fmt.Errorf("error querying conversions by direction: %w", err)
	}
	defer rows.Close()
	return scanConversions(rows)
}

// FindByKind retrieves all conversions of the given kind, newest first.
func (r *PgxConversionRepository) FindByKind(ctx context.Context, kind domain.ConversionKind) ([]domain.Conversion, error) {
	query := `
		SELECT ` + conversionColumns + `
		FROM conversions
		WHERE kind = $1
		ORDER BY converted_at DESC
	`
	rows, err := r.db.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("error querying conversions by kind: %w", err)
	}
	defer rows.Close()
	return scanConversions(rows)
}

// CountByKind counts conversions of the given kind.
func (r *PgxConversionRepository) CountByKind(ctx context.Context, kind domain.ConversionKind) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM conversions WHERE kind = $1`, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting conversions by kind: %w", err)
	}
	return count, nil
}

// ListRecent retrieves the most recent conversions, newest first.
func (r *PgxConversionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Conversion, error) {
	query := `
		SELECT ` + conversionColumns + `
		FROM conversions
		ORDER BY converted_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent conversions: %w", err)
	}
	defer rows.Close()
	return scanConversions(rows)
}

// ListAll retrieves the full conversion history, newest first.
func (r *PgxConversionRepository) ListAll(ctx context.Context) ([]domain.Conversion, error) {
	query := `
		SELECT ` + conversionColumns + `
		FROM conversions
		ORDER BY converted_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying all conversions: %w", err)
	}
	defer rows.Close()
	return scanConversions(rows)
}

func scanConversions(rows pgx.Rows) ([]domain.Conversion, error) {
	conversions := []domain.Conversion{}
	for rows.Next() {
		var c domain.Conversion
		err := rows.Scan(
			&c.ConversionID, &c.SourceCode, &c.TargetCode, &c.SourceAmount, &c.TargetAmount,
			&c.Rate, &c.ConvertedAt, &c.Kind,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversion row: %w", err)
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversion rows: %w", err)
	}
	return conversions, nil
}

// Ensure PgxConversionRepository implements the repository facade
var _ portsrepo.ConversionRepositoryFacade = (*PgxConversionRepository)(nil)
