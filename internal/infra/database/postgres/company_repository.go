package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/rs/zerolog/log"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// CompanyRepository implements company.Repository on company_details
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

const selectCompanyColumns = `ticker, name, COALESCE(logo_url, ''), created_at, updated_at`

// Get retrieves a record by ticker
func (r *CompanyRepository) Get(ctx context.Context, ticker string) (*company.Record, error) {
	query := `SELECT ` + selectCompanyColumns + ` FROM company_details WHERE ticker = $1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, ticker))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrNotFound
		}
		return nil, fmt.Errorf("query company %s: %w", ticker, err)
	}

	return rec, nil
}

// Create inserts a new record with an empty logo
func (r *CompanyRepository) Create(ctx context.Context, ticker, initialName string) (*company.Record, error) {
	query := `
		INSERT INTO company_details (ticker, name, logo_url, created_at, updated_at)
		VALUES ($1, $2, '', NOW(), NOW())
		RETURNING ` + selectCompanyColumns

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, ticker, company.StringPtr(initialName)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, company.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert company %s: %w", ticker, err)
	}

	log.Debug().Str("ticker", ticker).Msg("Company record created")
	return rec, nil
}

// Update applies an upgrade-only patch.
// The row is locked for the read-compare-write so a concurrent writer's
// non-empty value is seen before this one decides what to persist.
func (r *CompanyRepository) Update(ctx context.Context, ticker string, p company.Patch) (*company.Record, error) {
	if p.IsEmpty() {
		return r.Get(ctx, ticker)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + selectCompanyColumns + ` FROM company_details WHERE ticker = $1 FOR UPDATE`
	current, err := scanRecord(tx.QueryRow(ctx, query, ticker))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrNotFound
		}
		return nil, fmt.Errorf("lock company %s: %w", ticker, err)
	}

	merged, changed := company.Merge(*current, p)
	if !changed {
		return current, nil
	}

	updateQuery := `
		UPDATE company_details
		SET name = $2, logo_url = $3, updated_at = NOW()
		WHERE ticker = $1
		RETURNING ` + selectCompanyColumns

	updated, err := scanRecord(tx.QueryRow(ctx, updateQuery, ticker, merged.Name, merged.LogoURL))
	if err != nil {
		return nil, fmt.Errorf("update company %s: %w", ticker, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	log.Debug().
		Str("ticker", ticker).
		Str("name", updated.DisplayName()).
		Str("logo_url", updated.LogoURL).
		Msg("Company record upgraded")

	return updated, nil
}

func scanRecord(row pgx.Row) (*company.Record, error) {
	var rec company.Record
	if err := row.Scan(&rec.Ticker, &rec.Name, &rec.LogoURL, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
