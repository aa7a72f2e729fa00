package postgres

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// companyDetailsDDL creates the table and brings an existing dashboard table
// (ticker, name, logo_url only) up to the columns the repository reads.
var companyDetailsDDL = []string{
	`CREATE TABLE IF NOT EXISTS company_details (
		ticker     TEXT PRIMARY KEY,
		name       TEXT NULL,
		logo_url   TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE company_details ADD COLUMN IF NOT EXISTS created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()`,
	`ALTER TABLE company_details ADD COLUMN IF NOT EXISTS updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()`,
}

// EnsureSchema creates the tables this service owns if they are missing
func (p *Pool) EnsureSchema(ctx context.Context) error {
	for _, stmt := range companyDetailsDDL {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure company_details: %w", err)
		}
	}

	log.Info().Str("table", "company_details").Msg("✅ Schema ready")
	return nil
}
