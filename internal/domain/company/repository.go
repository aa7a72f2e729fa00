package company

import "context"

// Repository is the Cache Store for company_details.
// Implementations own persistence; callers only propose patches.
type Repository interface {
	// Get returns the record for ticker, or ErrNotFound
	Get(ctx context.Context, ticker string) (*Record, error)

	// Create inserts a record with an empty logo.
	// Returns ErrDuplicateKey when the ticker already exists.
	Create(ctx context.Context, ticker, initialName string) (*Record, error)

	// Update applies p with upgrade-only semantics (see Merge) atomically
	// with respect to the stored row. Returns ErrNotFound for unknown tickers.
	Update(ctx context.Context, ticker string, p Patch) (*Record, error)
}
