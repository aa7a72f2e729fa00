package company

import "errors"

var (
	// Validation errors
	ErrBadRequest    = errors.New("missing required parameter")
	ErrInvalidTicker = errors.New("invalid ticker format")

	// Configuration errors
	ErrMisconfigured = errors.New("enrichment is not configured")

	// Store errors
	ErrNotFound     = errors.New("company record not found")
	ErrDuplicateKey = errors.New("company record already exists")

	// Resolution errors (recovered inside the chain, never returned to callers)
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
