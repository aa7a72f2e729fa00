package company

import (
	"strings"
	"time"
	"unicode"
)

// TickerDelimiter separates the base symbol from a market qualifier (AAPL_US)
const TickerDelimiter = "_"

// MaxTickerLength bounds accepted tickers
const MaxTickerLength = 32

// Record represents cached metadata for one tradable instrument
// Maps to the company_details table
type Record struct {
	Ticker    string    `json:"ticker" db:"ticker"`     // primary key, may carry a market suffix
	Name      *string   `json:"name" db:"name"`         // display name, nullable
	LogoURL   string    `json:"logo_url" db:"logo_url"` // empty = not resolved yet
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Patch is a partial update. Nil fields are not provided.
type Patch struct {
	Name    *string
	LogoURL *string
}

// IsEmpty reports whether the patch proposes nothing
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.LogoURL == nil
}

// DisplayName returns the name or ""
func (r *Record) DisplayName() string {
	if r == nil || r.Name == nil {
		return ""
	}
	return *r.Name
}

// IsComplete reports whether the record has both a name and a logo.
// Complete records are served without any external lookup.
func (r *Record) IsComplete() bool {
	return r != nil && r.DisplayName() != "" && r.LogoURL != ""
}

// BaseSymbol returns the ticker without its market qualifier
func (r *Record) BaseSymbol() string {
	return BaseSymbol(r.Ticker)
}

// BaseSymbol strips everything from the first delimiter on
func BaseSymbol(ticker string) string {
	if i := strings.Index(ticker, TickerDelimiter); i >= 0 {
		return ticker[:i]
	}
	return ticker
}

// ValidateTicker checks ticker format: non-empty, no inner whitespace, bounded length
func ValidateTicker(ticker string) bool {
	if ticker == "" || len(ticker) > MaxTickerLength {
		return false
	}
	for _, c := range ticker {
		if unicode.IsSpace(c) || unicode.IsControl(c) {
			return false
		}
	}
	return true
}

// Slug lowercases name, collapses every run of non-alphanumeric characters
// into a single hyphen and trims hyphens at both ends.
// "Alphabet Inc. (Class A)" -> "alphabet-inc-class-a"
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(c)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// Merge applies p to current with upgrade-only semantics: a proposed value is
// written only when it is non-empty and differs from the stored one, so a
// stored field never goes from non-empty back to empty.
// The second return value reports whether anything changed.
func Merge(current Record, p Patch) (Record, bool) {
	changed := false

	if p.Name != nil {
		if name := strings.TrimSpace(*p.Name); name != "" && name != current.DisplayName() {
			current.Name = &name
			changed = true
		}
	}

	if p.LogoURL != nil {
		if logo := strings.TrimSpace(*p.LogoURL); logo != "" && logo != current.LogoURL {
			current.LogoURL = logo
			changed = true
		}
	}

	return current, changed
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
