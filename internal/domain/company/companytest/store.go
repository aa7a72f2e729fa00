// Package companytest provides an in-memory company.Repository for tests.
package companytest

import (
	"context"
	"sync"
	"time"

	"github.com/labdan/Dashboard-sub000/internal/domain/company"
)

// Store is a map-backed company.Repository that counts calls
type Store struct {
	mu      sync.Mutex
	records map[string]company.Record

	Gets    int
	Creates int
	Updates int

	// Optional hooks, run before the default behavior. A non-nil error is returned as is.
	GetErr    func(ticker string) error
	CreateErr func(ticker string) error
	UpdateErr func(ticker string) error
}

// NewStore creates an empty store seeded with recs
func NewStore(recs ...company.Record) *Store {
	s := &Store{records: make(map[string]company.Record)}
	for _, r := range recs {
		s.records[r.Ticker] = r
	}
	return s
}

// Snapshot returns a copy of the stored record
func (s *Store) Snapshot(ticker string) (company.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[ticker]
	return r, ok
}

// Len returns the number of stored records
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Calls returns the total number of repository calls
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Gets + s.Creates + s.Updates
}

func (s *Store) Get(_ context.Context, ticker string) (*company.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets++
	if s.GetErr != nil {
		if err := s.GetErr(ticker); err != nil {
			return nil, err
		}
	}
	r, ok := s.records[ticker]
	if !ok {
		return nil, company.ErrNotFound
	}
	return &r, nil
}

func (s *Store) Create(_ context.Context, ticker, initialName string) (*company.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Creates++
	if s.CreateErr != nil {
		if err := s.CreateErr(ticker); err != nil {
			return nil, err
		}
	}
	if _, ok := s.records[ticker]; ok {
		return nil, company.ErrDuplicateKey
	}
	now := time.Now()
	r := company.Record{Ticker: ticker, Name: company.StringPtr(initialName), CreatedAt: now, UpdatedAt: now}
	s.records[ticker] = r
	return &r, nil
}

func (s *Store) Update(_ context.Context, ticker string, p company.Patch) (*company.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updates++
	if s.UpdateErr != nil {
		if err := s.UpdateErr(ticker); err != nil {
			return nil, err
		}
	}
	cur, ok := s.records[ticker]
	if !ok {
		return nil, company.ErrNotFound
	}
	merged, changed := company.Merge(cur, p)
	if changed {
		merged.UpdatedAt = time.Now()
		s.records[ticker] = merged
	}
	return &merged, nil
}
