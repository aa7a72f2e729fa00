package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/labdan/Dashboard-sub000/internal/infra/external/logo"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Config is injected at construction; tiers never read the environment
type Config struct {
	TierTimeout    time.Duration
	RequestTimeout time.Duration
	BatchLimit     int
	BatchMaxItems  int
	Templates      logo.Templates
}

// Request is one enrichment call
type Request struct {
	Ticker     string `json:"ticker"`
	HintedName string `json:"instrumentName"`
	Market     string `json:"market,omitempty"`
}

// Result is what the dashboard receives. An empty LogoURL is a valid outcome.
type Result struct {
	Ticker  string `json:"ticker"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
	Source  string `json:"source,omitempty"`
}

// BatchItem is one entry of a batch response
type BatchItem struct {
	Result
	Error string `json:"error,omitempty"`
}

// Service ties the Cache Store and the resolver chain together.
// It is the only writer of company_details.
type Service struct {
	repo     company.Repository
	provider Provider
	chain    *Chain
	cfg      Config

	// coalesces concurrent enrichments of one ticker within this process
	sf singleflight.Group
}

// NewService wires the default chain: slug CDN, icon repository, provider
func NewService(repo company.Repository, prober logo.Prober, provider Provider, cfg Config) *Service {
	chain := NewChain(cfg.TierTimeout,
		SlugCDNTier(prober, cfg.Templates),
		IconRepoTier(prober, cfg.Templates),
		ProviderTier(provider),
	)
	return NewServiceWithChain(repo, provider, chain, cfg)
}

// NewServiceWithChain allows a custom chain
func NewServiceWithChain(repo company.Repository, provider Provider, chain *Chain, cfg Config) *Service {
	if cfg.BatchLimit < 1 {
		cfg.BatchLimit = 1
	}
	if cfg.BatchMaxItems < 1 {
		cfg.BatchMaxItems = 50
	}
	return &Service{
		repo:     repo,
		provider: provider,
		chain:    chain,
		cfg:      cfg,
	}
}

// Normalize trims the request and checks mandatory fields
func (r *Request) Normalize() error {
	r.Ticker = strings.TrimSpace(r.Ticker)
	r.HintedName = strings.TrimSpace(r.HintedName)
	r.Market = strings.TrimSpace(r.Market)

	if r.Ticker == "" {
		return fmt.Errorf("%w: ticker", company.ErrBadRequest)
	}
	if r.HintedName == "" {
		return fmt.Errorf("%w: instrumentName", company.ErrBadRequest)
	}
	if !company.ValidateTicker(r.Ticker) {
		return fmt.Errorf("%w: %q", company.ErrInvalidTicker, r.Ticker)
	}
	return nil
}

// Configured reports whether required collaborators are present
func (s *Service) Configured() error {
	if err := s.storeConfigured(); err != nil {
		return err
	}
	return s.providerConfigured()
}

func (s *Service) storeConfigured() error {
	if s.repo == nil {
		return fmt.Errorf("%w: company store", company.ErrMisconfigured)
	}
	return nil
}

// providerConfigured is only consulted once resolution is needed;
// complete records are served without credentials.
func (s *Service) providerConfigured() error {
	if s.provider == nil || !s.provider.Configured() {
		return fmt.Errorf("%w: provider API key", company.ErrMisconfigured)
	}
	return nil
}

// Enrich returns the display name and logo for a ticker, resolving and
// persisting them on a cache miss. Complete cached records are returned
// without any network I/O.
func (s *Service) Enrich(ctx context.Context, req Request) (*Result, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if err := s.storeConfigured(); err != nil {
		return nil, err
	}

	// The shared call outlives any single caller; it is bounded by RequestTimeout.
	// Callers with a different market qualifier resolve separately.
	ch := s.sf.DoChan(flightKey(req), func() (any, error) {
		workCtx := context.WithoutCancel(ctx)
		if s.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			workCtx, cancel = context.WithTimeout(workCtx, s.cfg.RequestTimeout)
			defer cancel()
		}
		return s.enrich(workCtx, req)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res := *r.Val.(*Result)
		return &res, nil
	}
}

func (s *Service) enrich(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	rec, err := s.repo.Get(ctx, req.Ticker)
	switch {
	case err == nil && rec.IsComplete():
		log.Debug().Str("ticker", req.Ticker).Msg("Company cache hit")
		return resultFrom(rec, TierCache), nil
	case err != nil && !errors.Is(err, company.ErrNotFound):
		return nil, fmt.Errorf("get company %s: %w", req.Ticker, err)
	case err != nil:
		rec = nil
	}

	if err := s.providerConfigured(); err != nil {
		return nil, err
	}

	if rec == nil {
		if rec, err = s.create(ctx, req); err != nil {
			return nil, err
		}
		if rec.IsComplete() {
			return resultFrom(rec, TierCache), nil
		}
	}

	res := s.chain.Run(ctx, candidateFor(rec, req))

	final := &Result{
		Ticker:  req.Ticker,
		Name:    res.Name,
		LogoURL: res.LogoURL,
		Source:  res.Tier,
	}

	patch := company.Patch{
		Name:    company.StringPtr(res.Name),
		LogoURL: company.StringPtr(res.LogoURL),
	}
	if merged, changed := company.Merge(*rec, patch); changed {
		updated, err := s.repo.Update(ctx, req.Ticker, patch)
		switch {
		case err == nil:
			final.Name = updated.DisplayName()
			final.LogoURL = updated.LogoURL
		case errors.Is(err, company.ErrNotFound):
			// removed administratively while resolving; report what was found
			log.Warn().Str("ticker", req.Ticker).Msg("Company record vanished before update")
		default:
			// resolved data is still useful to the widget; the next call retries the write
			log.Error().Err(err).Str("ticker", req.Ticker).Msg("Failed to persist company details")
			final.Name = merged.DisplayName()
			final.LogoURL = merged.LogoURL
		}
	}

	log.Info().
		Str("ticker", req.Ticker).
		Str("tier", final.Source).
		Strs("tried", res.Tried).
		Bool("has_logo", final.LogoURL != "").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("Company enriched")

	return final, nil
}

// create inserts the record on first sight.
// A DuplicateKey means another request won the race; re-read.
func (s *Service) create(ctx context.Context, req Request) (*company.Record, error) {
	rec, err := s.repo.Create(ctx, req.Ticker, req.HintedName)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, company.ErrDuplicateKey) {
		return nil, fmt.Errorf("create company %s: %w", req.Ticker, err)
	}

	log.Debug().Str("ticker", req.Ticker).Msg("Lost create race, re-reading")
	rec, err = s.repo.Get(ctx, req.Ticker)
	if err != nil {
		return nil, fmt.Errorf("re-read company %s: %w", req.Ticker, err)
	}
	return rec, nil
}

func flightKey(req Request) string {
	return req.Ticker + "\x00" + strings.ToUpper(req.Market)
}

// EnrichBatch enriches several tickers with bounded concurrency.
// Per-item failures are reported in the item; only request-level problems
// (item count, missing store) fail the whole call.
func (s *Service) EnrichBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: items", company.ErrBadRequest)
	}
	if len(reqs) > s.cfg.BatchMaxItems {
		return nil, fmt.Errorf("%w: at most %d items", company.ErrBadRequest, s.cfg.BatchMaxItems)
	}
	if err := s.storeConfigured(); err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.cfg.BatchLimit)
	for i, req := range reqs {
		g.Go(func() error {
			items[i].Ticker = strings.TrimSpace(req.Ticker)
			res, err := s.Enrich(ctx, req)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = *res
			return nil
		})
	}
	_ = g.Wait()

	return items, nil
}

func resultFrom(rec *company.Record, source string) *Result {
	return &Result{
		Ticker:  rec.Ticker,
		Name:    rec.DisplayName(),
		LogoURL: rec.LogoURL,
		Source:  source,
	}
}
