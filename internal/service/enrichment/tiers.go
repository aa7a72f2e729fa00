package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/labdan/Dashboard-sub000/internal/infra/external/logo"
	"github.com/labdan/Dashboard-sub000/internal/infra/external/twelvedata"
	"golang.org/x/sync/errgroup"
)

// Tier names, in priority order
const (
	TierCache    = "cache"
	TierSlugCDN  = "slug_cdn"
	TierIconRepo = "icon_repo"
	TierProvider = "provider"
)

// Provider is the financial-data provider used by the last tier
type Provider interface {
	FetchProfile(ctx context.Context, symbol, market string) (*twelvedata.Profile, error)
	FetchLogo(ctx context.Context, symbol, market string) (*twelvedata.Logo, error)
	Configured() bool
}

// Candidate is what the chain knows about an instrument while resolving it.
// Name is the current best-known display name and may be upgraded by a tier.
type Candidate struct {
	Ticker     string
	BaseSymbol string
	Market     string
	Name       string
}

// TierResult is the uniform outcome of one tier: a logo hit, or a miss
// optionally carrying the reason. Any tier may also propose a better name.
type TierResult struct {
	Tier    string
	Name    string
	LogoURL string
	Err     error
}

// OK reports whether the tier produced a logo
func (r TierResult) OK() bool {
	return r.LogoURL != ""
}

// Hit builds a successful result
func Hit(tier, logoURL string) TierResult {
	return TierResult{Tier: tier, LogoURL: logoURL}
}

// Miss builds a result with no logo
func Miss(tier string, err error) TierResult {
	return TierResult{Tier: tier, Err: err}
}

// Tier resolves one source
type Tier struct {
	Name    string
	Resolve func(ctx context.Context, c Candidate) TierResult
	// Final tiers end the chain whatever they return
	Final bool
}

// SlugCDNTier probes a logo keyed by the slug of the best-known name
func SlugCDNTier(prober logo.Prober, templates logo.Templates) Tier {
	return Tier{
		Name: TierSlugCDN,
		Resolve: func(ctx context.Context, c Candidate) TierResult {
			u := templates.SlugLogoURL(c.Name)
			if u == "" {
				return Miss(TierSlugCDN, fmt.Errorf("no slug for name %q", c.Name))
			}
			if !prober.Exists(ctx, u) {
				return Miss(TierSlugCDN, nil)
			}
			return Hit(TierSlugCDN, u)
		},
	}
}

// IconRepoTier probes a static icon repository keyed by base symbol
func IconRepoTier(prober logo.Prober, templates logo.Templates) Tier {
	return Tier{
		Name: TierIconRepo,
		Resolve: func(ctx context.Context, c Candidate) TierResult {
			u := templates.SymbolLogoURL(c.BaseSymbol)
			if u == "" {
				return Miss(TierIconRepo, fmt.Errorf("no base symbol for %q", c.Ticker))
			}
			if !prober.Exists(ctx, u) {
				return Miss(TierIconRepo, nil)
			}
			return Hit(TierIconRepo, u)
		},
	}
}

// ProviderTier queries profile and logo concurrently; either may fail
// without affecting the other. Whatever it returns ends the chain.
func ProviderTier(p Provider) Tier {
	return Tier{
		Name:  TierProvider,
		Final: true,
		Resolve: func(ctx context.Context, c Candidate) TierResult {
			var (
				g                   errgroup.Group
				profile             *twelvedata.Profile
				lg                  *twelvedata.Logo
				profileErr, logoErr error
			)

			g.Go(func() error {
				profile, profileErr = p.FetchProfile(ctx, c.BaseSymbol, c.Market)
				return nil
			})
			g.Go(func() error {
				lg, logoErr = p.FetchLogo(ctx, c.BaseSymbol, c.Market)
				return nil
			})
			_ = g.Wait()

			res := TierResult{Tier: TierProvider}
			if profileErr == nil && profile != nil {
				res.Name = strings.TrimSpace(profile.Name)
			}
			if logoErr == nil && lg != nil {
				res.LogoURL = lg.BestURL()
			}

			switch {
			case profileErr != nil && logoErr != nil:
				res.Err = fmt.Errorf("profile: %w; logo: %w", profileErr, logoErr)
			case logoErr != nil:
				res.Err = fmt.Errorf("logo: %w", logoErr)
			case profileErr != nil:
				res.Err = fmt.Errorf("profile: %w", profileErr)
			}
			return res
		},
	}
}

// candidateFor seeds a candidate from the stored record and the caller's hint
func candidateFor(rec *company.Record, req Request) Candidate {
	return Candidate{
		Ticker:     req.Ticker,
		BaseSymbol: company.BaseSymbol(req.Ticker),
		Market:     req.Market,
		Name:       bestName(rec.DisplayName(), req.HintedName, company.BaseSymbol(req.Ticker), req.Ticker),
	}
}

// bestName returns the first non-blank candidate
func bestName(names ...string) string {
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	return ""
}
