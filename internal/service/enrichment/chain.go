package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Resolution is the outcome of running the chain
type Resolution struct {
	Name    string
	LogoURL string
	Tier    string   // tier that produced the logo, "" when every tier missed
	Tried   []string // tiers queried, in order
}

// Chain runs tiers in priority order and stops at the first logo
type Chain struct {
	tiers   []Tier
	timeout time.Duration
}

// NewChain builds a chain. timeout bounds each tier separately.
func NewChain(timeout time.Duration, tiers ...Tier) *Chain {
	return &Chain{tiers: tiers, timeout: timeout}
}

// Run resolves c. A tier failure is a miss; the chain moves on.
// Names proposed by tiers upgrade the candidate before later tiers run.
func (ch *Chain) Run(ctx context.Context, c Candidate) Resolution {
	res := Resolution{Name: c.Name}

	for _, tier := range ch.tiers {
		if err := ctx.Err(); err != nil {
			log.Debug().Err(err).Str("ticker", c.Ticker).Msg("Resolution abandoned")
			break
		}

		res.Tried = append(res.Tried, tier.Name)
		out := ch.runTier(ctx, tier, c)

		if out.Name != "" {
			c.Name = out.Name
			res.Name = out.Name
		}

		if out.OK() {
			res.LogoURL = out.LogoURL
			res.Tier = tier.Name
			return res
		}

		event := log.Debug()
		if out.Err != nil {
			event = log.Warn().Err(out.Err)
		}
		event.Str("ticker", c.Ticker).Str("tier", tier.Name).Msg("Logo tier missed")

		if tier.Final {
			break
		}
	}

	return res
}

func (ch *Chain) runTier(ctx context.Context, tier Tier, c Candidate) (out TierResult) {
	if ch.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ch.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			out = Miss(tier.Name, fmt.Errorf("tier panicked: %v", r))
		}
	}()

	out = tier.Resolve(ctx, c)
	out.Tier = tier.Name
	return out
}
