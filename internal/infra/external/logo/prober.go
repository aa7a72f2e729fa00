package logo

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 8 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; dashboard-logo-probe/1.0)"

	slugPlaceholder   = "{slug}"
	symbolPlaceholder = "{symbol}"
)

// Prober reports whether a URL currently serves a resource
type Prober interface {
	Exists(ctx context.Context, rawURL string) bool
}

// HTTPProber issues HEAD requests and treats only an exact 200 as presence
type HTTPProber struct {
	httpClient *http.Client
}

// NewHTTPProber creates a prober with the default timeout
func NewHTTPProber() *HTTPProber {
	return NewHTTPProberWithTimeout(defaultTimeout)
}

// NewHTTPProberWithTimeout creates a prober with a custom timeout
func NewHTTPProberWithTimeout(timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Exists probes rawURL without transferring a body.
// Transport errors and any status other than 200 count as absence.
func (p *HTTPProber) Exists(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		log.Debug().Err(err).Str("url", rawURL).Msg("Logo probe: bad request")
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", rawURL).Msg("Logo probe failed")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("url", rawURL).Msg("Logo probe: absent")
		return false
	}
	return true
}

// Templates builds candidate logo URLs for the probe tiers
type Templates struct {
	SlugURL   string // contains {slug}
	SymbolURL string // contains {symbol}
}

// SlugLogoURL returns the slug-keyed logo URL for a display name, or ""
// when the name has no alphanumeric characters.
func (t Templates) SlugLogoURL(displayName string) string {
	slug := company.Slug(displayName)
	if slug == "" || t.SlugURL == "" {
		return ""
	}
	return strings.ReplaceAll(t.SlugURL, slugPlaceholder, slug)
}

// SymbolLogoURL returns the symbol-keyed icon URL, or "" for an empty symbol
func (t Templates) SymbolLogoURL(baseSymbol string) string {
	baseSymbol = strings.TrimSpace(baseSymbol)
	if baseSymbol == "" || t.SymbolURL == "" {
		return ""
	}
	return strings.ReplaceAll(t.SymbolURL, symbolPlaceholder, url.PathEscape(baseSymbol))
}
