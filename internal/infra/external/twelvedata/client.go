package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.twelvedata.com"
	defaultTimeout = 8 * time.Second

	// error bodies are small; cap what we read from them
	maxErrorBody = 4 << 10
)

// Client is a read-only Twelve Data reference-data client
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client with the default timeout
func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithTimeout(baseURL, apiKey, defaultTimeout)
}

// NewClientWithTimeout creates a client with a custom timeout
func NewClientWithTimeout(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Configured reports whether the client has credentials
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// =============================================================================
// API Response Types
// =============================================================================

// Profile is the subset of /profile the dashboard uses
type Profile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Website  string `json:"website"`
	Country  string `json:"country"`
}

// Logo is the /logo response; URL is normalised from url/logo/logo_base
type Logo struct {
	URL      string `json:"url"`
	Logo     string `json:"logo"`
	LogoBase string `json:"logo_base"`
}

// BestURL returns the first non-empty logo field
func (l *Logo) BestURL() string {
	for _, u := range []string{l.URL, l.Logo, l.LogoBase} {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	return ""
}

// apiError is returned with HTTP 200 on some plans
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// =============================================================================
// Endpoints
// =============================================================================

// FetchProfile GET /profile
func (c *Client) FetchProfile(ctx context.Context, symbol, market string) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, "/profile", symbol, market, &p); err != nil {
		return nil, err
	}

	log.Debug().Str("symbol", symbol).Str("name", p.Name).Msg("Fetched profile from Twelve Data")
	return &p, nil
}

// FetchLogo GET /logo
func (c *Client) FetchLogo(ctx context.Context, symbol, market string) (*Logo, error) {
	var l Logo
	if err := c.get(ctx, "/logo", symbol, market, &l); err != nil {
		return nil, err
	}

	log.Debug().Str("symbol", symbol).Str("url", l.BestURL()).Msg("Fetched logo from Twelve Data")
	return &l, nil
}

func (c *Client) get(ctx context.Context, path, symbol, market string, out any) error {
	if !c.Configured() {
		return company.ErrMisconfigured
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)
	setMarket(params, market)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: twelvedata %s: %v", company.ErrUpstreamUnavailable, path, redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: twelvedata %s: unexpected status %d: %s",
			company.ErrUpstreamUnavailable, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: twelvedata %s: read body: %v", company.ErrUpstreamUnavailable, path, err)
	}

	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Status == "error" {
		return fmt.Errorf("%w: twelvedata %s: api error %d: %s",
			company.ErrUpstreamUnavailable, path, apiErr.Code, apiErr.Message)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: twelvedata %s: decode response: %v", company.ErrUpstreamUnavailable, path, err)
	}

	return nil
}

// setMarket maps a market qualifier onto the query. Two-letter values are
// treated as ISO country codes (US, GB), longer ones as exchange names.
func setMarket(params url.Values, market string) {
	market = strings.TrimSpace(market)
	switch {
	case market == "":
	case len(market) == 2:
		params.Set("country", strings.ToUpper(market))
	default:
		params.Set("exchange", strings.ToUpper(market))
	}
}

// redact keeps the API key out of logged transport errors (url.Error embeds the URL)
func redact(err error, secret string) string {
	if secret == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), secret, "REDACTED")
}
