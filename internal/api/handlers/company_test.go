package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/labdan/Dashboard-sub000/internal/infra/database/postgres"
	"github.com/labdan/Dashboard-sub000/internal/service/enrichment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeEnricher struct {
	got   []enrichment.Request
	res   *enrichment.Result
	err   error
	batch []enrichment.BatchItem
}

func (f *fakeEnricher) Enrich(_ context.Context, req enrichment.Request) (*enrichment.Result, error) {
	f.got = append(f.got, req)
	return f.res, f.err
}

func (f *fakeEnricher) EnrichBatch(_ context.Context, reqs []enrichment.Request) ([]enrichment.BatchItem, error) {
	f.got = append(f.got, reqs...)
	return f.batch, f.err
}

func serve(h *CompanyHandler, method, target, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/api/company", h.Get)
	r.POST("/api/company/batch", h.Batch)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCompanyHandler_Get(t *testing.T) {
	f := &fakeEnricher{res: &enrichment.Result{Ticker: "AAPL_US", Name: "Apple Inc.", LogoURL: "https://x/apple.png"}}
	w := serve(NewCompanyHandler(f), http.MethodGet, "/api/company?ticker=AAPL_US&instrumentName=Apple&market=US", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Apple Inc.","logo_url":"https://x/apple.png"}`, w.Body.String())
	require.Len(t, f.got, 1)
	assert.Equal(t, enrichment.Request{Ticker: "AAPL_US", HintedName: "Apple", Market: "US"}, f.got[0])
}

func TestCompanyHandler_GetNameAlias(t *testing.T) {
	f := &fakeEnricher{res: &enrichment.Result{Name: "Apple Inc."}}
	w := serve(NewCompanyHandler(f), http.MethodGet, "/api/company?ticker=AAPL_US&name=Apple", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Apple Inc.","logo_url":""}`, w.Body.String(), "an empty logo is a success")
	assert.Equal(t, "Apple", f.got[0].HintedName)
}

func TestCompanyHandler_GetErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"bad request", fmt.Errorf("%w: ticker", company.ErrBadRequest), http.StatusBadRequest, "INVALID_PARAMETER"},
		{"misconfigured", fmt.Errorf("%w: provider API key", company.ErrMisconfigured), http.StatusInternalServerError, "MISCONFIGURED"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewCompanyHandler(&fakeEnricher{err: tt.err}), http.MethodGet, "/api/company?ticker=X", "")

			assert.Equal(t, tt.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCompanyHandler_Batch(t *testing.T) {
	f := &fakeEnricher{batch: []enrichment.BatchItem{
		{Result: enrichment.Result{Ticker: "AAPL_US", Name: "Apple Inc.", LogoURL: "https://x/apple.png", Source: "cache"}},
		{Result: enrichment.Result{Ticker: "BAD TICKER"}, Error: "invalid ticker"},
	}}
	body := `{"items":[{"ticker":"AAPL_US","instrumentName":"Apple"},{"ticker":"BAD TICKER","instrumentName":"Bad"}]}`

	w := serve(NewCompanyHandler(f), http.MethodPost, "/api/company/batch", body)

	require.Equal(t, http.StatusOK, w.Code)
	var out BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "https://x/apple.png", out.Items[0].LogoURL)
	assert.Equal(t, "invalid ticker", out.Items[1].Error)
	assert.Len(t, f.got, 2)
}

func TestCompanyHandler_BatchMalformedBody(t *testing.T) {
	f := &fakeEnricher{}
	w := serve(NewCompanyHandler(f), http.MethodPost, "/api/company/batch", `{"items":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.got)
}

type fakeDB struct{ status string }

func (f fakeDB) Health(context.Context) *postgres.HealthStatus {
	return &postgres.HealthStatus{Status: f.status}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		db     string
		cache  Pinger
		status int
		want   string
	}{
		{"healthy without cache", postgres.StatusHealthy, nil, http.StatusOK, postgres.StatusHealthy},
		{"healthy with cache", postgres.StatusHealthy, fakePinger{}, http.StatusOK, postgres.StatusHealthy},
		{"cache down degrades", postgres.StatusHealthy, fakePinger{err: errors.New("refused")}, http.StatusOK, postgres.StatusDegraded},
		{"database down", postgres.StatusUnhealthy, fakePinger{}, http.StatusServiceUnavailable, postgres.StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(fakeDB{status: tt.db}, tt.cache, "test")
			r := gin.New()
			r.GET("/health", h.Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Status)
			assert.Equal(t, "test", body.Version)
		})
	}
}
