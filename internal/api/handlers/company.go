package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labdan/Dashboard-sub000/internal/api/response"
	"github.com/labdan/Dashboard-sub000/internal/service/enrichment"
)

// Enricher is the enrichment service as seen by the HTTP layer
type Enricher interface {
	Enrich(ctx context.Context, req enrichment.Request) (*enrichment.Result, error)
	EnrichBatch(ctx context.Context, reqs []enrichment.Request) ([]enrichment.BatchItem, error)
}

// CompanyHandler serves company metadata to dashboard widgets
type CompanyHandler struct {
	svc Enricher
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(svc Enricher) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// CompanyResponse is the single-ticker body
type CompanyResponse struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

// BatchRequest is the batch body
type BatchRequest struct {
	Items []enrichment.Request `json:"items"`
}

// BatchResponse is the batch result
type BatchResponse struct {
	Items []enrichment.BatchItem `json:"items"`
}

// Get handles GET /api/company?ticker=&instrumentName=&market=
// An empty logo_url means "show a placeholder", not an error.
func (h *CompanyHandler) Get(c *gin.Context) {
	req := enrichment.Request{
		Ticker:     c.Query("ticker"),
		HintedName: c.Query("instrumentName"),
		Market:     c.Query("market"),
	}
	if req.HintedName == "" {
		req.HintedName = c.Query("name")
	}

	res, err := h.svc.Enrich(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, CompanyResponse{Name: res.Name, LogoURL: res.LogoURL})
}

// Batch handles POST /api/company/batch
func (h *CompanyHandler) Batch(c *gin.Context) {
	var body BatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	items, err := h.svc.EnrichBatch(c.Request.Context(), body.Items)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Status(c, http.StatusOK, BatchResponse{Items: items})
}
