package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dealscope/backend/internal/domain"
	"github.com/dealscope/backend/internal/usecase"
)

const maxMultiSourceIDs = 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog *usecase.CatalogService
	metrics *Metrics
	version string
	logger  zerolog.Logger
}

// NewHandler creates a new HTTP handler. A nil catalog service makes every
// catalog endpoint answer 503. version is reported by the health check.
func NewHandler(catalog *usecase.CatalogService, metrics *Metrics, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		metrics: metrics,
		version: version,
		logger:  logger.With().Str("component", "http_handler").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dealscope-backend",
		"version": h.version,
	})
}

// SearchDeals handles GET /api/v1/deals?q=&limit=
func (h *Handler) SearchDeals(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	limit, ok := h.limitParam(c)
	if !ok {
		return
	}

	result, err := h.catalog.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.observeSnapshot(c)
	c.JSON(http.StatusOK, result)
}

// ParseQuery handles GET /api/v1/query/parse?q=
func (h *Handler) ParseQuery(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	q, summary := h.catalog.ParseQuery(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"summary": summary,
	})
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetRecommendations handles GET /api/v1/products/:id/recommendations?limit=
func (h *Handler) GetRecommendations(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	limit, ok := h.limitParam(c)
	if !ok {
		return
	}

	recs, err := h.catalog.Recommendations(c.Request.Context(), id, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"productId":       id,
		"recommendations": recs,
	})
}

// CompareProducts handles GET /api/v1/products/:id/similarity/:otherId
func (h *Handler) CompareProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	otherID, ok := h.idParam(c, "otherId")
	if !ok {
		return
	}

	cmp, err := h.catalog.Compare(c.Request.Context(), id, otherID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

type multiRecommendRequest struct {
	ProductIDs []int `json:"productIds" binding:"required,min=1"`
	Limit      int   `json:"limit"`
}

// RecommendFromMultiple handles POST /api/v1/recommendations
func (h *Handler) RecommendFromMultiple(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req multiRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productIds must be a non-empty array of ids"})
		return
	}
	if len(req.ProductIDs) > maxMultiSourceIDs {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many productIds"})
		return
	}

	recs, err := h.catalog.RecommendFromMultiple(c.Request.Context(), req.ProductIDs, req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"productIds":      req.ProductIDs,
		"recommendations": recs,
	})
}

// CategoryStats handles GET /api/v1/categories/stats
func (h *Handler) CategoryStats(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	stats, err := h.catalog.CategoryStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": stats})
}

// RefreshCatalog handles POST /api/v1/catalog/refresh
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	snap, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveCatalog(len(snap.Products))
	}
	c.JSON(http.StatusOK, gin.H{
		"products":    len(snap.Products),
		"categories":  len(snap.Medians),
		"fingerprint": snap.Fingerprint,
		"loadedAt":    snap.LoadedAt,
	})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
		return false
	}
	return true
}

func (h *Handler) observeSnapshot(c *gin.Context) {
	if h.metrics == nil {
		return
	}
	if snap, err := h.catalog.Snapshot(c.Request.Context()); err == nil {
		h.metrics.ObserveCatalog(len(snap.Products))
	}
}

func (h *Handler) idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id: " + c.Param(name)})
		return 0, false
	}
	return id, true
}

// limitParam reads an optional positive limit; absent means the service default
func (h *Handler) limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrFeedFailure):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
