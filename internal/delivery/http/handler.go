package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
	"github.com/rs/zerolog"
)

const (
	serviceName    = "pricelens-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service   *usecase.ComparisonService
	presenter *Presenter
	logger    zerolog.Logger
}

// NewHandler creates a new HTTP handler.
// A nil service makes every comparison endpoint answer 503.
func NewHandler(service *usecase.ComparisonService, presenter *Presenter, logger zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		presenter: presenter,
		logger:    logger,
	}
}

// suggestRequest is the query string accepted by the suggest endpoint
type suggestRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	listings := 0
	if h.service != nil {
		listings = h.service.CatalogSize()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         serviceName,
		"version":         serviceVersion,
		"catalogListings": listings,
	})
}

// Search handles GET /api/v1/search?q=
func (h *Handler) Search(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	result, err := h.service.PerformSearch(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.presenter.Comparison(result))
}

// Categories handles GET /api/v1/categories
func (h *Handler) Categories(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": h.service.Categories()})
}

// CategoryProducts handles GET /api/v1/categories/:label/products
func (h *Handler) CategoryProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	result, err := h.service.FilterByCategory(c.Request.Context(), c.Param("label"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.presenter.Comparison(result))
}

// Suggest handles GET /api/v1/suggest?q=&limit=
func (h *Handler) Suggest(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req suggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   domain.ErrInvalidRequest.Error(),
			"details": err.Error(),
		})
		return
	}

	suggestions, err := h.service.Suggest(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":       req.Query,
		"suggestions": suggestions,
	})
}

// ReloadCatalog handles POST /api/v1/catalog/reload
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	if err := h.service.LoadCatalog(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "reloaded",
		"catalogListings": h.service.CatalogSize(),
	})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "comparison service not configured",
		})
		return false
	}
	return true
}

// respondError maps usecase errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCatalogLoad):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads the body
		status = 499
	}

	h.logger.Error().
		Err(err).
		Str("rid", GetRequestID(c)).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("request failed")

	c.JSON(status, gin.H{"error": err.Error()})
}
