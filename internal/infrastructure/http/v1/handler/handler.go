package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/topoatlas/demcache/internal/auditlog"
	"github.com/topoatlas/demcache/internal/usecase"
)

const dataSource = "Copernicus DEM"

type Handler struct {
	validate         *validator.Validate
	buildCache       *usecase.BuildCacheUseCase
	cacheMap         *usecase.CacheMapUseCase
	elevation        *usecase.ElevationUseCase
	audit            *auditlog.Recorder
	apiKeyConfigured bool
}

func NewHandler(
	v *validator.Validate,
	buildCache *usecase.BuildCacheUseCase,
	cacheMap *usecase.CacheMapUseCase,
	elevation *usecase.ElevationUseCase,
	audit *auditlog.Recorder,
	apiKeyConfigured bool,
) *Handler {
	return &Handler{
		validate:         v,
		buildCache:       buildCache,
		cacheMap:         cacheMap,
		elevation:        elevation,
		audit:            audit,
		apiKeyConfigured: apiKeyConfigured,
	}
}

// bindQuery binds and validates a query dto, responding with 400 on
// failure. Returns false when the request was already answered.
func (h *Handler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error: " + err.Error()})
		return false
	}

	return true
}

// requireAPIKey rejects cache-building requests when no provider
// credential is configured. Returns false when already answered.
func (h *Handler) requireAPIKey(c *gin.Context) bool {
	if !h.apiKeyConfigured {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "provider API key not configured, set PROVIDER_API_KEY",
		})
		return false
	}
	return true
}
