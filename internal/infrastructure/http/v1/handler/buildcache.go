package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/topoatlas/demcache/internal/domain"
	"github.com/topoatlas/demcache/internal/grid"
	"github.com/topoatlas/demcache/internal/infrastructure/http/v1/dto"
	"github.com/topoatlas/demcache/pkg/metrics"
)

// BuildCache fills the tile cache for a single bounding box: normalize
// with optional buffer, compute the covering tiles, fetch the missing
// ones, refresh the mosaic.
func (h *Handler) BuildCache(c *gin.Context) {
	start := time.Now()

	var req dto.BoundingBoxQuery
	if !h.bindQuery(c, &req) {
		return
	}

	if err := req.CheckGeometry(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.CheckSize(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.requireAPIKey(c) {
		return
	}

	metrics.CacheBuilds.Inc()

	box := req.Box()
	res := req.ResolutionOrDefault()

	nsKM, ewKM := grid.TotalDimensions(box)

	normalized := box.Normalize(req.BufferKM)
	tileIDs := domain.TileIDsCovering(normalized)

	summary, err := h.buildCache.Fetch(c.Request.Context(), tileIDs, res, req.ForceUpdate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mosaic := h.buildCache.BuildMosaic(c.Request.Context(), res, tileIDs)

	response := dto.BuildCacheResponse{
		Status: "success",
		Message: fmt.Sprintf("Cache build completed. Downloaded %d tiles, skipped %d existing tiles, %d failed.",
			len(summary.Downloaded), len(summary.Skipped), len(summary.Failed)),
		OriginalBoundingBox:   dto.NewBoundingBoxJSON(box),
		NormalizedBoundingBox: dto.NewBoundingBoxJSON(normalized),
		Resolution:            res,
		BufferKM:              req.BufferKM,
		ForceUpdate:           req.ForceUpdate,
		Distances: dto.DistancesJSON{
			NorthSouthKM: nsKM,
			EastWestKM:   ewKM,
			MaxAllowedKM: dto.MaxBoxSideKM,
		},
		Tiles: dto.TilesJSON{
			RequiredTiles: tileIDs,
			TileCount:     len(tileIDs),
		},
		DownloadSummary:      summary,
		Mosaic:               mosaic,
		ExecutionTimeSeconds: time.Since(start).Seconds(),
	}

	h.audit.Write("buildcache", req, response, time.Since(start))

	c.JSON(http.StatusOK, response)
}
