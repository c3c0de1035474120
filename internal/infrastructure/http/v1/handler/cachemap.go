package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/topoatlas/demcache/internal/grid"
	"github.com/topoatlas/demcache/internal/infrastructure/http/v1/dto"
)

// CacheMap fills the tile cache for an arbitrarily large bounding box by
// splitting it into ~100 km squares and processing each one in turn.
func (h *Handler) CacheMap(c *gin.Context) {
	start := time.Now()

	var req dto.BoundingBoxQuery
	if !h.bindQuery(c, &req) {
		return
	}

	if err := req.CheckGeometry(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.requireAPIKey(c) {
		return
	}

	report := h.cacheMap.Run(c.Request.Context(), req.Box(), req.ResolutionOrDefault(), req.BufferKM, req.ForceUpdate)

	status := "success"
	if report.Partial() {
		status = "partial_success"
	}

	response := dto.CacheMapResponse{
		Status: status,
		Message: fmt.Sprintf("Processed %d squares. %d successful, %d failed. Total: %d tiles downloaded, %d skipped, %d failed.",
			len(report.Squares), report.SuccessCount, report.FailureCount,
			report.TilesDownloaded, report.TilesSkipped, report.TilesFailed),
		TotalArea: dto.DistancesJSON{
			NorthSouthKM: report.NorthSouthKM,
			EastWestKM:   report.EastWestKM,
		},
		GridInfo: dto.GridInfoJSON{
			TotalSquares:       len(report.Squares),
			SquareSizeTargetKM: grid.DefaultSquareSizeKM,
		},
		Squares: report.Squares,
		Results: report.Results,
		Summary: dto.CacheMapSummaryJSON{
			SuccessfulSquares:    report.SuccessCount,
			FailedSquares:        report.FailureCount,
			TotalTilesDownloaded: report.TilesDownloaded,
			TotalTilesSkipped:    report.TilesSkipped,
			TotalTilesFailed:     report.TilesFailed,
		},
		ExecutionTimeSeconds: time.Since(start).Seconds(),
	}

	h.audit.Write("cachemap", req, response, time.Since(start))

	c.JSON(http.StatusOK, response)
}
