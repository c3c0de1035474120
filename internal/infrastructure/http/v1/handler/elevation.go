package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/topoatlas/demcache/internal/infrastructure/http/v1/dto"
)

// PointElevation answers a single-point elevation query from the cache.
func (h *Handler) PointElevation(c *gin.Context) {
	start := time.Now()

	var req dto.PointQuery
	if !h.bindQuery(c, &req) {
		return
	}

	res := req.ResolutionOrDefault()
	result := h.elevation.Resolve(*req.Latitude, *req.Longitude, res)

	response := dto.PointElevationResponse{
		PointResult: result,
		Resolution:  res,
		DataSource:  dataSource,
	}

	h.audit.Write("elevation_point", req, response, time.Since(start))

	c.JSON(http.StatusOK, response)
}

// CheckTile reports whether the tile owning a point is cached.
func (h *Handler) CheckTile(c *gin.Context) {
	start := time.Now()

	var req dto.PointQuery
	if !h.bindQuery(c, &req) {
		return
	}

	res := req.ResolutionOrDefault()
	available, tileID := h.elevation.CheckTile(*req.Latitude, *req.Longitude, res)

	message := fmt.Sprintf("Tile %s is available in cache", tileID)
	if !available {
		message = fmt.Sprintf("Tile %s is not cached. Use buildcache to download it.", tileID)
	}

	response := dto.TileCheckResponse{
		Available:  available,
		TileID:     tileID,
		Resolution: res,
		Message:    message,
	}

	h.audit.Write("elevation_check", req, response, time.Since(start))

	c.JSON(http.StatusOK, response)
}

// ElevationDifference resolves two points and reports the vertical
// difference, horizontal distance and slope between them.
func (h *Handler) ElevationDifference(c *gin.Context) {
	start := time.Now()

	var req dto.DifferenceQuery
	if !h.bindQuery(c, &req) {
		return
	}

	res := req.ResolutionOrDefault()
	result := h.elevation.Difference(
		*req.Point1Latitude, *req.Point1Longitude,
		*req.Point2Latitude, *req.Point2Longitude,
		res,
	)

	response := dto.DifferenceResponse{
		DifferenceResult: result,
		Resolution:       res,
		DataSource:       dataSource,
	}

	h.audit.Write("elevation_difference", req, response, time.Since(start))

	c.JSON(http.StatusOK, response)
}
