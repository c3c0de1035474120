package usecase

import (
	"fmt"
	"math"

	"github.com/topoatlas/demcache/internal/domain"
	"github.com/topoatlas/demcache/internal/raster"
	"github.com/topoatlas/demcache/internal/repository/tilestore"
	"github.com/topoatlas/demcache/pkg/logger"
	"github.com/topoatlas/demcache/pkg/metrics"
)

// Query statuses. A cache miss and a no-data sample are normal outcomes,
// not errors in the transport sense, so results carry a tri-state status
// instead of an error return.
const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
	StatusError   = "error"
)

// PointResult is the outcome of resolving one coordinate against the
// cache. TileID is always set so a caller hitting a cache miss knows
// which tile to build.
type PointResult struct {
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Elevation *float64      `json:"elevation_meters"`
	TileID    domain.TileID `json:"tile_used"`
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
}

// DifferenceResult reports the vertical and horizontal relationship
// between two resolved points. Slope fields stay nil when the horizontal
// distance is exactly zero.
type DifferenceResult struct {
	Point1              PointResult `json:"point1"`
	Point2              PointResult `json:"point2"`
	ElevationDifference *float64    `json:"elevation_difference_meters"`
	HorizontalDistance  *float64    `json:"horizontal_distance_meters"`
	SlopeDegrees        *float64    `json:"slope_degrees"`
	SlopePercentage     *float64    `json:"slope_percentage"`
	Status              string      `json:"status"`
	Message             string      `json:"message,omitempty"`
}

type ElevationUseCase struct {
	store   tilestore.Store
	sampler raster.Sampler
	logger  logger.Logger
}

func NewElevationUseCase(store tilestore.Store, sampler raster.Sampler, l logger.Logger) *ElevationUseCase {
	return &ElevationUseCase{
		store:   store,
		sampler: sampler,
		logger:  l,
	}
}

// Resolve maps the coordinate to its owning tile, checks the cache, and
// samples the elevation value from the tile raster.
func (uc *ElevationUseCase) Resolve(lat, lon float64, res domain.Resolution) PointResult {
	tileID := domain.TileForPoint(lat, lon)

	result := PointResult{
		Latitude:  lat,
		Longitude: lon,
		TileID:    tileID,
	}

	if !uc.store.Exists(res, tileID) {
		result.Status = StatusError
		result.Message = fmt.Sprintf("tile %s not found in cache, run buildcache first for this area", tileID)
		metrics.ElevationQueries.WithLabelValues(StatusError).Inc()
		return result
	}

	value, hasData, err := uc.sampler.Sample(uc.store.PathFor(res, tileID), lat, lon)
	if err != nil {
		uc.logger.Error("failed to read elevation", "tile", tileID, "error", err)
		result.Status = StatusError
		result.Message = fmt.Sprintf("error reading elevation: %v", err)
		metrics.ElevationQueries.WithLabelValues(StatusError).Inc()
		return result
	}

	if !hasData {
		result.Status = StatusNoData
		result.Message = "no elevation data available at this location (possibly water or missing data)"
		metrics.ElevationQueries.WithLabelValues(StatusNoData).Inc()
		return result
	}

	result.Elevation = &value
	result.Status = StatusSuccess
	metrics.ElevationQueries.WithLabelValues(StatusSuccess).Inc()

	return result
}

// CheckTile reports whether the tile owning the coordinate is cached.
func (uc *ElevationUseCase) CheckTile(lat, lon float64, res domain.Resolution) (bool, domain.TileID) {
	tileID := domain.TileForPoint(lat, lon)
	return uc.store.Exists(res, tileID), tileID
}

// Difference resolves both points independently and, when both carry an
// elevation, computes the vertical difference (point2 - point1), the
// great-circle distance, and the slope between them.
func (uc *ElevationUseCase) Difference(lat1, lon1, lat2, lon2 float64, res domain.Resolution) DifferenceResult {
	p1 := uc.Resolve(lat1, lon1, res)
	p2 := uc.Resolve(lat2, lon2, res)

	result := DifferenceResult{
		Point1: p1,
		Point2: p2,
	}

	if p1.Status == StatusError || p2.Status == StatusError {
		result.Status = StatusError
		result.Message = joinPointMessages(p1, p2, StatusError)
		return result
	}

	if p1.Elevation == nil || p2.Elevation == nil {
		result.Status = StatusNoData
		result.Message = joinPointMessages(p1, p2, StatusNoData)
		return result
	}

	diff := *p2.Elevation - *p1.Elevation
	distance := domain.HaversineMeters(lat1, lon1, lat2, lon2)

	result.ElevationDifference = &diff
	result.HorizontalDistance = &distance

	if distance > 0 {
		degrees := math.Atan(math.Abs(diff)/distance) * 180 / math.Pi
		percentage := math.Abs(diff) / distance * 100
		result.SlopeDegrees = &degrees
		result.SlopePercentage = &percentage
	}

	result.Status = StatusSuccess

	return result
}

func joinPointMessages(p1, p2 PointResult, status string) string {
	var msg string
	if p1.Status == status {
		msg = "point 1: " + p1.Message
	}
	if p2.Status == status {
		if msg != "" {
			msg += "; "
		}
		msg += "point 2: " + p2.Message
	}
	return msg
}
