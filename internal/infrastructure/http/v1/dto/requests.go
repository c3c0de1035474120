package dto

import (
	"fmt"

	"github.com/topoatlas/demcache/internal/domain"
	"github.com/topoatlas/demcache/internal/grid"
)

// MaxBoxSideKM caps single-box buildcache requests. Bigger areas go
// through cachemap, which splits them itself.
const MaxBoxSideKM = 100.0

// Coordinate fields are pointers so that 0.0 (a valid latitude and
// longitude) survives the required check.

type BoundingBoxQuery struct {
	MinLat      *float64 `form:"min_lat" validate:"required,gte=-90,lte=90"`
	MaxLat      *float64 `form:"max_lat" validate:"required,gte=-90,lte=90"`
	MinLon      *float64 `form:"min_lon" validate:"required,gte=-180,lte=180"`
	MaxLon      *float64 `form:"max_lon" validate:"required,gte=-180,lte=180"`
	Resolution  string   `form:"resolution" validate:"omitempty,oneof=GLO-30 GLO-90"`
	BufferKM    float64  `form:"buffer_km" validate:"gte=0"`
	ForceUpdate bool     `form:"force_update"`
}

// Box assembles the bounding box after validation.
func (q BoundingBoxQuery) Box() domain.BoundingBox {
	return domain.BoundingBox{
		MinLat: *q.MinLat,
		MaxLat: *q.MaxLat,
		MinLon: *q.MinLon,
		MaxLon: *q.MaxLon,
	}
}

// ResolutionOrDefault falls back to GLO-30 like the provider does.
func (q BoundingBoxQuery) ResolutionOrDefault() domain.Resolution {
	if q.Resolution == "" {
		return domain.ResolutionGLO30
	}
	return domain.Resolution(q.Resolution)
}

// CheckGeometry enforces max>min on both axes.
func (q BoundingBoxQuery) CheckGeometry() error {
	if *q.MaxLat <= *q.MinLat {
		return fmt.Errorf("max_lat must be greater than min_lat")
	}
	if *q.MaxLon <= *q.MinLon {
		return fmt.Errorf("max_lon must be greater than min_lon")
	}
	return nil
}

// CheckSize enforces the per-request geodesic size cap on both axes.
func (q BoundingBoxQuery) CheckSize() error {
	nsKM, ewKM := grid.TotalDimensions(q.Box())

	if nsKM > MaxBoxSideKM {
		return fmt.Errorf("bounding box is too large: north-south distance is %.2f km, maximum allowed is %.0f km", nsKM, MaxBoxSideKM)
	}
	if ewKM > MaxBoxSideKM {
		return fmt.Errorf("bounding box is too large: east-west distance is %.2f km, maximum allowed is %.0f km", ewKM, MaxBoxSideKM)
	}

	return nil
}

type PointQuery struct {
	Latitude   *float64 `form:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude  *float64 `form:"longitude" validate:"required,gte=-180,lte=180"`
	Resolution string   `form:"resolution" validate:"omitempty,oneof=GLO-30 GLO-90"`
}

func (q PointQuery) ResolutionOrDefault() domain.Resolution {
	if q.Resolution == "" {
		return domain.ResolutionGLO30
	}
	return domain.Resolution(q.Resolution)
}

type DifferenceQuery struct {
	Point1Latitude  *float64 `form:"point1_latitude" validate:"required,gte=-90,lte=90"`
	Point1Longitude *float64 `form:"point1_longitude" validate:"required,gte=-180,lte=180"`
	Point2Latitude  *float64 `form:"point2_latitude" validate:"required,gte=-90,lte=90"`
	Point2Longitude *float64 `form:"point2_longitude" validate:"required,gte=-180,lte=180"`
	Resolution      string   `form:"resolution" validate:"omitempty,oneof=GLO-30 GLO-90"`
}

func (q DifferenceQuery) ResolutionOrDefault() domain.Resolution {
	if q.Resolution == "" {
		return domain.ResolutionGLO30
	}
	return domain.Resolution(q.Resolution)
}
