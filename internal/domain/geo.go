package domain

import "math"

// kilometersPerDegree is the approximate length of one degree of latitude.
// Longitude degrees shrink by cos(latitude).
const kilometersPerDegree = 111.0

const earthRadiusKm = 6371.0

// BoundingBox is an axis-aligned geographic box in decimal degrees.
// MaxLat > MinLat and MaxLon > MinLon is assumed for boxes that passed
// request validation.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

func (b BoundingBox) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// Normalize expands the box outward by bufferKM kilometers and clamps the
// result to valid coordinate ranges. The longitude buffer is computed from
// the box's center latitude. A zero or negative buffer is a no-op apart
// from clamping.
func (b BoundingBox) Normalize(bufferKM float64) BoundingBox {
	out := b

	if bufferKM > 0 {
		latBuffer := bufferKM / kilometersPerDegree

		centerLat, _ := b.Center()
		lonBuffer := bufferKM / (kilometersPerDegree * math.Cos(toRadians(centerLat)))

		out.MinLat -= latBuffer
		out.MaxLat += latBuffer
		out.MinLon -= lonBuffer
		out.MaxLon += lonBuffer
	}

	out.MinLat = math.Max(-90, out.MinLat)
	out.MaxLat = math.Min(90, out.MaxLat)
	out.MinLon = math.Max(-180, out.MinLon)
	out.MaxLon = math.Min(180, out.MaxLon)

	return out
}

// HaversineMeters returns the great-circle distance between two points in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
