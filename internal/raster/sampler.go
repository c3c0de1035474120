// Package raster wraps the raster capabilities the cache consumes:
// sampling an elevation value out of a tile file and assembling a
// virtual mosaic over a set of tile files.
package raster

// Sampler reads a single elevation value from a tile raster file.
// hasData is false when the raster carries the no-data sentinel at the
// sampled pixel; err reports local read failures (missing file, corrupt
// raster), which are distinct from no-data.
type Sampler interface {
	Sample(path string, lat, lon float64) (value float64, hasData bool, err error)
}
