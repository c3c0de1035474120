// Package tilestore persists downloaded DEM tiles. The cache contract is
// "presence of the tile's raster file = cached": there is no metadata
// index and entries are never evicted.
package tilestore

import (
	"io"

	"github.com/topoatlas/demcache/internal/domain"
)

type Store interface {
	// Exists reports whether the tile's raster file is present.
	Exists(res domain.Resolution, id domain.TileID) bool

	// PathFor returns the canonical path of the tile's raster file,
	// whether or not it exists.
	PathFor(res domain.Resolution, id domain.TileID) string

	// Put atomically writes the tile's raster bytes to the canonical
	// path and returns the byte count. A failed Put must not leave a
	// file that would satisfy a later Exists.
	Put(res domain.Resolution, id domain.TileID, r io.Reader) (int64, error)

	// EnsureNamespace creates the resolution's directory. Idempotent.
	EnsureNamespace(res domain.Resolution) error

	// MosaicPath and ManifestPath locate the per-resolution mosaic
	// artifact and its plain-text fallback.
	MosaicPath(res domain.Resolution) string
	ManifestPath(res domain.Resolution) string
}
