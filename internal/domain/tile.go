package domain

import (
	"fmt"
	"math"
	"strconv"
)

// TileID identifies a 1°×1° cell by its southwest corner, in the
// Copernicus naming convention: hemisphere letter plus zero-padded
// magnitude, two digits for latitude and three for longitude.
// Examples: N49E024, S10W005, N05W120.
type TileID string

// EncodeTileID formats a tile id from the integer coordinates of the
// cell's southwest corner.
func EncodeTileID(lat, lon int) TileID {
	latDir := "N"
	if lat < 0 {
		latDir = "S"
	}

	lonDir := "E"
	if lon < 0 {
		lonDir = "W"
	}

	return TileID(fmt.Sprintf("%s%02d%s%03d", latDir, abs(lat), lonDir, abs(lon)))
}

// Coords parses the tile id back into the integer (lat, lon) pair of its
// southwest corner. Exact inverse of EncodeTileID.
func (id TileID) Coords() (lat, lon int, err error) {
	s := string(id)
	if len(s) != 7 {
		return 0, 0, fmt.Errorf("malformed tile id %q: want 7 characters", s)
	}

	latDir, lonDir := s[0], s[3]
	if (latDir != 'N' && latDir != 'S') || (lonDir != 'E' && lonDir != 'W') {
		return 0, 0, fmt.Errorf("malformed tile id %q: bad hemisphere prefix", s)
	}

	lat, err = strconv.Atoi(s[1:3])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed tile id %q: %w", s, err)
	}
	lon, err = strconv.Atoi(s[4:7])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed tile id %q: %w", s, err)
	}

	if latDir == 'S' {
		lat = -lat
	}
	if lonDir == 'W' {
		lon = -lon
	}

	return lat, lon, nil
}

// Bounds returns the 1°×1° bounding box of the tile.
func (id TileID) Bounds() (BoundingBox, error) {
	lat, lon, err := id.Coords()
	if err != nil {
		return BoundingBox{}, err
	}
	return BoundingBox{
		MinLat: float64(lat),
		MaxLat: float64(lat + 1),
		MinLon: float64(lon),
		MaxLon: float64(lon + 1),
	}, nil
}

// TileForPoint returns the id of the tile that owns the given coordinate.
func TileForPoint(lat, lon float64) TileID {
	return EncodeTileID(int(math.Floor(lat)), int(math.Floor(lon)))
}

// TileIDsCovering enumerates the tiles intersecting the box, row-major:
// latitude ascending, then longitude ascending. A box edge that lies
// exactly on an integer degree does not pull in an extra tile on that side.
func TileIDsCovering(box BoundingBox) []TileID {
	latStart := int(math.Floor(box.MinLat))
	latEnd := int(math.Ceil(box.MaxLat))
	lonStart := int(math.Floor(box.MinLon))
	lonEnd := int(math.Ceil(box.MaxLon))

	tiles := make([]TileID, 0, (latEnd-latStart)*(lonEnd-lonStart))
	for lat := latStart; lat < latEnd; lat++ {
		for lon := lonStart; lon < lonEnd; lon++ {
			tiles = append(tiles, EncodeTileID(lat, lon))
		}
	}

	return tiles
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
