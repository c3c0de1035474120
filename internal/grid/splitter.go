// Package grid decomposes large geographic areas into approximately
// fixed-size squares so each one can be cached independently.
package grid

import (
	"fmt"
	"math"

	"github.com/topoatlas/demcache/internal/domain"
)

const (
	// DefaultSquareSizeKM is the target side length of a grid square.
	DefaultSquareSizeKM = 100.0

	kilometersPerDegree = 111.0
)

// Square is a single cell of the decomposition grid.
type Square struct {
	ID        string             `json:"square_id"`
	Box       domain.BoundingBox `json:"bounding_box"`
	CenterLat float64            `json:"center_lat"`
	CenterLon float64            `json:"center_lon"`
	Row       int                `json:"row"`
	Col       int                `json:"col"`
}

// Split decomposes the box into a row-major grid of squares each roughly
// targetKM on a side. The latitude step is constant worldwide; the
// longitude step is computed once from the whole box's center latitude
// rather than per row, trading slight distortion at high latitudes for
// deterministic square counts and ids. The final row and column are
// clamped, so squares exactly tile the box with no gaps or overlaps.
func Split(box domain.BoundingBox, targetKM float64) []Square {
	if targetKM <= 0 {
		targetKM = DefaultSquareSizeKM
	}

	centerLat, _ := box.Center()

	latStep := targetKM / kilometersPerDegree
	lonStep := targetKM / (kilometersPerDegree * math.Cos(centerLat*math.Pi/180))

	var squares []Square

	currentLat := box.MinLat
	for row := 0; currentLat < box.MaxLat; row++ {
		nextLat := math.Min(currentLat+latStep, box.MaxLat)

		currentLon := box.MinLon
		for col := 0; currentLon < box.MaxLon; col++ {
			nextLon := math.Min(currentLon+lonStep, box.MaxLon)

			cell := domain.BoundingBox{
				MinLat: currentLat,
				MaxLat: nextLat,
				MinLon: currentLon,
				MaxLon: nextLon,
			}
			cLat, cLon := cell.Center()

			squares = append(squares, Square{
				ID:        fmt.Sprintf("square_%d_%d", row, col),
				Box:       cell,
				CenterLat: cLat,
				CenterLon: cLon,
				Row:       row,
				Col:       col,
			})

			currentLon = nextLon
		}

		currentLat = nextLat
	}

	return squares
}

// TotalDimensions measures the box along its vertical and horizontal
// center lines, in kilometers. Used for reporting, not for splitting.
func TotalDimensions(box domain.BoundingBox) (northSouthKM, eastWestKM float64) {
	centerLat, centerLon := box.Center()

	northSouthKM = domain.HaversineMeters(box.MinLat, centerLon, box.MaxLat, centerLon) / 1000
	eastWestKM = domain.HaversineMeters(centerLat, box.MinLon, centerLat, box.MaxLon) / 1000

	return northSouthKM, eastWestKM
}
