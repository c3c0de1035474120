package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/tiff"
)

// DefaultNoData is the sentinel the Copernicus GeoTIFF tiles use for
// "no measurement here" (ocean, voids).
const DefaultNoData = -32768.0

// GeoTIFFSampler samples elevation values from 1°×1° GeoTIFF tiles. The
// tile's georeference is implicit in the naming convention: the file
// covers the whole-degree cell that owns the sampled coordinate, so the
// pixel position follows from the point's fractional offset inside the
// cell.
type GeoTIFFSampler struct {
	NoData float64
}

var _ Sampler = (*GeoTIFFSampler)(nil)

func NewGeoTIFFSampler() *GeoTIFFSampler {
	return &GeoTIFFSampler{NoData: DefaultNoData}
}

func (s *GeoTIFFSampler) Sample(path string, lat, lon float64) (float64, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to open tile raster: %w", err)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return 0, false, fmt.Errorf("failed to decode tile raster: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return 0, false, fmt.Errorf("tile raster has empty bounds")
	}

	// Fractional position inside the owning whole-degree cell. Raster
	// rows run north to south, so the y axis is inverted.
	fx := lon - math.Floor(lon)
	fy := lat - math.Floor(lat)

	px := clamp(int(fx*float64(width)), 0, width-1)
	py := clamp(int((1-fy)*float64(height)), 0, height-1)

	value := sampleAt(img, bounds.Min.X+px, bounds.Min.Y+py)

	if value == s.NoData {
		return 0, false, nil
	}

	return value, true, nil
}

func sampleAt(img image.Image, x, y int) float64 {
	switch im := img.(type) {
	case *image.Gray16:
		// Elevation tiles store signed 16-bit samples; reinterpret the
		// raw bits rather than treating them as unsigned luminance.
		i := im.PixOffset(x, y)
		raw := uint16(im.Pix[i])<<8 | uint16(im.Pix[i+1])
		return float64(int16(raw))
	case *image.Gray:
		return float64(im.GrayAt(x, y).Y)
	default:
		g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
		return float64(int16(g.Y))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
