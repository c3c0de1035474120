package dto

import (
	"github.com/topoatlas/demcache/internal/domain"
	"github.com/topoatlas/demcache/internal/grid"
	"github.com/topoatlas/demcache/internal/raster"
	"github.com/topoatlas/demcache/internal/usecase"
)

type BoundingBoxJSON struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

func NewBoundingBoxJSON(b domain.BoundingBox) BoundingBoxJSON {
	return BoundingBoxJSON{
		MinLat: b.MinLat,
		MaxLat: b.MaxLat,
		MinLon: b.MinLon,
		MaxLon: b.MaxLon,
	}
}

type DistancesJSON struct {
	NorthSouthKM float64 `json:"north_south_km"`
	EastWestKM   float64 `json:"east_west_km"`
	MaxAllowedKM float64 `json:"max_allowed_km"`
}

type TilesJSON struct {
	RequiredTiles []domain.TileID `json:"required_tiles"`
	TileCount     int             `json:"tile_count"`
}

type BuildCacheResponse struct {
	Status                string               `json:"status"`
	Message               string               `json:"message"`
	OriginalBoundingBox   BoundingBoxJSON      `json:"original_bounding_box"`
	NormalizedBoundingBox BoundingBoxJSON      `json:"normalized_bounding_box"`
	Resolution            domain.Resolution    `json:"resolution"`
	BufferKM              float64              `json:"buffer_km"`
	ForceUpdate           bool                 `json:"force_update"`
	Distances             DistancesJSON        `json:"distances"`
	Tiles                 TilesJSON            `json:"tiles"`
	DownloadSummary       usecase.FetchSummary `json:"download_summary"`
	Mosaic                raster.MosaicResult  `json:"mosaic"`
	ExecutionTimeSeconds  float64              `json:"execution_time_seconds"`
}

type GridInfoJSON struct {
	TotalSquares       int     `json:"total_squares"`
	SquareSizeTargetKM float64 `json:"square_size_target_km"`
}

type CacheMapResponse struct {
	Status               string                 `json:"status"`
	Message              string                 `json:"message"`
	TotalArea            DistancesJSON          `json:"total_area"`
	GridInfo             GridInfoJSON           `json:"grid_info"`
	Squares              []grid.Square          `json:"squares"`
	Results              []usecase.SquareResult `json:"results"`
	Summary              CacheMapSummaryJSON    `json:"summary"`
	ExecutionTimeSeconds float64                `json:"execution_time_seconds"`
}

type CacheMapSummaryJSON struct {
	SuccessfulSquares    int `json:"successful_squares"`
	FailedSquares        int `json:"failed_squares"`
	TotalTilesDownloaded int `json:"total_tiles_downloaded"`
	TotalTilesSkipped    int `json:"total_tiles_skipped"`
	TotalTilesFailed     int `json:"total_tiles_failed"`
}

type PointElevationResponse struct {
	usecase.PointResult
	Resolution domain.Resolution `json:"resolution"`
	DataSource string            `json:"data_source"`
}

type TileCheckResponse struct {
	Available  bool              `json:"available"`
	TileID     domain.TileID     `json:"tile_key"`
	Resolution domain.Resolution `json:"resolution"`
	Message    string            `json:"message"`
}

type DifferenceResponse struct {
	usecase.DifferenceResult
	Resolution domain.Resolution `json:"resolution"`
	DataSource string            `json:"data_source"`
}
