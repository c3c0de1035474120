package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/topoatlas/demcache/internal/domain"
	"github.com/topoatlas/demcache/internal/grid"
	"github.com/topoatlas/demcache/pkg/logger"
)

// SquareResult records what happened to one grid square of a cachemap run.
type SquareResult struct {
	SquareID             string  `json:"square_id"`
	Status               string  `json:"status"`
	TilesDownloaded      int     `json:"tiles_downloaded"`
	TilesSkipped         int     `json:"tiles_skipped"`
	TilesFailed          int     `json:"tiles_failed"`
	ExecutionTimeSeconds float64 `json:"execution_time_seconds"`
	Error                string  `json:"error,omitempty"`
}

// CacheMapReport aggregates a whole large-area cache build.
type CacheMapReport struct {
	NorthSouthKM    float64        `json:"north_south_km"`
	EastWestKM      float64        `json:"east_west_km"`
	Squares         []grid.Square  `json:"squares"`
	Results         []SquareResult `json:"results"`
	SuccessCount    int            `json:"successful_squares"`
	FailureCount    int            `json:"failed_squares"`
	TilesDownloaded int            `json:"total_tiles_downloaded"`
	TilesSkipped    int            `json:"total_tiles_skipped"`
	TilesFailed     int            `json:"total_tiles_failed"`
}

// Partial reports whether some but not all squares failed.
func (r CacheMapReport) Partial() bool {
	return r.FailureCount > 0
}

type CacheMapUseCase struct {
	build  *BuildCacheUseCase
	logger logger.Logger
}

func NewCacheMapUseCase(build *BuildCacheUseCase, l logger.Logger) *CacheMapUseCase {
	return &CacheMapUseCase{
		build:  build,
		logger: l,
	}
}

// Run splits the box into ~100 km squares and drives each one through the
// normalize → tile ids → fetch → mosaic pipeline. Squares are processed
// sequentially; a square's failure is recorded and never stops the rest.
func (uc *CacheMapUseCase) Run(ctx context.Context, box domain.BoundingBox, res domain.Resolution, bufferKM float64, forceUpdate bool) CacheMapReport {
	nsKM, ewKM := grid.TotalDimensions(box)
	squares := grid.Split(box, grid.DefaultSquareSizeKM)

	report := CacheMapReport{
		NorthSouthKM: nsKM,
		EastWestKM:   ewKM,
		Squares:      squares,
		Results:      make([]SquareResult, 0, len(squares)),
	}

	uc.logger.Info("starting cachemap run",
		"squares", len(squares),
		"north_south_km", fmt.Sprintf("%.2f", nsKM),
		"east_west_km", fmt.Sprintf("%.2f", ewKM),
		"resolution", res,
	)

	for _, square := range squares {
		start := time.Now()

		normalized := square.Box.Normalize(bufferKM)
		ids := domain.TileIDsCovering(normalized)

		summary, err := uc.build.Fetch(ctx, ids, res, forceUpdate)
		if err != nil {
			uc.logger.Error("square failed", "square", square.ID, "error", err)
			report.Results = append(report.Results, SquareResult{
				SquareID:             square.ID,
				Status:               StatusError,
				ExecutionTimeSeconds: roundSeconds(time.Since(start)),
				Error:                err.Error(),
			})
			report.FailureCount++
			continue
		}

		uc.build.BuildMosaic(ctx, res, ids)

		report.Results = append(report.Results, SquareResult{
			SquareID:             square.ID,
			Status:               StatusSuccess,
			TilesDownloaded:      len(summary.Downloaded),
			TilesSkipped:         len(summary.Skipped),
			TilesFailed:          len(summary.Failed),
			ExecutionTimeSeconds: roundSeconds(time.Since(start)),
		})
		report.SuccessCount++
		report.TilesDownloaded += len(summary.Downloaded)
		report.TilesSkipped += len(summary.Skipped)
		report.TilesFailed += len(summary.Failed)
	}

	return report
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000
}
