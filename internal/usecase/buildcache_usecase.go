package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/topoatlas/demcache/internal/domain"
	"github.com/topoatlas/demcache/internal/raster"
	"github.com/topoatlas/demcache/internal/repository/tilestore"
	"github.com/topoatlas/demcache/pkg/logger"
	"github.com/topoatlas/demcache/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// TileFetcher pulls a single tile's raster from the remote provider.
type TileFetcher interface {
	FetchTile(ctx context.Context, id domain.TileID, res domain.Resolution) (io.ReadCloser, error)
}

// TileError pairs a tile id with the reason its download failed.
type TileError struct {
	Tile  domain.TileID `json:"tile"`
	Error string        `json:"error"`
}

// FetchSummary buckets the per-tile outcomes of one fetch batch. The
// lists preserve the caller-supplied tile ordering even though downloads
// finish in arbitrary order.
type FetchSummary struct {
	Downloaded []domain.TileID `json:"downloaded"`
	Skipped    []domain.TileID `json:"skipped"`
	Failed     []TileError     `json:"failed"`
	TotalBytes int64           `json:"total_bytes"`
	TotalTiles int             `json:"total_tiles"`
}

type outcomeStatus int

const (
	outcomeDownloaded outcomeStatus = iota
	outcomeSkipped
	outcomeFailed
)

type tileOutcome struct {
	status outcomeStatus
	bytes  int64
	err    error
}

type BuildCacheUseCase struct {
	store       tilestore.Store
	provider    TileFetcher
	concurrency int
	logger      logger.Logger
}

func NewBuildCacheUseCase(store tilestore.Store, provider TileFetcher, concurrency int, l logger.Logger) *BuildCacheUseCase {
	if concurrency <= 0 {
		concurrency = 8
	}

	return &BuildCacheUseCase{
		store:       store,
		provider:    provider,
		concurrency: concurrency,
		logger:      l,
	}
}

// Fetch downloads the missing tiles among ids concurrently and reports a
// categorized summary. Already-cached tiles are skipped without a network
// call unless forceUpdate is set. Per-tile failures are recorded, never
// fatal, and never retried here: a re-invocation with the same ids is
// idempotent because cached tiles are skipped. The returned error is
// non-nil only when the resolution namespace itself cannot be created.
func (uc *BuildCacheUseCase) Fetch(ctx context.Context, ids []domain.TileID, res domain.Resolution, forceUpdate bool) (FetchSummary, error) {
	summary := FetchSummary{
		Downloaded: []domain.TileID{},
		Skipped:    []domain.TileID{},
		Failed:     []TileError{},
		TotalTiles: len(ids),
	}

	if err := uc.store.EnsureNamespace(res); err != nil {
		return summary, fmt.Errorf("failed to prepare cache namespace %s: %w", res, err)
	}

	outcomes := make([]tileOutcome, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = uc.fetchOne(gctx, id, res, forceUpdate)
			return nil
		})
	}

	// Workers never return errors; Wait is only the fan-in barrier.
	_ = g.Wait()

	for i, id := range ids {
		switch out := outcomes[i]; out.status {
		case outcomeDownloaded:
			summary.Downloaded = append(summary.Downloaded, id)
			summary.TotalBytes += out.bytes
		case outcomeSkipped:
			summary.Skipped = append(summary.Skipped, id)
		case outcomeFailed:
			summary.Failed = append(summary.Failed, TileError{Tile: id, Error: out.err.Error()})
		}
	}

	uc.logger.Info("fetch batch finished",
		"resolution", res,
		"downloaded", len(summary.Downloaded),
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed),
		"bytes", summary.TotalBytes,
	)

	return summary, nil
}

func (uc *BuildCacheUseCase) fetchOne(ctx context.Context, id domain.TileID, res domain.Resolution, forceUpdate bool) tileOutcome {
	if !forceUpdate && uc.store.Exists(res, id) {
		metrics.TilesSkipped.Inc()
		return tileOutcome{status: outcomeSkipped}
	}

	start := time.Now()

	body, err := uc.provider.FetchTile(ctx, id, res)
	if err != nil {
		uc.logger.Warn("tile download failed", "tile", id, "error", err)
		metrics.TilesFailed.Inc()
		return tileOutcome{status: outcomeFailed, err: err}
	}
	defer body.Close()

	n, err := uc.store.Put(res, id, body)
	if err != nil {
		uc.logger.Error("failed to persist tile", "tile", id, "error", err)
		metrics.TilesFailed.Inc()
		return tileOutcome{status: outcomeFailed, err: err}
	}

	metrics.TilesDownloaded.Inc()
	metrics.DownloadBytes.Add(float64(n))
	metrics.DownloadDuration.Observe(time.Since(start).Seconds())

	uc.logger.Debug("tile downloaded", "tile", id, "bytes", n, "duration", time.Since(start))

	return tileOutcome{status: outcomeDownloaded, bytes: n}
}

// BuildMosaic refreshes the resolution's virtual mosaic over whichever of
// the given tiles currently exist on disk. Missing tiles are silently
// excluded: the mosaic reflects cache state, not the requested set. When
// the external VRT tool is unavailable a plain manifest is written at the
// fallback path instead; the result's Kind distinguishes the two.
func (uc *BuildCacheUseCase) BuildMosaic(ctx context.Context, res domain.Resolution, ids []domain.TileID) raster.MosaicResult {
	var files []string
	for _, id := range ids {
		if uc.store.Exists(res, id) {
			files = append(files, uc.store.PathFor(res, id))
		}
	}

	if len(files) == 0 {
		metrics.MosaicBuilds.WithLabelValues(string(raster.MosaicNone)).Inc()
		return raster.MosaicResult{Kind: raster.MosaicNone}
	}

	vrtPath := uc.store.MosaicPath(res)
	err := raster.BuildVRT(ctx, vrtPath, files)
	if err == nil {
		metrics.MosaicBuilds.WithLabelValues(string(raster.MosaicVRT)).Inc()
		return raster.MosaicResult{Kind: raster.MosaicVRT, Path: vrtPath, TileCount: len(files)}
	}
	uc.logger.Warn("vrt build failed, falling back to manifest", "error", err)

	manifestPath := uc.store.ManifestPath(res)
	if err := raster.WriteManifest(manifestPath, files); err != nil {
		uc.logger.Error("failed to write mosaic manifest", "path", manifestPath, "error", err)
		metrics.MosaicBuilds.WithLabelValues(string(raster.MosaicNone)).Inc()
		return raster.MosaicResult{Kind: raster.MosaicNone}
	}

	metrics.MosaicBuilds.WithLabelValues(string(raster.MosaicManifest)).Inc()
	return raster.MosaicResult{Kind: raster.MosaicManifest, Path: manifestPath, TileCount: len(files)}
}
