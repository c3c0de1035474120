package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TilesDownloaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demcache_tiles_downloaded_total",
		Help: "Total number of DEM tiles downloaded from the provider",
	})

	TilesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demcache_tiles_skipped_total",
		Help: "Total number of tiles skipped because they were already cached",
	})

	TilesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demcache_tiles_failed_total",
		Help: "Total number of tile downloads that failed",
	})

	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demcache_download_bytes_total",
		Help: "Total bytes downloaded from the DEM provider",
	})

	DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "demcache_download_duration_seconds",
		Help:    "Duration of single tile downloads in seconds",
		Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	ElevationQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "demcache_elevation_queries_total",
		Help: "Total number of elevation point queries by status",
	}, []string{"status"})

	CacheBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demcache_cache_builds_total",
		Help: "Total number of buildcache invocations",
	})

	MosaicBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "demcache_mosaic_builds_total",
		Help: "Total number of mosaic builds by kind",
	}, []string{"kind"})
)
