package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/topoatlas/demcache/internal/auditlog"
	v1 "github.com/topoatlas/demcache/internal/infrastructure/http/v1"
	"github.com/topoatlas/demcache/internal/infrastructure/http/v1/handler"
	"github.com/topoatlas/demcache/internal/provider/opentopo"
	"github.com/topoatlas/demcache/internal/raster"
	"github.com/topoatlas/demcache/internal/repository/tilestore"
	"github.com/topoatlas/demcache/internal/usecase"
	"github.com/topoatlas/demcache/pkg/config"
	"github.com/topoatlas/demcache/pkg/httpserver"
	"github.com/topoatlas/demcache/pkg/logger"
	"github.com/topoatlas/demcache/pkg/telemetry"
)

func Run(cfg *config.Config) {
	l := logger.NewZapLogger(cfg.Logger.Level)

	l.Info("starting demcache service", "target_dir", cfg.Cache.TargetDir, "log_dir", cfg.Cache.LogDir)

	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: cfg.Telemetry.ServiceVersion,
			Environment:    cfg.Telemetry.Environment,
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		}, l)
		if err != nil {
			l.Fatal("failed to initialize telemetry", "error", err)
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				l.Error("failed to shutdown telemetry", "error", err)
			}
		}()
		l.Info("telemetry initialized", "service", cfg.Telemetry.ServiceName)
	}

	// Storage and collaborators
	store := tilestore.NewFilesystemStore(cfg.Cache.TargetDir)
	provider := opentopo.NewClient(cfg.Provider, l)
	sampler := raster.NewGeoTIFFSampler()
	audit := auditlog.NewRecorder(cfg.Cache.LogDir, l)

	// Use cases
	buildCacheUseCase := usecase.NewBuildCacheUseCase(store, provider, cfg.Provider.Concurrency, l)
	cacheMapUseCase := usecase.NewCacheMapUseCase(buildCacheUseCase, l)
	elevationUseCase := usecase.NewElevationUseCase(store, sampler, l)

	// HTTP surface
	validate := validator.New()
	h := handler.NewHandler(validate, buildCacheUseCase, cacheMapUseCase, elevationUseCase, audit, cfg.Provider.APIKey != "")
	router := v1.NewRouter(h, l, cfg.Telemetry.Enabled)

	server := httpserver.New(cfg.HTTP.Server, router)

	go func() {
		l.Info("starting http server", "port", cfg.HTTP.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		l.Fatal("server forced to shutdown", "error", err)
	}

	l.Info("server stopped")
}
