package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/topoatlas/demcache/internal/domain"
	"github.com/topoatlas/demcache/internal/provider/opentopo"
	"github.com/topoatlas/demcache/internal/raster"
	"github.com/topoatlas/demcache/internal/repository/tilestore"
	"github.com/topoatlas/demcache/pkg/config"
	"github.com/topoatlas/demcache/pkg/logger"
)

// fakeProvider runs an httptest server standing in for the DEM API and
// counts requests. Tiles whose south edge is listed in failSouth get a
// 500 response.
type fakeProvider struct {
	server   *httptest.Server
	requests atomic.Int64
}

func newFakeProvider(t *testing.T, failSouth map[string]bool) *fakeProvider {
	t.Helper()

	p := &fakeProvider{}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.requests.Add(1)

		if failSouth[r.URL.Query().Get("south")] {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("GTIFF:" + r.URL.Query().Get("south") + "," + r.URL.Query().Get("west")))
	}))
	t.Cleanup(p.server.Close)

	return p
}

func newBuildCacheUnderTest(t *testing.T, failSouth map[string]bool) (*BuildCacheUseCase, tilestore.Store, *fakeProvider) {
	t.Helper()

	provider := newFakeProvider(t, failSouth)
	client := opentopo.NewClient(config.Provider{
		BaseURL: provider.server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, logger.FromContext(context.Background()))

	store := tilestore.NewFilesystemStore(t.TempDir())
	uc := NewBuildCacheUseCase(store, client, 4, logger.FromContext(context.Background()))

	return uc, store, provider
}

func TestFetchDownloadsMissingTiles(t *testing.T) {
	uc, store, provider := newBuildCacheUnderTest(t, nil)

	ids := []domain.TileID{"N49E024", "N49E025", "N50E024"}

	summary, err := uc.Fetch(context.Background(), ids, domain.ResolutionGLO30, false)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(summary.Downloaded) != 3 || len(summary.Skipped) != 0 || len(summary.Failed) != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if provider.requests.Load() != 3 {
		t.Errorf("provider saw %d requests, want 3", provider.requests.Load())
	}
	if summary.TotalBytes == 0 {
		t.Error("TotalBytes should count downloaded bytes")
	}

	for _, id := range ids {
		if !store.Exists(domain.ResolutionGLO30, id) {
			t.Errorf("tile %s should be cached after Fetch", id)
		}
	}
}

func TestFetchSkipsCachedTilesWithoutNetworkCalls(t *testing.T) {
	uc, store, provider := newBuildCacheUnderTest(t, nil)

	id := domain.TileID("N49E024")
	if _, err := store.Put(domain.ResolutionGLO30, id, strings.NewReader("cached")); err != nil {
		t.Fatal(err)
	}

	summary, err := uc.Fetch(context.Background(), []domain.TileID{id}, domain.ResolutionGLO30, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(summary.Skipped) != 1 || summary.Skipped[0] != id {
		t.Errorf("summary.Skipped = %v, want [%s]", summary.Skipped, id)
	}
	if provider.requests.Load() != 0 {
		t.Errorf("cached tile caused %d network calls, want 0", provider.requests.Load())
	}
}

func TestFetchForceUpdateRedownloads(t *testing.T) {
	uc, store, provider := newBuildCacheUnderTest(t, nil)

	id := domain.TileID("N49E024")
	if _, err := store.Put(domain.ResolutionGLO30, id, strings.NewReader("stale")); err != nil {
		t.Fatal(err)
	}

	summary, err := uc.Fetch(context.Background(), []domain.TileID{id}, domain.ResolutionGLO30, true)
	if err != nil {
		t.Fatal(err)
	}

	if len(summary.Downloaded) != 1 {
		t.Fatalf("summary = %+v, want 1 downloaded", summary)
	}
	if provider.requests.Load() != 1 {
		t.Errorf("forceUpdate caused %d network calls, want 1", provider.requests.Load())
	}

	data, _ := os.ReadFile(store.PathFor(domain.ResolutionGLO30, id))
	if string(data) == "stale" {
		t.Error("forceUpdate should overwrite the cached tile")
	}
}

func TestFetchPartialFailure(t *testing.T) {
	// N50E024 has south=50; make it fail.
	uc, store, _ := newBuildCacheUnderTest(t, map[string]bool{"50": true})

	ids := []domain.TileID{"N49E024", "N50E024", "N49E025"}

	summary, err := uc.Fetch(context.Background(), ids, domain.ResolutionGLO30, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(summary.Downloaded) != 2 {
		t.Errorf("downloaded = %v, want 2 tiles", summary.Downloaded)
	}
	if len(summary.Failed) != 1 || summary.Failed[0].Tile != "N50E024" {
		t.Fatalf("failed = %+v, want [N50E024]", summary.Failed)
	}
	if summary.Failed[0].Error == "" {
		t.Error("failed tile should carry an error detail")
	}

	if store.Exists(domain.ResolutionGLO30, "N50E024") {
		t.Error("a failed tile must not leave a file behind")
	}
	if !store.Exists(domain.ResolutionGLO30, "N49E024") || !store.Exists(domain.ResolutionGLO30, "N49E025") {
		t.Error("failure of one tile must not block the others")
	}
}

func TestFetchPreservesCallerOrder(t *testing.T) {
	uc, store, _ := newBuildCacheUnderTest(t, nil)

	// Pre-cache one tile in the middle so all three buckets interleave.
	if _, err := store.Put(domain.ResolutionGLO30, "N49E025", strings.NewReader("cached")); err != nil {
		t.Fatal(err)
	}

	ids := []domain.TileID{"N49E027", "N49E025", "N49E023", "N49E026"}

	summary, err := uc.Fetch(context.Background(), ids, domain.ResolutionGLO30, false)
	if err != nil {
		t.Fatal(err)
	}

	want := []domain.TileID{"N49E027", "N49E023", "N49E026"}
	if len(summary.Downloaded) != len(want) {
		t.Fatalf("downloaded = %v", summary.Downloaded)
	}
	for i := range want {
		if summary.Downloaded[i] != want[i] {
			t.Errorf("downloaded[%d] = %s, want %s (caller order)", i, summary.Downloaded[i], want[i])
		}
	}
}

func TestBuildMosaicEmptyCache(t *testing.T) {
	uc, _, _ := newBuildCacheUnderTest(t, nil)

	result := uc.BuildMosaic(context.Background(), domain.ResolutionGLO30, []domain.TileID{"N49E024"})

	if result.Kind != raster.MosaicNone {
		t.Errorf("mosaic over empty cache: kind = %s, want none", result.Kind)
	}
}

func TestBuildMosaicOverCachedTiles(t *testing.T) {
	uc, store, _ := newBuildCacheUnderTest(t, nil)

	ids := []domain.TileID{"N49E024", "N49E025"}
	for _, id := range ids {
		if _, err := store.Put(domain.ResolutionGLO30, id, strings.NewReader("raster")); err != nil {
			t.Fatal(err)
		}
	}

	// Ask for an extra tile that is not cached; it must be silently excluded.
	result := uc.BuildMosaic(context.Background(), domain.ResolutionGLO30, append(ids, "N50E024"))

	if result.Kind == raster.MosaicNone {
		t.Fatal("mosaic over cached tiles should produce an artifact")
	}
	if result.TileCount != 2 {
		t.Errorf("TileCount = %d, want 2 (missing tiles excluded)", result.TileCount)
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("mosaic artifact missing at %s: %v", result.Path, err)
	}

	if result.Kind == raster.MosaicManifest {
		data, err := os.ReadFile(result.Path)
		if err != nil {
			t.Fatal(err)
		}
		for _, id := range ids {
			if !strings.Contains(string(data), store.PathFor(domain.ResolutionGLO30, id)) {
				t.Errorf("manifest should list %s", id)
			}
		}
	}
}
