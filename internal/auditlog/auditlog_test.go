package auditlog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/topoatlas/demcache/pkg/logger"
)

func TestWriteProducesTimestampedJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	r := NewRecorder(dir, logger.FromContext(context.Background()))
	r.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	}

	input := map[string]any{"min_lat": 48.5, "max_lat": 50.2}
	result := map[string]any{"status": "success", "tiles_downloaded": 9}

	r.Write("buildcache", input, result, 2500*time.Millisecond)

	path := filepath.Join(dir, "buildcache_20240315_103045.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected record at %s: %v", path, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}

	if record.Operation != "buildcache" {
		t.Errorf("operation = %q", record.Operation)
	}
	if record.Timestamp != "2024-03-15T10:30:45Z" {
		t.Errorf("timestamp = %q", record.Timestamp)
	}
	if record.ExecutionTimeSeconds != 2.5 {
		t.Errorf("execution time = %v, want 2.5", record.ExecutionTimeSeconds)
	}
}

func TestWriteNeverPanicsOnBadDir(t *testing.T) {
	// A file where the directory should be makes MkdirAll fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "logs")
	if err := os.WriteFile(blocked, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRecorder(blocked, logger.FromContext(context.Background()))

	// Must log and swallow the failure, never fail the caller.
	r.Write("cachemap", nil, nil, time.Second)
}
