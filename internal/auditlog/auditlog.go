// Package auditlog persists one JSON record per query or cache build, the
// way operators inspect what the service did after the fact.
package auditlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/topoatlas/demcache/pkg/logger"
)

// Record is the envelope written for every audited operation.
type Record struct {
	Timestamp            string  `json:"timestamp"`
	Operation            string  `json:"operation"`
	Input                any     `json:"input_parameters"`
	Result               any     `json:"result"`
	ExecutionTimeSeconds float64 `json:"execution_time_seconds"`
}

type Recorder struct {
	dir    string
	logger logger.Logger
	now    func() time.Time
}

func NewRecorder(dir string, l logger.Logger) *Recorder {
	return &Recorder{
		dir:    dir,
		logger: l,
		now:    time.Now,
	}
}

// Write stores a JSON record at {dir}/{operation}_{timestamp}.json.
// Audit failures are logged and swallowed: they must never fail a request.
func (r *Recorder) Write(operation string, input, result any, elapsed time.Duration) {
	now := r.now().UTC()

	record := Record{
		Timestamp:            now.Format(time.RFC3339),
		Operation:            operation,
		Input:                input,
		Result:               result,
		ExecutionTimeSeconds: float64(elapsed.Milliseconds()) / 1000,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		r.logger.Error("failed to marshal audit record", "operation", operation, "error", err)
		return
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.logger.Error("failed to create audit log directory", "dir", r.dir, "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.json", operation, now.Format("20060102_150405"))
	path := filepath.Join(r.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.logger.Error("failed to write audit record", "path", path, "error", err)
		return
	}

	r.logger.Debug("audit record written", "path", path)
}
