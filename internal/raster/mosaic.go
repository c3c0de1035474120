package raster

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const vrtTool = "gdalbuildvrt"

// MosaicKind tags the outcome of a mosaic build so callers can branch
// without inspecting file contents.
type MosaicKind string

const (
	MosaicNone     MosaicKind = "none"
	MosaicVRT      MosaicKind = "vrt"
	MosaicManifest MosaicKind = "manifest"
)

// MosaicResult describes the artifact a mosaic build produced, if any.
type MosaicResult struct {
	Kind      MosaicKind `json:"kind"`
	Path      string     `json:"path,omitempty"`
	TileCount int        `json:"tile_count"`
}

// BuildVRT shells out to gdalbuildvrt to (re)write a virtual mosaic over
// the given tile files. Returns an error when the tool is missing or fails.
func BuildVRT(ctx context.Context, vrtPath string, files []string) error {
	if _, err := exec.LookPath(vrtTool); err != nil {
		return fmt.Errorf("%s not available: %w", vrtTool, err)
	}

	args := append([]string{vrtPath}, files...)
	cmd := exec.CommandContext(ctx, vrtTool, args...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", vrtTool, err, truncate(string(out), 200))
	}

	return nil
}

// WriteManifest writes the fallback mosaic artifact: a newline-delimited
// list of absolute tile file paths, fully replacing any previous one.
func WriteManifest(path string, files []string) error {
	var b strings.Builder
	for _, f := range files {
		b.WriteString(f)
		b.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
