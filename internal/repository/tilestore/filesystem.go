package tilestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/topoatlas/demcache/internal/domain"
)

const (
	tileExt      = ".tif"
	mosaicName   = "mosaic.vrt"
	manifestName = "tiles_list.txt"
)

// FilesystemStore keeps tiles at {baseDir}/{resolution}/{tileID}/{tileID}.tif.
type FilesystemStore struct {
	baseDir string
}

var _ Store = (*FilesystemStore)(nil)

func NewFilesystemStore(baseDir string) *FilesystemStore {
	return &FilesystemStore{baseDir: baseDir}
}

func (s *FilesystemStore) PathFor(res domain.Resolution, id domain.TileID) string {
	return filepath.Join(s.baseDir, string(res), string(id), string(id)+tileExt)
}

func (s *FilesystemStore) Exists(res domain.Resolution, id domain.TileID) bool {
	info, err := os.Stat(s.PathFor(res, id))
	return err == nil && !info.IsDir()
}

// Put writes to a temp file in the tile directory and renames it onto the
// canonical path, so a partial write never looks like a cached tile.
func (s *FilesystemStore) Put(res domain.Resolution, id domain.TileID, r io.Reader) (int64, error) {
	target := s.PathFor(res, id)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create tile directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), string(id)+".*.partial")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to write tile data: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to move tile into place: %w", err)
	}

	return n, nil
}

func (s *FilesystemStore) EnsureNamespace(res domain.Resolution) error {
	return os.MkdirAll(filepath.Join(s.baseDir, string(res)), 0o755)
}

func (s *FilesystemStore) MosaicPath(res domain.Resolution) string {
	return filepath.Join(s.baseDir, string(res), mosaicName)
}

func (s *FilesystemStore) ManifestPath(res domain.Resolution) string {
	return filepath.Join(s.baseDir, string(res), manifestName)
}
