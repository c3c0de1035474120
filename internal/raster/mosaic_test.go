package raster

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles_list.txt")
	files := []string{"/cache/GLO-30/N49E024/N49E024.tif", "/cache/GLO-30/N49E025/N49E025.tif"}

	if err := WriteManifest(path, files); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := files[0] + "\n" + files[1] + "\n"
	if string(data) != want {
		t.Errorf("manifest = %q, want %q", data, want)
	}
}

func TestWriteManifestReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles_list.txt")

	if err := WriteManifest(path, []string{"/old/a.tif", "/old/b.tif"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteManifest(path, []string{"/new/c.tif"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "/new/c.tif\n" {
		t.Errorf("manifest = %q, want only the new list", data)
	}
}
