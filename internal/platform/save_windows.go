//go:build windows

package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeAtomic streams r into a temp file next to path and renames it.
// Windows has no fsync-then-rename guarantee, so this is best effort.
func writeAtomic(path string, r io.Reader) (int64, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".ytweb-*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmpFile, r)
	if err != nil {
		return n, fmt.Errorf("write file data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return n, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return n, fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	return n, nil
}
