//go:build !windows

package platform

import (
	"fmt"
	"io"

	"github.com/google/renameio/v2"
)

// writeAtomic streams r into a temp file next to path, fsyncs and renames it
func writeAtomic(path string, r io.Reader) (int64, error) {
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return 0, fmt.Errorf("create pending file: %w", err)
	}
	// no-op once the file has been committed
	defer func() { _ = pendingFile.Cleanup() }()

	n, err := io.Copy(pendingFile, r)
	if err != nil {
		return n, fmt.Errorf("write file data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return n, fmt.Errorf("atomically replace file: %w", err)
	}
	return n, nil
}
