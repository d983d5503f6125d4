package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is used when a server-provided name sanitizes to nothing
const DefaultFileName = "download.mp4"

// Characters not allowed in file names on at least one supported OS
const reservedChars = `<>:"/\|?*`

// SaveStream writes r into dir under a sanitized name that does not clash with an
// existing file. The file appears only once fully written. It returns the final
// path and the number of bytes written.
func SaveStream(dir, name string, r io.Reader) (string, int64, error) {
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return "", 0, fmt.Errorf("create download directory: %w", err)
	}

	path := UniquePath(dir, SanitizeFileName(name))
	n, err := writeAtomic(path, r)
	if err != nil {
		return "", n, err
	}
	return path, n, nil
}

// SanitizeFileName strips directory parts and characters that are invalid in file names
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(reservedChars, r) {
			return '_'
		}
		return r
	}, filepath.Base(strings.ReplaceAll(name, `\`, "/")))

	name = strings.Trim(name, " .")
	if name == "" || name == "_" {
		return DefaultFileName
	}
	return name
}

// UniquePath returns dir/name, or dir/"name (N).ext" for the first N that is free
func UniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, i, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}
