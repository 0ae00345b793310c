// Package filex holds local file helpers for the CLI cover commands.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxCoverSize caps the size of a cover image read from disk.
const MaxCoverSize = 10 << 20

// EnsureSubdDir creates dirName under the working directory if needed and
// returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadLimited reads path, failing when it is larger than limit bytes.
func ReadLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%s is larger than %d bytes", path, limit)
	}
	return b, nil
}

// SaveToSubdDir writes data to dirName/fileName under the working directory
// and returns the full path.
func SaveToSubdDir(dirName, fileName string, data []byte) (string, error) {
	dir, err := EnsureSubdDir(dirName)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
