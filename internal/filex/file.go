// Package filex provides small filesystem helpers used by the store for
// materializing blob content into caller-visible temporary files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and any missing parents) and returns its absolute
// path. Safe to call repeatedly.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// WriteTemp writes content to a fresh uniquely-named file inside dir and
// returns its path. The pattern follows os.CreateTemp conventions: a "*"
// is replaced by a random string, otherwise the random string is appended.
// The file is caller-owned; nothing tracks or removes it.
func WriteTemp(dir, pattern string, content []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	_, werr := f.Write(content)
	cerr := f.Close()

	if werr != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", werr)
	}
	if cerr != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", cerr)
	}

	return f.Name(), nil
}
