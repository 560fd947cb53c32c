// Package fsstore holds the bot's local file access: the log directory, the
// log snapshot read by /logs and the exports written by the decode command.
package fsstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm         = 0o700
	defaultFilePerm = 0o600
)

type FileOptions struct {
	// Perm is the mode of the written file. Zero means owner read/write.
	Perm os.FileMode
}

func cleanPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	return filepath.Clean(path), nil
}

// EnsureDir creates path and its parents, owner-only.
func EnsureDir(path string) error {
	dir, err := cleanPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("fsstore: ensure dir %s: %w", dir, err)
	}
	return nil
}

// ReadText returns the file content and false when the file does not exist.
func ReadText(path string) (string, bool, error) {
	p, err := cleanPath(path)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fsstore: read %s: %w", p, err)
	}
	return string(data), true, nil
}

// WriteTextAtomic replaces path with content through a temp file in the same
// directory, so readers see the old file or the new one.
func WriteTextAtomic(path string, content string, opts FileOptions) error {
	p, err := cleanPath(path)
	if err != nil {
		return err
	}
	perm := opts.Perm
	if perm == 0 {
		perm = defaultFilePerm
	}
	dir := filepath.Dir(p)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p)+".tmp.*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAtomicWriteFailed, p, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = tmp.WriteString(content)
	if err == nil {
		err = tmp.Sync()
	}
	if err == nil {
		err = tmp.Chmod(perm)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, p)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAtomicWriteFailed, p, err)
	}
	return nil
}
