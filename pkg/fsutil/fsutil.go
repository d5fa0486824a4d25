// Package fsutil provides the file system primitives valreport uses for reading
// snapshots and writing compiled reports: categorized read errors, atomic writes
// and sidecar backups.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// FileInfo describes a file as it was when read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	Size    int64
	ModTime time.Time
}

// ReadFile reads a regular file. Missing files, permission problems and
// directories are reported with the matching sentinel error.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, categorize(path, "stat", err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, categorize(path, "read", err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		Size:    stat.Size(),
		ModTime: stat.ModTime(),
	}, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsIOError reports whether err carries one of the package's sentinel errors.
func IsIOError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrIsDirectory)
}

func categorize(path, op string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
