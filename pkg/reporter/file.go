package reporter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yaklabco/valreport/pkg/fsutil"
	"github.com/yaklabco/valreport/pkg/report"
)

// FileOptions configures WriteFile.
type FileOptions struct {
	Compact bool
	Backup  fsutil.BackupConfig
}

// DecodeFile reads the snapshot stored at path.
func DecodeFile(ctx context.Context, path string) (*report.Snapshot, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	snap, err := Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return snap, nil
}

// WriteFile stores snap at path atomically. An existing file with different
// content is backed up first when opts.Backup is enabled. It reports whether
// the file was written; identical content leaves the file alone.
func WriteFile(ctx context.Context, path string, snap *report.Snapshot, opts FileOptions) (bool, error) {
	data, err := Marshal(snap, opts.Compact)
	if err != nil {
		return false, err
	}

	if existing, _, readErr := fsutil.ReadFile(ctx, path); readErr == nil {
		if bytes.Equal(existing, data) {
			return false, nil
		}
		if _, err := fsutil.CreateBackup(ctx, path, opts.Backup); err != nil {
			return false, err
		}
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, data, fsutil.DefaultFileMode)
	if err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return written, nil
}
