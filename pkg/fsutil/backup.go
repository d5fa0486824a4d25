package fsutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/valreport/pkg/config"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the file with BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is the suffix of sidecar backup files.
const BackupSuffix = ".valreport.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// BackupConfigFrom derives the backup settings of a run from its configuration.
func BackupConfigFrom(cfg *config.Config) BackupConfig {
	if cfg == nil {
		return BackupConfig{Mode: BackupModeNone}
	}
	mode := BackupMode(cfg.Backups.Mode)
	if mode == "" {
		mode = BackupModeSidecar
	}
	return BackupConfig{Enabled: cfg.BackupsEnabled(), Mode: mode}
}

// BackupPath returns the backup path for path, or "" when mode stores none.
// Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup copies the current content of path to its backup, replacing an
// older backup. It reports whether a backup was written; a missing original or
// disabled backups write nothing.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	backupPath := BackupPath(path, cfg.Mode)
	if backupPath == "" {
		return false, nil
	}

	content, info, err := ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, content, info.Mode.Perm()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}
