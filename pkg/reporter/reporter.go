// Package reporter reads and writes compiled report snapshots.
package reporter

import (
	"context"
	"io"

	"github.com/yaklabco/valreport/pkg/report"
)

// Compile-time interface check.
var _ Writer = (*JSONWriter)(nil)

// Writer writes a compiled snapshot.
type Writer interface {
	Write(ctx context.Context, snap *report.Snapshot) error
}

// New creates the snapshot writer for opts. A nil opts.Writer selects stdout.
func New(opts Options) Writer {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	return NewJSONWriter(opts)
}

// Decode reads one snapshot from r.
func Decode(r io.Reader) (*report.Snapshot, error) {
	return report.DecodeSnapshot(r)
}
