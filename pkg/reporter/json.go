package reporter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/valreport/pkg/report"
)

// JSONWriter encodes snapshots as JSON.
type JSONWriter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(opts Options) *JSONWriter {
	return &JSONWriter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Write implements Writer. Output is indented unless Compact is set, and HTML
// characters are written as is.
func (w *JSONWriter) Write(ctx context.Context, snap *report.Snapshot) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	defer func() {
		if flushErr := w.bw.Flush(); err == nil && flushErr != nil {
			err = fmt.Errorf("flush output: %w", flushErr)
		}
	}()

	encoder := json.NewEncoder(w.bw)
	encoder.SetEscapeHTML(false)
	if !w.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// Marshal encodes a snapshot the way JSONWriter does.
func Marshal(snap *report.Snapshot, compact bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewJSONWriter(Options{Writer: &buf, Compact: compact}).Write(context.Background(), snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
