package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures snapshot output.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Compact disables indentation.
	Compact bool
}

// DefaultOptions returns Options writing indented JSON to stdout.
func DefaultOptions() Options {
	return Options{Writer: os.Stdout}
}
