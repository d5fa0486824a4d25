// Package runner discovers compiled report snapshots on disk and loads them
// concurrently so they can be merged into one report.
package runner

import "github.com/yaklabco/valreport/pkg/config"

// Options controls discovery and loading of snapshot files.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered snapshots. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths, relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files or directories. Config ignore patterns and
	// --ignore both end up here.
	ExcludeGlobs []string

	// SkipFiles are paths never loaded, such as the output being written.
	SkipFiles []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent loaders.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// FailFast stops loading at the first file that cannot be loaded.
	FailFast bool

	// Config is the resolved configuration for this run. When it names a preset,
	// snapshots of another preset are rejected.
	Config *config.Config
}

// DefaultExtensions returns the default set of snapshot file extensions.
func DefaultExtensions() []string {
	return []string{".json"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
