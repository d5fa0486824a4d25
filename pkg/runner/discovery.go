package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds snapshot files matching opts. It returns a sorted list of
// absolute file paths without duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	filter, err := newFilter(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			// Explicit files only need the right extension and must not be excluded.
			if filter.acceptFile(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := filter.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// filter holds the compiled discovery criteria.
type filter struct {
	workDir        string
	extensions     []string
	include        []glob.Glob
	exclude        []glob.Glob
	skip           map[string]struct{}
	followSymlinks bool
}

func newFilter(workDir string, opts Options) (*filter, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	extensions := make([]string, 0, len(opts.effectiveExtensions()))
	for _, ext := range opts.effectiveExtensions() {
		extensions = append(extensions, strings.ToLower(ext))
	}

	skip := make(map[string]struct{}, len(opts.SkipFiles))
	for _, path := range opts.SkipFiles {
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		skip[filepath.Clean(path)] = struct{}{}
	}

	return &filter{
		workDir:        workDir,
		extensions:     extensions,
		include:        include,
		exclude:        exclude,
		skip:           skip,
		followSymlinks: opts.FollowSymlinks,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// walk recursively collects matching files under root. Hidden entries below
// root are skipped.
func (f *filter) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (path != root && f.excluded(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !f.followSymlinks {
					return nil
				}
				// Walk the target: WalkDir does not descend into a symlinked root.
				sub, err := f.walk(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if f.acceptFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func (f *filter) acceptFile(path string) bool {
	if _, ok := f.skip[path]; ok {
		return false
	}
	if !slices.Contains(f.extensions, strings.ToLower(filepath.Ext(path))) {
		return false
	}
	if f.excluded(path) {
		return false
	}
	if len(f.include) > 0 && !matchAny(f.include, f.rel(path)) {
		return false
	}
	return true
}

func (f *filter) excluded(path string) bool {
	return matchAny(f.exclude, f.rel(path))
}

func (f *filter) rel(path string) string {
	rel, err := filepath.Rel(f.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// matchAny matches the relative path, and then its base name, against globs so
// that "*.tmp.json" excludes files in any directory.
func matchAny(globs []glob.Glob, rel string) bool {
	base := pathBase(rel)
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

func pathBase(rel string) string {
	if idx := strings.LastIndexByte(rel, '/'); idx >= 0 {
		return rel[idx+1:]
	}
	return rel
}
