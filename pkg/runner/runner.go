package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/valreport/internal/logging"
	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/report"
	"github.com/yaklabco/valreport/pkg/reporter"
)

// Loader turns one snapshot file into a report.
type Loader interface {
	Load(ctx context.Context, path string) (*report.Report, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) (*report.Report, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, path string) (*report.Report, error) {
	return f(ctx, path)
}

// SnapshotLoader decodes a snapshot file and parses it back into a report.
type SnapshotLoader struct{}

// Load implements Loader.
func (SnapshotLoader) Load(ctx context.Context, path string) (*report.Report, error) {
	snap, err := reporter.DecodeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	rep, err := report.Parse(snap)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rep, nil
}

// Runner discovers snapshot files and loads them with a bounded worker pool.
type Runner struct {
	Loader Loader
}

// New creates a Runner. A nil loader selects SnapshotLoader.
func New(loader Loader) *Runner {
	if loader == nil {
		loader = SnapshotLoader{}
	}
	return &Runner{Loader: loader}
}

// Run discovers files under opts.Paths and loads them concurrently.
// Outcomes are returned in path order whatever order the workers finish in.
//
// With opts.FailFast the first load failure cancels the remaining work and is
// returned as the error, along with the outcomes collected so far.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	logger.Debug("discovered snapshots", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	group.Go(func() error {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-groupCtx.Done():
				return nil
			case workCh <- path:
			}
		}
		return nil
	})

	for range jobs {
		group.Go(func() error {
			return r.worker(groupCtx, workCh, outCh, opts)
		})
	}

	var runErr error
	go func() {
		runErr = group.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	logger.Debug("loaded snapshots",
		logging.FieldFilesLoaded, result.Stats.FilesLoaded,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldIssuesTotal, result.Stats.IssuesTotal,
	)

	if runErr != nil {
		return result, runErr
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker loads files from workCh and sends outcomes to outCh. It returns an
// error only in fail-fast mode, which cancels the group.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	opts Options,
) error {
	for path := range workCh {
		if ctx.Err() != nil {
			return nil
		}

		fileCtx, logger := logging.With(ctx, logging.FieldPath, path)
		outcome := FileOutcome{Path: path}
		rep, err := r.Loader.Load(fileCtx, path)
		if err == nil {
			err = checkPreset(rep, opts.Config)
		}
		if err != nil {
			outcome.Error = err
			logger.Warn("failed to load snapshot", logging.FieldError, err)
		} else {
			outcome.Report = rep
			logger.Debug("loaded snapshot", logging.FieldIssuesTotal, rep.Len())
		}

		select {
		case <-ctx.Done():
			return nil
		case outCh <- outcome:
		}

		if outcome.Error != nil && opts.FailFast {
			return fmt.Errorf("load %s: %w", path, outcome.Error)
		}
	}
	return nil
}

// checkPreset rejects reports of another preset than the configured one.
func checkPreset(rep *report.Report, cfg *config.Config) error {
	if cfg == nil || cfg.Preset == "" || string(rep.Preset) == cfg.Preset {
		return nil
	}
	return fmt.Errorf("%w: expected %s, got %s", report.ErrPresetMismatch, cfg.Preset, rep.Preset)
}
