package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/valreport/internal/cli"
	"github.com/yaklabco/valreport/internal/configloader"
	"github.com/yaklabco/valreport/pkg/config"
	"github.com/yaklabco/valreport/pkg/fsutil"
	"github.com/yaklabco/valreport/pkg/report"
	"github.com/yaklabco/valreport/pkg/reporter"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"}
}

// workspace creates an isolated project directory and makes it the working
// directory for the rest of the test.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(dir)
	return dir
}

// writeSnapshot compiles a tabular report with count E001 errors in sheet and
// stores it at path.
func writeSnapshot(t *testing.T, path, filename, sheet string, count, maxIssues int) {
	t.Helper()
	rep := report.NewForProcessor(report.PresetTabular, "procA")
	rep.MaxIssuesPerCode = maxIssues
	for i := range count {
		require.NoError(t, rep.AddIssue(config.SeverityError, "E001", "value rejected", report.Cell(i+1, 1).InSheet(sheet)))
	}
	data, err := reporter.Marshal(rep.Compile(report.CompileOptions{Filename: filename}), false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readSnapshot(t *testing.T, path string) *report.Snapshot {
	t.Helper()
	snap, err := reporter.DecodeFile(context.Background(), path)
	require.NoError(t, err)
	return snap
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)
	assert.Equal(t, "valreport", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"merge", "inspect", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestMergeCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	mergeCmd, _, err := cmd.Find([]string{"merge"})
	require.NoError(t, err)

	for _, name := range []string{
		"output", "max-issues", "filename", "default-filename", "format", "preset",
		"jobs", "fail-fast", "compact", "strict", "ignore", "no-backups",
	} {
		assert.NotNil(t, mergeCmd.Flags().Lookup(name), name)
	}
	assert.NotNil(t, mergeCmd.InheritedFlags().Lookup("config"))
	assert.Equal(t, "o", mergeCmd.Flags().Lookup("output").Shorthand)
}

func TestMerge_WritesFile(t *testing.T) {
	dir := workspace(t)
	writeSnapshot(t, filepath.Join(dir, "a.json"), "a.xlsx", "s1", 3, 2)
	writeSnapshot(t, filepath.Join(dir, "b.json"), "b.xlsx", "s2", 1, 2)

	_, err := execute(t, "merge", "--max-issues", "2", "-o", "out.json")
	require.NoError(t, err)

	snap := readSnapshot(t, filepath.Join(dir, "out.json"))
	assert.Equal(t, "a.xlsx", snap.Filename)
	assert.Equal(t, report.SkipLedger{"procA|E001": {Skipped: 2, Kept: 2, Total: 4}}, snap.IssuesSkipped)
	require.Len(t, snap.Tables, 2)
	assert.Equal(t, "a.xlsx:s1", snap.Tables[0].Source)
	assert.Equal(t, 2, snap.Tables[0].ErrorCount)
	assert.Equal(t, "a.xlsx:s2", snap.Tables[1].Source)
	assert.Equal(t, 0, snap.Tables[1].ErrorCount)
	assert.Equal(t, 2, snap.ErrorCount)
	assert.False(t, snap.Valid)

	// The output is not read back as an input, and identical content is not rewritten.
	_, err = execute(t, "merge", "--max-issues", "2", "-o", "out.json")
	require.NoError(t, err)
	assert.False(t, fsutil.Exists(filepath.Join(dir, "out.json"+fsutil.BackupSuffix)))

	_, err = execute(t, "merge", "--max-issues", "1", "-o", "out.json")
	require.NoError(t, err)
	assert.True(t, fsutil.Exists(filepath.Join(dir, "out.json"+fsutil.BackupSuffix)))

	snap = readSnapshot(t, filepath.Join(dir, "out.json"))
	assert.Equal(t, report.SkipCount{Skipped: 3, Kept: 1, Total: 4}, snap.IssuesSkipped["procA|E001"])
}

func TestMerge_Stdout(t *testing.T) {
	dir := workspace(t)
	writeSnapshot(t, filepath.Join(dir, "a.json"), "a.csv", "", 1, 5)

	out, err := execute(t, "merge", "a.json", "--filename", "merged.tsv", "--compact")
	require.NoError(t, err)

	snap, err := reporter.Decode(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.Equal(t, "merged.tsv", snap.Filename)
	require.Len(t, snap.Tables, 1)
	assert.Equal(t, "csv", *snap.Tables[0].Format, "the parsed format is kept")
	assert.Empty(t, snap.IssuesSkipped)
}

func TestMerge_ConfigFile(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".valreport.yml"),
		[]byte("max_issues_per_code: 1\nignore:\n  - \"skip-*.json\"\n"), 0o644))
	writeSnapshot(t, filepath.Join(dir, "a.json"), "a.csv", "", 2, 5)
	writeSnapshot(t, filepath.Join(dir, "skip-me.json"), "a.csv", "", 7, 5)

	out, err := execute(t, "merge")
	require.NoError(t, err)

	snap, err := reporter.Decode(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ErrorCount)
	assert.Equal(t, report.SkipCount{Skipped: 1, Kept: 1, Total: 2}, snap.IssuesSkipped["procA|E001"])
}

func TestMerge_Errors(t *testing.T) {
	t.Run("strict invalid report", func(t *testing.T) {
		dir := workspace(t)
		writeSnapshot(t, filepath.Join(dir, "a.json"), "a.csv", "", 1, 5)

		_, err := execute(t, "merge", "--strict")
		require.ErrorIs(t, err, cli.ErrInvalidReport)
		assert.Equal(t, cli.ExitInvalidReport, cli.ExitCode(err))
	})

	t.Run("no snapshots", func(t *testing.T) {
		workspace(t)

		_, err := execute(t, "merge")
		require.ErrorIs(t, err, report.ErrNoReports)
		assert.Equal(t, cli.ExitDataError, cli.ExitCode(err))
	})

	t.Run("malformed snapshot is reported after merging the rest", func(t *testing.T) {
		dir := workspace(t)
		writeSnapshot(t, filepath.Join(dir, "a.json"), "a.csv", "", 1, 5)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"tables": []}`), 0o644))

		out, err := execute(t, "merge", "--compact")
		require.ErrorIs(t, err, report.ErrMalformedSnapshot)
		assert.Equal(t, cli.ExitDataError, cli.ExitCode(err))
		assert.Contains(t, out, `"filename":"a.csv"`)
	})

	t.Run("fail fast", func(t *testing.T) {
		dir := workspace(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`[]`), 0o644))

		out, err := execute(t, "merge", "--fail-fast")
		require.ErrorIs(t, err, report.ErrMalformedSnapshot)
		assert.Empty(t, out)
	})

	t.Run("preset mismatch", func(t *testing.T) {
		dir := workspace(t)
		writeSnapshot(t, filepath.Join(dir, "a.json"), "a.csv", "", 1, 5)

		_, err := execute(t, "merge", "--preset", "geojson")
		require.ErrorIs(t, err, report.ErrPresetMismatch)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		workspace(t)

		_, err := execute(t, "merge", "--preset", "spreadsheet")
		require.ErrorIs(t, err, cli.ErrConfig)
		assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
	})

	t.Run("missing path", func(t *testing.T) {
		workspace(t)

		_, err := execute(t, "merge", "nope.json")
		require.Error(t, err)
	})
}

func TestInspect(t *testing.T) {
	dir := workspace(t)
	writeSnapshot(t, filepath.Join(dir, "a.json"), "a.xlsx", "people", 3, 2)

	out, err := execute(t, "--color", "never", "inspect", "a.json")
	require.NoError(t, err)
	assert.Contains(t, out, "a.xlsx:people")
	assert.Contains(t, out, "procA|E001")
	assert.Contains(t, out, "invalid")

	out, err = execute(t, "--color", "never", "inspect", "a.json", "--by-class", "--sort", "alpha")
	require.NoError(t, err)
	assert.Regexp(t, `procA\|E001\s+2\s+0\s+0\s+1`, out)

	_, err = execute(t, "inspect", "a.json", "--sort", "size")
	require.Error(t, err)

	out, err = execute(t, "inspect", "a.json", "--no-table", "--strict")
	require.ErrorIs(t, err, cli.ErrInvalidReport)
	assert.Empty(t, out)

	_, err = execute(t, "inspect", "missing.json")
	require.ErrorIs(t, err, fsutil.ErrNotFound)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))

	_, err = execute(t, "inspect")
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := workspace(t)

	_, err := execute(t, "init")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, ".valreport.yml"))
	require.NoError(t, err)
	cfg, err := config.FromYAML(content)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxIssuesPerCode, cfg.MaxIssuesPerCode)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".valreport.yml"), []byte("preset: tabular\n"), 0o644))
	_, err = execute(t, "init", "--force")
	require.NoError(t, err)
	content, err = os.ReadFile(filepath.Join(dir, ".valreport.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "max_issues_per_code")

	_, err = execute(t, "init", "-o", "custom.yml")
	require.NoError(t, err)
	assert.True(t, fsutil.Exists(filepath.Join(dir, "custom.yml")))
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "valreport")
	assert.Contains(t, out, "test-version")
	assert.Contains(t, out, "test-commit")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, cli.ExitSuccess},
		{cli.ErrInvalidReport, cli.ExitInvalidReport},
		{fmt.Errorf("load: %w", report.ErrMalformedSnapshot), cli.ExitDataError},
		{report.ErrPresetMismatch, cli.ExitDataError},
		{errors.Join(cli.ErrConfig, errors.New("bad")), cli.ExitConfigError},
		{&configloader.ValidationError{Field: "jobs", Message: "bad"}, cli.ExitConfigError},
		{fmt.Errorf("read: %w", fsutil.ErrPermissionDenied), cli.ExitIOError},
		{errors.New("anything else"), cli.ExitFailure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cli.ExitCode(tt.err), "%v", tt.err)
	}
}
