package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/git"
	"github.com/mvp-joe/fragment-lint/internal/report"
)

// Test Plan for check:
// - Text report of a project with issues returns ErrIssuesFound
// - JSON report carries every diagnostic
// - Path arguments are resolved against the project root
// - A clean selection succeeds
// - Unknown formats fail before any work
// - --metrics-file writes the Prometheus textfile
// - --changed analyses changed files and their subclasses only

func project(t *testing.T) string {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", "project.txtar"))
	require.NoError(t, err)

	root := t.TempDir()
	for _, f := range ar.Files {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}
	return root
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Paths.Include = []string{"app/src/**/*.java"}
	cfg.Paths.Types = []string{"stubs/**/*.java"}
	return cfg
}

func TestExecuteCheck_Text(t *testing.T) {
	t.Parallel()

	root := project(t)
	var out bytes.Buffer
	err := executeCheck(context.Background(), root, testConfig(), nil, checkOptions{Format: report.FormatText, Quiet: true}, &out)
	require.ErrorIs(t, err, ErrIssuesFound)

	text := out.String()
	assert.Contains(t, text, "HomeFragment.java:9: Error:")
	assert.Contains(t, text, "[AccessDestroyedView]")
	assert.Contains(t, text, "[NullSafeMutableLiveData]")
	assert.Contains(t, text, "2 errors, 0 warnings")
}

func TestExecuteCheck_JSON(t *testing.T) {
	t.Parallel()

	root := project(t)
	var out bytes.Buffer
	err := executeCheck(context.Background(), root, testConfig(), nil, checkOptions{Format: report.FormatJSON}, &out)
	require.ErrorIs(t, err, ErrIssuesFound)

	var doc report.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Len(t, doc.Diagnostics, 2)
	assert.Equal(t, 4, doc.Summary.Files)
	assert.NotEmpty(t, doc.RunID)
}

func TestExecuteCheck_Targets(t *testing.T) {
	t.Parallel()

	root := project(t)
	var out bytes.Buffer
	err := executeCheck(context.Background(), root, testConfig(),
		[]string{filepath.Join("app", "src", "com", "example", "BaseFragment.java")},
		checkOptions{Format: report.FormatText, Quiet: true}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No issues found.")
}

func TestExecuteCheck_RuleSelection(t *testing.T) {
	t.Parallel()

	root := project(t)
	var out bytes.Buffer
	err := executeCheck(context.Background(), root, testConfig(), nil,
		checkOptions{Format: report.FormatText, Quiet: true, Rules: []string{"AccessDestroyedView"}}, &out)
	require.ErrorIs(t, err, ErrIssuesFound)
	assert.NotContains(t, out.String(), "NullSafeMutableLiveData")
}

func TestExecuteCheck_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := executeCheck(context.Background(), t.TempDir(), testConfig(), nil, checkOptions{Format: "xml"}, &bytes.Buffer{})
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestExecuteCheck_MetricsFile(t *testing.T) {
	t.Parallel()

	root := project(t)
	metrics := filepath.Join(t.TempDir(), "fraglint.prom")
	err := executeCheck(context.Background(), root, testConfig(), nil,
		checkOptions{Format: report.FormatJSON, MetricsFile: metrics}, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrIssuesFound)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fraglint_engine_classes_analyzed_total")
}

func TestExecuteCheck_Changed(t *testing.T) {
	t.Parallel()

	root := project(t)
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	ops := git.NewMockGitOps(resolved,
		filepath.Join(resolved, "app", "src", "com", "example", "BaseFragment.java"),
		filepath.Join(resolved, "README.md"),
		filepath.Join(t.TempDir(), "Elsewhere.java"),
	)
	var out bytes.Buffer
	err = executeCheck(context.Background(), root, testConfig(), nil,
		checkOptions{Format: report.FormatText, Quiet: true, Changed: "HEAD", Git: ops}, &out)
	require.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, out.String(), "[AccessDestroyedView]", "subclass of the changed base is analysed")
	assert.NotContains(t, out.String(), "NullSafeMutableLiveData")
	assert.Contains(t, out.String(), "1 errors, 0 warnings")
}

func TestExecuteCheck_ChangedNothing(t *testing.T) {
	t.Parallel()

	root := project(t)
	var out bytes.Buffer
	err := executeCheck(context.Background(), root, testConfig(), nil,
		checkOptions{Format: report.FormatText, Quiet: true, Changed: "HEAD", Git: git.NewMockGitOps(root)}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No issues found.")
}
