package lint

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/diag"
	"github.com/mvp-joe/fragment-lint/internal/registry"
	"github.com/mvp-joe/fragment-lint/internal/rules/livedata"
	"github.com/mvp-joe/fragment-lint/internal/rules/viewbinding"
)

// Test Plan for Runner:
// - Check reports both rules over a discovered project
// - Types-only files are loaded but never analysed
// - Targets narrow the analysed files without hiding declarations
// - Rule selection and unknown rules
// - Recheck of a base class re-analyses its subclasses
// - Recheck of a binding class re-analyses the fragments holding it
// - Watch re-checks after a file changes

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

func newRunner(t *testing.T, root string, opts Options) *Runner {
	t.Helper()
	r, err := New(root, testConfig(), opts)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func ruleIDs(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.RuleID)
	}
	return out
}

func TestCheck(t *testing.T) {
	t.Parallel()

	root := project(t)
	var analyze, types int
	r := newRunner(t, root, Options{OnDiscovered: func(a, ty int) { analyze, types = a, ty }})

	run, err := r.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, analyze)
	assert.Equal(t, 4, types)
	assert.Len(t, run.Analyzed, 4)
	assert.Len(t, run.Project.Units(), 8)

	require.Len(t, run.Result.Diagnostics, 2)
	assert.Equal(t, []string{viewbinding.ID, livedata.ID}, ruleIDs(run.Result.Diagnostics))
	assert.Equal(t, filepath.Join(root, "app/src/com/example/HomeFragment.java"), run.Result.Diagnostics[0].Span.File)
	assert.Equal(t, viewbinding.Message("onDestroy"), run.Result.Diagnostics[0].Message)
	assert.True(t, run.Result.HasErrors())
}

func TestCheck_Targets(t *testing.T) {
	t.Parallel()

	root := project(t)
	r := newRunner(t, root, Options{})

	run, err := r.Check(context.Background(), filepath.Join(root, "app", "src", "com", "example", "feature"))
	require.NoError(t, err)
	assert.Equal(t, []string{livedata.ID}, ruleIDs(run.Result.Diagnostics))
	assert.Len(t, run.Analyzed, 1)

	run, err = r.Check(context.Background(), filepath.Join(root, "app", "src", "com", "example", "HomeFragment.java"))
	require.NoError(t, err)
	assert.Equal(t, []string{viewbinding.ID}, ruleIDs(run.Result.Diagnostics), "base class in another file still resolves")
}

func TestCheck_RuleSelection(t *testing.T) {
	t.Parallel()

	root := project(t)
	r := newRunner(t, root, Options{Rules: []string{livedata.ID}})
	run, err := r.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{livedata.ID}, ruleIDs(run.Result.Diagnostics))

	_, err = New(root, testConfig(), Options{Rules: []string{"NoSuchRule"}})
	require.ErrorIs(t, err, registry.ErrUnknownRule)
}

func TestNew_NoRulesEnabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Rules.ViewBinding.Enabled = false
	cfg.Rules.LiveData.Enabled = false
	_, err := New(t.TempDir(), cfg, Options{})
	require.Error(t, err)
}

func TestRecheck_BaseClassAffectsSubclasses(t *testing.T) {
	t.Parallel()

	root := project(t)
	r := newRunner(t, root, Options{})

	base := filepath.Join(root, "app/src/com/example/BaseFragment.java")
	run, err := r.Recheck(context.Background(), []string{base})
	require.NoError(t, err)
	assert.Equal(t, []string{base, filepath.Join(root, "app/src/com/example/HomeFragment.java")}, run.Analyzed)
	assert.Equal(t, []string{viewbinding.ID}, ruleIDs(run.Result.Diagnostics))

	vm := filepath.Join(root, "app/src/com/example/feature/NamesViewModel.java")
	run, err = r.Recheck(context.Background(), []string{vm})
	require.NoError(t, err)
	assert.Equal(t, []string{vm}, run.Analyzed)
}

func TestRecheck_BindingChangeAffectsUsers(t *testing.T) {
	t.Parallel()

	root := project(t)
	r := newRunner(t, root, Options{})

	binding := filepath.Join(root, "app/src/com/example/HomeBinding.java")
	run, err := r.Recheck(context.Background(), []string{binding})
	require.NoError(t, err)
	assert.Equal(t, []string{binding, filepath.Join(root, "app/src/com/example/HomeFragment.java")}, run.Analyzed)
	assert.Equal(t, []string{viewbinding.ID}, ruleIDs(run.Result.Diagnostics))
}

func TestWatch(t *testing.T) {
	t.Parallel()

	root := project(t)
	r := newRunner(t, root, Options{})

	var mu sync.Mutex
	var runs []*Run
	got := make(chan struct{}, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, WatchOptions{
			Debounce: 50 * time.Millisecond,
			OnRun: func(run *Run, err error) {
				if err != nil {
					return
				}
				mu.Lock()
				runs = append(runs, run)
				mu.Unlock()
				got <- struct{}{}
			},
		})
	}()
	time.Sleep(200 * time.Millisecond)

	vm := filepath.Join(root, "app/src/com/example/feature/NamesViewModel.java")
	fixed := []byte("package com.example.feature;\n\npublic class NamesViewModel {\n}\n")
	require.NoError(t, os.WriteFile(vm, fixed, 0o644))

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("no re-check after change")
	}
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{vm}, runs[0].Analyzed)
	assert.Empty(t, runs[0].Result.Diagnostics)
}
