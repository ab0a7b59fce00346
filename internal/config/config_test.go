package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load() uses defaults when no config file exists
// - Load() reads .fraglint/config.yml and .fraglint/config.yaml
// - Load() merges a partial config file with defaults
// - Environment variables override config file values
// - Load() returns error for malformed YAML
// - NewFileLoader() fails for a missing explicit file
// - Validate() rejects empty, duplicate and unqualified entries
// - Validate() rejects bad severities, formats and templates
// - Validate() reports multiple errors, each reachable with errors.Is

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, DirName)
	require.NoError(t, os.MkdirAll(cfgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, name), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	vb := cfg.Rules.ViewBinding
	assert.True(t, vb.Enabled)
	assert.Equal(t, "fatal", vb.Severity)
	assert.Equal(t, "androidx.viewbinding.ViewBinding", vb.MarkerType)
	assert.Equal(t, []string{"onCreate", "onCreateView", "onSaveInstanceState", "onDestroy"}, vb.LifecycleMethods)
	assert.Contains(t, vb.BaseTypes, "androidx.fragment.app.Fragment")

	ld := cfg.Rules.LiveData
	assert.Equal(t, []string{"setValue", "postValue"}, ld.MutatorMethods)
	assert.False(t, ld.AssumeNonNull)

	assert.Equal(t, "java.lang.Object", cfg.RootType)
	assert.Equal(t, []string{"**/*.java"}, cfg.Paths.Include)
	assert.Equal(t, "text", cfg.Output.Format)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	expected := Default()
	assert.Equal(t, expected.RootType, cfg.RootType)
	assert.Equal(t, expected.Paths.Include, cfg.Paths.Include)
	assert.Equal(t, expected.Rules.ViewBinding, cfg.Rules.ViewBinding)
	assert.Equal(t, expected.Rules.LiveData, cfg.Rules.LiveData)
	assert.Equal(t, expected.Output, cfg.Output)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", `
jobs: 4
paths:
  include: ["app/src/**/*.java"]
  types: ["app/build/generated/**/*.java"]
rules:
  view_binding:
    severity: error
    lifecycle_methods: [onDestroy]
  live_data:
    enabled: false
output:
  format: json
`)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, []string{"app/src/**/*.java"}, cfg.Paths.Include)
	assert.Equal(t, []string{"app/build/generated/**/*.java"}, cfg.Paths.Types)
	assert.Equal(t, "error", cfg.Rules.ViewBinding.Severity)
	assert.Equal(t, []string{"onDestroy"}, cfg.Rules.ViewBinding.LifecycleMethods)
	assert.False(t, cfg.Rules.LiveData.Enabled)
	assert.Equal(t, "json", cfg.Output.Format)

	// Untouched settings keep their defaults
	assert.Equal(t, "androidx.viewbinding.ViewBinding", cfg.Rules.ViewBinding.MarkerType)
	assert.Equal(t, []string{"setValue", "postValue"}, cfg.Rules.LiveData.MutatorMethods)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
rules:
  view_binding:
    marker_type: com.example.Binding
`)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "com.example.Binding", cfg.Rules.ViewBinding.MarkerType)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", `
output:
  format: json
`)
	t.Setenv("FRAGLINT_OUTPUT_FORMAT", "text")
	t.Setenv("FRAGLINT_RULES_VIEW_BINDING_SEVERITY", "warning")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "warning", cfg.Rules.ViewBinding.Severity)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", "rules: [unterminated\n")

	_, err := NewLoader(dir).Load()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", `
rules:
  view_binding:
    severity: blocking
`)

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestNewFileLoader_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.yml")).Load()
	assert.Error(t, err)
}

func TestNewFileLoader_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: 2\n"), 0644))

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Jobs)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty lifecycle methods", func(c *Config) { c.Rules.ViewBinding.LifecycleMethods = nil }, ErrMissingValue},
		{"duplicate lifecycle method", func(c *Config) {
			c.Rules.ViewBinding.LifecycleMethods = []string{"onCreate", "onCreate"}
		}, ErrDuplicateEntry},
		{"blank marker", func(c *Config) { c.Rules.ViewBinding.MarkerType = "" }, ErrMissingValue},
		{"unqualified marker", func(c *Config) { c.Rules.ViewBinding.MarkerType = "ViewBinding" }, ErrUnqualifiedType},
		{"bad method name", func(c *Config) { c.Rules.ViewBinding.LifecycleMethods = []string{"on Create"} }, ErrInvalidIdentifier},
		{"bad severity", func(c *Config) { c.Rules.LiveData.Severity = "loud" }, ErrInvalidChoice},
		{"bad format", func(c *Config) { c.Output.Format = "sarif" }, ErrInvalidChoice},
		{"template without verb", func(c *Config) { c.Rules.LiveData.UnwrapTemplate = "requireNonNull()" }, ErrInvalidTemplate},
		{"template with two verbs", func(c *Config) { c.Rules.LiveData.UnwrapTemplate = "f(%s, %s)" }, ErrInvalidTemplate},
		{"negative jobs", func(c *Config) { c.Jobs = -1 }, ErrInvalidValue},
		{"conflicting annotations", func(c *Config) {
			c.Rules.LiveData.NonNullAnnotations = append(c.Rules.LiveData.NonNullAnnotations, "Nullable")
		}, ErrDuplicateEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Rules.ViewBinding.MarkerType = "Binding"
	cfg.Output.Color = "rainbow"
	cfg.Rules.LiveData.MutatorMethods = []string{"set-value"}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed:")
	assert.ErrorIs(t, err, ErrUnqualifiedType)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}
