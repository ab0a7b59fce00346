package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory.
const DirName = ".fraglint"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader loads an explicit config file instead of searching rootDir.
func NewFileLoader(path string) Loader {
	return &loader{
		rootDir:    filepath.Dir(path),
		configFile: path,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (FRAGLINT_*)
// 2. Config file (.fraglint/config.yml or .fraglint/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	// Replace . with _ in env var names (e.g., FRAGLINT_RULES_VIEW_BINDING_MARKER_TYPE)
	v.SetEnvPrefix("FRAGLINT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var envKeys = []string{
	"root_type",
	"jobs",
	"rules.view_binding.enabled",
	"rules.view_binding.severity",
	"rules.view_binding.marker_type",
	"rules.view_binding.base_types",
	"rules.view_binding.lifecycle_methods",
	"rules.live_data.enabled",
	"rules.live_data.severity",
	"rules.live_data.assume_non_null",
	"rules.live_data.fix_annotation",
	"rules.live_data.unwrap_template",
	"output.format",
	"output.color",
	"output.show_fixes",
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("root_type", defaults.RootType)
	v.SetDefault("jobs", defaults.Jobs)

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.types", defaults.Paths.Types)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	vb := defaults.Rules.ViewBinding
	v.SetDefault("rules.view_binding.enabled", vb.Enabled)
	v.SetDefault("rules.view_binding.severity", vb.Severity)
	v.SetDefault("rules.view_binding.marker_type", vb.MarkerType)
	v.SetDefault("rules.view_binding.base_types", vb.BaseTypes)
	v.SetDefault("rules.view_binding.lifecycle_methods", vb.LifecycleMethods)

	ld := defaults.Rules.LiveData
	v.SetDefault("rules.live_data.enabled", ld.Enabled)
	v.SetDefault("rules.live_data.severity", ld.Severity)
	v.SetDefault("rules.live_data.container_types", ld.ContainerTypes)
	v.SetDefault("rules.live_data.mutator_methods", ld.MutatorMethods)
	v.SetDefault("rules.live_data.nullable_annotations", ld.NullableAnnotations)
	v.SetDefault("rules.live_data.non_null_annotations", ld.NonNullAnnotations)
	v.SetDefault("rules.live_data.fix_annotation", ld.FixAnnotation)
	v.SetDefault("rules.live_data.assume_non_null", ld.AssumeNonNull)
	v.SetDefault("rules.live_data.unwrap_template", ld.UnwrapTemplate)

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.color", defaults.Output.Color)
	v.SetDefault("output.show_fixes", defaults.Output.ShowFixes)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// Path returns the default config file location under rootDir.
func Path(rootDir string) string {
	return filepath.Join(rootDir, DirName, "config.yml")
}
