// Package config loads and validates the fraglint project configuration.
package config

// Config represents the complete fraglint configuration.
// It can be loaded from .fraglint/config.yml with environment variable overrides.
type Config struct {
	// RootType is the universal supertype excluded from conformance searches.
	RootType string       `yaml:"root_type" mapstructure:"root_type" validate:"required"`
	Jobs     int          `yaml:"jobs" mapstructure:"jobs" validate:"min=0"` // parallel class visits, 0 = GOMAXPROCS
	Paths    PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Rules    RulesConfig  `yaml:"rules" mapstructure:"rules"`
	Output   OutputConfig `yaml:"output" mapstructure:"output"`
}

// PathsConfig defines which files to analyse and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include" validate:"required,min=1,dive,required"` // glob patterns for analysed sources
	Types   []string `yaml:"types" mapstructure:"types" validate:"dive,required"`                    // glob patterns indexed for declarations only
	Ignore  []string `yaml:"ignore" mapstructure:"ignore" validate:"dive,required"`                  // glob patterns to ignore
}

// RulesConfig holds per-rule settings.
type RulesConfig struct {
	ViewBinding ViewBindingConfig `yaml:"view_binding" mapstructure:"view_binding"`
	LiveData    LiveDataConfig    `yaml:"live_data" mapstructure:"live_data"`
}

// ViewBindingConfig configures AccessDestroyedView.
type ViewBindingConfig struct {
	Enabled          bool     `yaml:"enabled" mapstructure:"enabled"`
	Severity         string   `yaml:"severity" mapstructure:"severity" validate:"oneof=info warning error fatal"`
	MarkerType       string   `yaml:"marker_type" mapstructure:"marker_type" validate:"required"`
	BaseTypes        []string `yaml:"base_types" mapstructure:"base_types" validate:"required,min=1,unique,dive,required"`
	LifecycleMethods []string `yaml:"lifecycle_methods" mapstructure:"lifecycle_methods" validate:"required,min=1,unique,dive,required"`
}

// LiveDataConfig configures NullSafeMutableLiveData.
type LiveDataConfig struct {
	Enabled             bool     `yaml:"enabled" mapstructure:"enabled"`
	Severity            string   `yaml:"severity" mapstructure:"severity" validate:"oneof=info warning error fatal"`
	ContainerTypes      []string `yaml:"container_types" mapstructure:"container_types" validate:"required,min=1,unique,dive,required"`
	MutatorMethods      []string `yaml:"mutator_methods" mapstructure:"mutator_methods" validate:"required,min=1,unique,dive,required"`
	NullableAnnotations []string `yaml:"nullable_annotations" mapstructure:"nullable_annotations" validate:"required,min=1,unique"`
	NonNullAnnotations  []string `yaml:"non_null_annotations" mapstructure:"non_null_annotations" validate:"required,min=1,unique"`
	// FixAnnotation is inserted before a type argument to mark it nullable.
	FixAnnotation string `yaml:"fix_annotation" mapstructure:"fix_annotation" validate:"required"`
	// AssumeNonNull treats unannotated type arguments as non-null.
	AssumeNonNull  bool   `yaml:"assume_non_null" mapstructure:"assume_non_null"`
	UnwrapTemplate string `yaml:"unwrap_template" mapstructure:"unwrap_template" validate:"required,contains=%s"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format    string `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
	Color     string `yaml:"color" mapstructure:"color" validate:"oneof=auto always never"`
	ShowFixes bool   `yaml:"show_fixes" mapstructure:"show_fixes"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		RootType: "java.lang.Object",
		Jobs:     0,
		Paths: PathsConfig{
			Include: []string{"**/*.java"},
			Types:   []string{},
			Ignore: []string{
				"**/build/**",
				".git/**",
				".gradle/**",
				"**/node_modules/**",
			},
		},
		Rules: RulesConfig{
			ViewBinding: ViewBindingConfig{
				Enabled:    true,
				Severity:   "fatal",
				MarkerType: "androidx.viewbinding.ViewBinding",
				BaseTypes: []string{
					"android.app.Fragment",
					"androidx.fragment.app.Fragment",
					"android.support.v4.app.Fragment",
				},
				LifecycleMethods: []string{
					"onCreate",
					"onCreateView",
					"onSaveInstanceState",
					"onDestroy",
				},
			},
			LiveData: LiveDataConfig{
				Enabled:  true,
				Severity: "fatal",
				ContainerTypes: []string{
					"androidx.lifecycle.MutableLiveData",
					"androidx.lifecycle.LiveData",
				},
				MutatorMethods:      []string{"setValue", "postValue"},
				NullableAnnotations: []string{"Nullable", "CheckForNull"},
				NonNullAnnotations:  []string{"NonNull", "NotNull", "Nonnull"},
				FixAnnotation:       "androidx.annotation.Nullable",
				AssumeNonNull:       false,
				UnwrapTemplate:      "java.util.Objects.requireNonNull(%s)",
			},
		},
		Output: OutputConfig{
			Format:    "text",
			Color:     "auto",
			ShowFixes: false,
		},
	}
}
