// Package lint ties discovery, the Java loader and the engine into one
// check over a project directory.
package lint

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/discovery"
	"github.com/mvp-joe/fragment-lint/internal/engine"
	"github.com/mvp-joe/fragment-lint/internal/javasrc"
	"github.com/mvp-joe/fragment-lint/internal/registry"
	"github.com/mvp-joe/fragment-lint/internal/rules"
)

// Options configures a Runner.
type Options struct {
	// Rules restricts the run to these rule ids; empty runs every enabled
	// rule.
	Rules    []string
	Logger   *slog.Logger
	Progress engine.ProgressReporter
	// OnDiscovered is called with the number of files about to be loaded.
	OnDiscovered func(analyze, types int)
	OnFileParsed func(path string)
}

// Run is the outcome of one check.
type Run struct {
	Result  *engine.Result
	Project *javasrc.Project
	// Analyzed lists the files whose classes were visited.
	Analyzed []string
	Elapsed  time.Duration
}

// Runner checks a project directory. It keeps a parse cache so repeated
// checks only re-parse files that changed.
type Runner struct {
	cfg       *config.Config
	discovery *discovery.Discovery
	cache     *javasrc.ParseCache
	engine    *engine.Engine
	opts      Options
	logger    *slog.Logger
}

// New creates a runner over rootDir.
func New(rootDir string, cfg *config.Config, opts Options) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	disc, err := discovery.New(rootDir, cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to configure discovery: %w", err)
	}

	ruleSet, err := Rules(cfg, opts.Rules...)
	if err != nil {
		return nil, err
	}

	ld := cfg.Rules.LiveData
	cache, err := javasrc.NewParseCache(javasrc.NewParser(ld.NullableAnnotations, ld.NonNullAnnotations), javasrc.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	engOpts := []engine.Option{engine.WithJobs(cfg.Jobs), engine.WithLogger(logger)}
	if opts.Progress != nil {
		engOpts = append(engOpts, engine.WithProgress(opts.Progress))
	}

	return &Runner{
		cfg:       cfg,
		discovery: disc,
		cache:     cache,
		engine:    engine.New(ruleSet, engOpts...),
		opts:      opts,
		logger:    logger,
	}, nil
}

// Rules instantiates the built-in rules for cfg.
func Rules(cfg *config.Config, ids ...string) ([]registry.Rule, error) {
	ruleSet, err := rules.Builtin().Instantiate(cfg, ids...)
	if err != nil {
		return nil, err
	}
	if len(ruleSet) == 0 {
		return nil, fmt.Errorf("no rules enabled")
	}
	return ruleSet, nil
}

// Discovery returns the runner's file discovery.
func (r *Runner) Discovery() *discovery.Discovery {
	return r.discovery
}

// Close releases the parse cache.
func (r *Runner) Close() {
	r.cache.Close()
}

// Check analyses the included files under targets, or every included file
// when no targets are given. All discovered files contribute declarations.
func (r *Runner) Check(ctx context.Context, targets ...string) (*Run, error) {
	return r.run(ctx, func(p *javasrc.Project, candidates []string) []string {
		if len(targets) == 0 {
			return candidates
		}
		var out []string
		for _, path := range candidates {
			if underAny(path, targets) {
				out = append(out, path)
			}
		}
		return out
	})
}

// Recheck analyses the changed files plus every file declaring a subtype
// of a type they declare or a type whose members refer to one.
func (r *Runner) Recheck(ctx context.Context, changed []string) (*Run, error) {
	// Removed files would otherwise stay cached.
	for _, path := range changed {
		r.cache.Forget(path)
	}
	return r.run(ctx, func(p *javasrc.Project, candidates []string) []string {
		affected := make(map[string]bool)
		for _, path := range p.Hierarchy().Affected(changed) {
			affected[path] = true
		}
		var out []string
		for _, path := range candidates {
			if affected[path] {
				out = append(out, path)
			}
		}
		return out
	})
}

// selectFunc narrows the analysable files of a loaded project.
type selectFunc func(p *javasrc.Project, candidates []string) []string

func (r *Runner) run(ctx context.Context, pick selectFunc) (*Run, error) {
	start := time.Now()

	files, err := r.discovery.Discover()
	if err != nil {
		return nil, err
	}
	if r.opts.OnDiscovered != nil {
		r.opts.OnDiscovered(len(files.Analyze), len(files.Types))
	}

	ld := r.cfg.Rules.LiveData
	project, err := javasrc.Load(ctx, files.Analyze, files.Types, javasrc.Options{
		NullableAnnotations: ld.NullableAnnotations,
		NonNullAnnotations:  ld.NonNullAnnotations,
		Cache:               r.cache,
		Jobs:                r.cfg.Jobs,
		Logger:              r.logger,
		OnFileParsed:        r.opts.OnFileParsed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	selected := pick(project, files.Analyze)
	model := newSubset(project, selected)
	r.logger.Debug("analysing",
		slog.Int("files", len(selected)),
		slog.Int("loaded", len(project.Units())))

	res, err := r.engine.Run(ctx, model)
	return &Run{Result: res, Project: project, Analyzed: selected, Elapsed: time.Since(start)}, err
}

// underAny reports whether path is one of targets or inside one of them.
func underAny(path string, targets []string) bool {
	path = filepath.Clean(path)
	for _, t := range targets {
		t = filepath.Clean(t)
		if t == "." || path == t || strings.HasPrefix(path, t+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
