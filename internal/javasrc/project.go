// Package javasrc builds the source model from Java files using
// tree-sitter.
package javasrc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

var tracer = otel.Tracer("fraglint.javasrc")

// Input is one source file handed to Build.
type Input struct {
	Path    string
	Source  []byte
	Analyze bool
}

// Options configures a load.
type Options struct {
	// NullableAnnotations and NonNullAnnotations are annotation simple
	// names read as nullability markers.
	NullableAnnotations []string
	NonNullAnnotations  []string

	// Cache reuses parsed files across loads. It must have been created
	// with a parser using the same annotation lists.
	Cache *ParseCache

	// Jobs bounds parallel parsing; zero means GOMAXPROCS.
	Jobs   int
	Logger *slog.Logger

	// OnFileParsed is called after each file is parsed, possibly from
	// several goroutines.
	OnFileParsed func(path string)
}

// Project is a loaded set of Java files. It implements source.Model.
type Project struct {
	units     []*source.Unit
	byPath    map[string]*source.Unit
	resolver  *resolver
	hierarchy *Hierarchy
	skipped   []string
}

var _ source.Model = (*Project)(nil)

func (p *Project) Units() []*source.Unit      { return p.units }
func (p *Project) Resolver() source.Resolver { return p.resolver }

// Hierarchy returns the subtype and member reference graph of the loaded
// declarations.
func (p *Project) Hierarchy() *Hierarchy { return p.hierarchy }

// Unit returns the unit loaded from path.
func (p *Project) Unit(path string) (*source.Unit, bool) {
	u, ok := p.byPath[path]
	return u, ok
}

// Skipped lists files that could not be read or parsed.
func (p *Project) Skipped() []string { return p.skipped }

// Load reads and parses the given files. Files in analyze are linted;
// files only in types contribute declarations. Unreadable files are
// logged and skipped.
func Load(ctx context.Context, analyze, types []string, opts Options) (*Project, error) {
	ctx, span := tracer.Start(ctx, "javasrc.Load")
	defer span.End()
	span.SetAttributes(attribute.Int("analyze", len(analyze)), attribute.Int("types", len(types)))

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	order := make([]string, 0, len(analyze)+len(types))
	linted := make(map[string]bool, len(analyze)+len(types))
	for _, path := range analyze {
		if _, seen := linted[path]; !seen {
			order = append(order, path)
		}
		linted[path] = true
	}
	for _, path := range types {
		if _, seen := linted[path]; !seen {
			order = append(order, path)
			linted[path] = false
		}
	}

	inputs := make([]Input, 0, len(order))
	var skipped []string
	for _, path := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file", slog.String("file", path), slog.Any("error", err))
			skipped = append(skipped, path)
			continue
		}
		inputs = append(inputs, Input{Path: path, Source: src, Analyze: linted[path]})
	}

	p, err := Build(ctx, inputs, opts)
	if err != nil {
		return nil, err
	}
	p.skipped = append(skipped, p.skipped...)
	return p, nil
}

// Build parses and indexes in-memory sources.
func Build(ctx context.Context, inputs []Input, opts Options) (*Project, error) {
	ctx, span := tracer.Start(ctx, "javasrc.Build")
	defer span.End()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	parse := NewParser(opts.NullableAnnotations, opts.NonNullAnnotations).Parse
	if opts.Cache != nil {
		parse = opts.Cache.Parse
	}

	files := make([]*File, len(inputs))
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(inputs))))
	for i, in := range inputs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			f, err := parse(in.Path, in.Source)
			if err != nil {
				logger.Warn("skipping unparseable file", slog.String("file", in.Path), slog.Any("error", err))
				return nil
			}
			if f.HasErrors {
				logger.Debug("file has syntax errors", slog.String("file", in.Path))
			}
			files[i] = f
			if opts.OnFileParsed != nil {
				opts.OnFileParsed(in.Path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing interrupted: %w", err)
	}

	p := &Project{byPath: make(map[string]*source.Unit)}
	ix := newIndex(newNullness(opts.NullableAnnotations, opts.NonNullAnnotations))
	for i, f := range files {
		if f == nil {
			p.skipped = append(p.skipped, inputs[i].Path)
			continue
		}
		ix.declare(f, inputs[i].Analyze)
	}
	ix.link()

	for _, fs := range ix.files {
		u := ix.unit(fs)
		p.units = append(p.units, u)
		p.byPath[u.Path] = u
	}
	p.resolver = &resolver{ix: ix}
	p.hierarchy = newHierarchy(ix)

	span.SetAttributes(
		attribute.Int("files", len(p.units)),
		attribute.Int("types", len(ix.types)),
		attribute.Int("skipped", len(p.skipped)),
	)
	logger.Debug("project indexed",
		slog.Int("files", len(p.units)),
		slog.Int("types", len(ix.types)),
		slog.Int("skipped", len(p.skipped)))
	return p, nil
}
