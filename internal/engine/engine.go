// Package engine runs configured rules over every analysed class of a
// source model.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/fragment-lint/internal/diag"
	"github.com/mvp-joe/fragment-lint/internal/registry"
	"github.com/mvp-joe/fragment-lint/internal/source"
)

var tracer = otel.Tracer("fraglint.engine")

// Stats summarises one run.
type Stats struct {
	Units    int
	Classes  int
	Errors   int
	Warnings int
	Duration time.Duration
}

// Result holds the sorted diagnostics of a run.
type Result struct {
	Diagnostics []diag.Diagnostic
	Stats       Stats
}

// HasErrors reports whether any diagnostic is error-level or worse.
func (r *Result) HasErrors() bool {
	return r.Stats.Errors > 0
}

// Engine schedules class visits. It is safe for concurrent use as long as
// its rules are.
type Engine struct {
	rules    []registry.Rule
	jobs     int
	logger   *slog.Logger
	progress ProgressReporter
}

// Option configures an Engine.
type Option func(*Engine)

// WithJobs bounds the number of classes visited in parallel. Zero or less
// means GOMAXPROCS.
func WithJobs(n int) Option {
	return func(e *Engine) { e.jobs = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithProgress(p ProgressReporter) Option {
	return func(e *Engine) {
		if p != nil {
			e.progress = p
		}
	}
}

// New creates an engine running rules.
func New(rules []registry.Rule, opts ...Option) *Engine {
	e := &Engine{
		rules:    rules,
		logger:   slog.Default(),
		progress: &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type task struct {
	unit  *source.Unit
	class *source.Class
}

// Run visits every class of every analysed unit with every rule.
//
// A cancelled ctx stops scheduling new classes; the result then holds the
// diagnostics collected so far together with ctx's error.
func (e *Engine) Run(ctx context.Context, model source.Model) (*Result, error) {
	ctx, span := tracer.Start(ctx, "engine.Engine.Run")
	defer span.End()
	start := time.Now()

	var tasks []task
	units := 0
	for _, u := range model.Units() {
		if !u.Analyze {
			continue
		}
		units++
		for _, c := range u.Classes {
			tasks = append(tasks, task{unit: u, class: c})
		}
	}
	span.SetAttributes(
		attribute.Int("units", units),
		attribute.Int("classes", len(tasks)),
		attribute.Int("rules", len(e.rules)),
	)
	e.progress.OnAnalysisStart(len(tasks))

	bag := diag.NewBag()
	resolver := model.Resolver()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit(len(tasks)))
	for _, t := range tasks {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			e.visit(t, resolver, bag)
			classesAnalyzedTotal.Inc()
			e.progress.OnClassAnalyzed(t.class.QualifiedName)
			return nil
		})
	}
	runErr := g.Wait()

	bag.Sort()
	errs, warns := bag.Counts()
	res := &Result{
		Diagnostics: bag.Items(),
		Stats: Stats{
			Units:    units,
			Classes:  len(tasks),
			Errors:   errs,
			Warnings: warns,
			Duration: time.Since(start),
		},
	}
	for _, d := range res.Diagnostics {
		diagnosticsTotal.WithLabelValues(d.RuleID, d.Severity.String()).Inc()
	}
	runDurationSeconds.Observe(res.Stats.Duration.Seconds())
	span.SetAttributes(attribute.Int("diagnostics", len(res.Diagnostics)))
	e.progress.OnComplete(&res.Stats)

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "analysis interrupted")
		return res, fmt.Errorf("analysis interrupted: %w", runErr)
	}
	e.logger.Debug("analysis complete",
		slog.Int("units", units),
		slog.Int("classes", len(tasks)),
		slog.Int("diagnostics", len(res.Diagnostics)),
		slog.Duration("duration", res.Stats.Duration))
	return res, nil
}

func (e *Engine) limit(n int) int {
	jobs := e.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

func (e *Engine) visit(t task, resolver source.Resolver, bag *diag.Bag) {
	sink := diag.FileScoped(t.unit.Path, bag)
	for _, rule := range e.rules {
		e.visitRule(rule, &registry.Context{Unit: t.unit, Resolver: resolver, Sink: sink}, t.class)
	}
}

// visitRule isolates one rule visit so a panicking rule loses only its
// own findings for this class.
func (e *Engine) visitRule(rule registry.Rule, ctx *registry.Context, class *source.Class) {
	defer func() {
		if r := recover(); r != nil {
			rulePanicsTotal.WithLabelValues(rule.ID()).Inc()
			e.logger.Error("rule panicked",
				slog.String("rule", rule.ID()),
				slog.String("class", class.QualifiedName),
				slog.String("file", ctx.Unit.Path),
				slog.Any("panic", r))
		}
	}()
	rule.VisitClass(ctx, class)
}
