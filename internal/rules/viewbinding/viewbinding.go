// Package viewbinding flags view binding access from fragment lifecycle
// callbacks that run while the fragment has no view.
package viewbinding

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/conformance"
	"github.com/mvp-joe/fragment-lint/internal/diag"
	"github.com/mvp-joe/fragment-lint/internal/registry"
	"github.com/mvp-joe/fragment-lint/internal/selector"
	"github.com/mvp-joe/fragment-lint/internal/source"
	"github.com/mvp-joe/fragment-lint/internal/traverse"
)

// ID is the stable rule identifier.
const ID = "AccessDestroyedView"

const messageFormat = "[%s] Should not attempt to access view bindings after Fragment view was destroyed."

// Message returns the diagnostic text for a reference inside method.
func Message(method string) string {
	return fmt.Sprintf(messageFormat, method)
}

// Options configures the rule.
type Options struct {
	Marker    string
	BaseTypes []string
	Methods   []string
	Root      string
	Severity  diag.Severity
}

// Rule is the AccessDestroyedView detector.
type Rule struct {
	marker   string
	root     string
	severity diag.Severity
	selector *selector.Selector
	visitor  *traverse.Visitor[*visit]
}

// visit is the explicit per-method context handed to the visitor.
type visit struct {
	ctx    *registry.Context
	method *source.Method
}

// New validates opts and builds the rule.
func New(opts Options) (*Rule, error) {
	if opts.Marker == "" {
		return nil, errors.New("marker type is required")
	}
	if len(opts.BaseTypes) == 0 {
		return nil, errors.New("at least one base type is required")
	}
	r := &Rule{
		marker:   opts.Marker,
		root:     opts.Root,
		severity: opts.Severity,
	}
	bases := append([]string(nil), opts.BaseTypes...)
	sel, err := selector.New(opts.Methods, func(c *source.Class) bool {
		return conformance.ConformsToAny(c.Type, bases, opts.Root)
	})
	if err != nil {
		return nil, err
	}
	r.selector = sel
	r.visitor = (&traverse.Visitor[*visit]{}).On(source.KindIdentifier, r.checkReference)
	return r, nil
}

func (r *Rule) ID() string { return ID }

// VisitClass reports every marker-typed member reference in the class's
// watched lifecycle methods.
func (r *Rule) VisitClass(ctx *registry.Context, class *source.Class) {
	for _, m := range r.selector.Select(class) {
		if m.Body == nil {
			continue
		}
		r.visitor.Walk(m.Body, &visit{ctx: ctx, method: m})
	}
}

func (r *Rule) checkReference(n source.Node, v *visit) {
	sym, ok := v.ctx.Resolver.Resolve(n)
	if !ok || sym.Kind != source.SymField {
		return
	}
	if !conformance.Conforms(sym.Type.Type, r.marker, r.root) {
		return
	}
	diag.NewReport(v.ctx.Sink, ID, r.severity, n.Span(), Message(v.method.Name)).
		WithCategory(diag.CategoryInteroperability).
		Emit()
}

// Definition returns the registry entry for the rule.
func Definition() registry.Definition {
	d := config.Default().Rules.ViewBinding
	severity, err := diag.ParseSeverity(d.Severity)
	if err != nil {
		panic(fmt.Sprintf("viewbinding: invalid default severity %q", d.Severity))
	}
	return registry.Definition{
		ID:          ID,
		Title:       "Accessing Fragment view after it was destroyed",
		Explanation: "This check ensures that Fragment View's are not accessed before onCreateView() or after onDestroyView().",
		Category:    diag.CategoryInteroperability,
		Severity:    severity,
		MinAPI:      8,
		Applies:     registry.Applicability{BaseTypes: d.BaseTypes},
		Enabled:     func(cfg *config.Config) bool { return cfg.Rules.ViewBinding.Enabled },
		New: func(cfg *config.Config) (registry.Rule, error) {
			vb := cfg.Rules.ViewBinding
			sev, err := diag.ParseSeverity(vb.Severity)
			if err != nil {
				return nil, err
			}
			return New(Options{
				Marker:    vb.MarkerType,
				BaseTypes: vb.BaseTypes,
				Methods:   vb.LifecycleMethods,
				Root:      cfg.RootType,
				Severity:  sev,
			})
		},
	}
}
