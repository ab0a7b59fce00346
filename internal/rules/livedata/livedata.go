// Package livedata flags null values passed to LiveData mutators whose
// type argument is not nullable.
package livedata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/conformance"
	"github.com/mvp-joe/fragment-lint/internal/diag"
	"github.com/mvp-joe/fragment-lint/internal/registry"
	"github.com/mvp-joe/fragment-lint/internal/source"
	"github.com/mvp-joe/fragment-lint/internal/traverse"
)

// ID is the stable rule identifier.
const ID = "NullSafeMutableLiveData"

const (
	msgNullLiteral = "Cannot set non-nullable LiveData value to `null`"
	msgNullable    = "Expected non-nullable value"
)

// Options configures the rule.
type Options struct {
	Containers    []string
	Mutators      []string
	Root          string
	AssumeNonNull bool
	// FixAnnotation is the annotation type inserted to mark a type
	// argument nullable.
	FixAnnotation string
	// UnwrapTemplate wraps a nullable argument; it contains one %s.
	UnwrapTemplate string
	Severity       diag.Severity
}

// Rule is the NullSafeMutableLiveData detector.
type Rule struct {
	opts     Options
	mutators map[string]struct{}
	visitor  *traverse.Visitor[*visit]
}

// visit is the explicit per-class context. The cache lives exactly as
// long as one VisitClass call.
type visit struct {
	ctx   *registry.Context
	class string
	cache argCache
}

// typeArg is an extracted container type argument together with the
// container's declared name.
type typeArg struct {
	arg       source.TypeRef
	container string
}

// argCache maps member names to type arguments seen on earlier field
// declarations of the class being visited.
type argCache map[string]typeArg

// New validates opts and builds the rule.
func New(opts Options) (*Rule, error) {
	if len(opts.Containers) == 0 {
		return nil, errors.New("at least one container type is required")
	}
	if len(opts.Mutators) == 0 {
		return nil, errors.New("at least one mutator method is required")
	}
	r := &Rule{opts: opts, mutators: make(map[string]struct{}, len(opts.Mutators))}
	for _, m := range opts.Mutators {
		r.mutators[m] = struct{}{}
	}
	r.visitor = (&traverse.Visitor[*visit]{}).On(source.KindCall, r.checkCall)
	return r, nil
}

func (r *Rule) ID() string { return ID }

// VisitClass observes field declarations first, then checks every mutator
// call in field initializers, initializer blocks and method bodies.
func (r *Rule) VisitClass(ctx *registry.Context, class *source.Class) {
	v := &visit{ctx: ctx, class: class.QualifiedName, cache: make(argCache)}

	for _, f := range class.Fields {
		r.observeField(f, v.cache)
	}
	for _, f := range class.Fields {
		if f.Initializer != nil {
			r.visitor.Walk(f.Initializer, v)
		}
	}
	for _, init := range class.Initializers {
		r.visitor.Walk(init, v)
	}
	for _, m := range class.Methods {
		if m.Body != nil {
			r.visitor.Walk(m.Body, v)
		}
	}
}

func (r *Rule) observeField(f *source.Field, cache argCache) {
	if !r.isContainer(f.Type) {
		return
	}
	if ta, ok := r.fromDeclaration(f.Type, f.Initializer); ok {
		cache[f.Name] = ta
	}
}

func (r *Rule) isContainer(ref source.TypeRef) bool {
	return conformance.ConformsToAny(ref.Type, r.opts.Containers, r.opts.Root)
}

// fromDeclaration applies the first two extraction steps: the declared
// type's single argument, then the initializer's explicit argument.
func (r *Rule) fromDeclaration(declared source.TypeRef, init source.Node) (typeArg, bool) {
	if len(declared.Args) == 1 {
		return typeArg{arg: declared.Args[0], container: declared.Type.Name()}, true
	}
	if g, ok := init.(source.Generic); ok {
		if args := g.TypeArgs(); len(args) == 1 {
			return typeArg{arg: args[0], container: declared.Type.Name()}, true
		}
	}
	return typeArg{}, false
}

// extract finds the container type argument for a call receiver. The
// class-scoped cache is consulted only when the declaration cannot supply
// it, and only for an unresolved receiver or a field of the visited class.
func (r *Rule) extract(receiver source.Node, v *visit) (typeArg, bool) {
	sym, resolved := v.ctx.Resolver.Resolve(receiver)
	if resolved && sym.Type.Resolved() {
		if !r.isContainer(sym.Type) {
			return typeArg{}, false
		}
		if ta, ok := r.fromDeclaration(sym.Type, sym.Initializer); ok {
			return ta, true
		}
	}

	name := memberName(receiver)
	if resolved {
		// A local, parameter or another class's member sharing a field's
		// name is a different declaration.
		if sym.Kind != source.SymField || sym.Owner != v.class {
			return typeArg{}, false
		}
		name = sym.Name
	}
	ta, ok := v.cache[name]
	return ta, ok
}

func memberName(n source.Node) string {
	switch n.Kind() {
	case source.KindIdentifier:
		return n.Text()
	case source.KindFieldAccess:
		kids := n.Children()
		if len(kids) > 0 {
			return memberName(kids[len(kids)-1])
		}
	case source.KindParen:
		kids := n.Children()
		if len(kids) == 1 {
			return memberName(kids[0])
		}
	}
	return ""
}

func (r *Rule) checkCall(n source.Node, v *visit) {
	call, ok := n.(source.Call)
	if !ok {
		return
	}
	if _, watched := r.mutators[call.Method()]; !watched {
		return
	}
	args := call.Args()
	if len(args) != 1 || call.Receiver() == nil {
		return
	}

	ta, ok := r.extract(call.Receiver(), v)
	if !ok || ta.arg.Placeholder {
		return
	}
	switch ta.arg.Nullability {
	case source.Nullable:
		return
	case source.NullUnknown:
		if !r.opts.AssumeNonNull {
			return
		}
	}

	arg := args[0]
	literal := arg.Kind() == source.KindNullLiteral
	if !literal && !r.isNullable(arg, v) {
		return
	}

	msg := msgNullable
	if literal {
		msg = msgNullLiteral
	}
	b := diag.NewReport(v.ctx.Sink, ID, r.opts.Severity, arg.Span(), msg).
		WithCategory(diag.CategoryInteroperability)

	if !ta.arg.Span.IsZero() {
		b.WithFix(fmt.Sprintf("Change `%s` type argument to be nullable", simpleName(ta.container)),
			diag.Edit{Span: ta.arg.Span.Empty(), NewText: "@" + r.opts.FixAnnotation + " "})
	}
	if !literal {
		b.WithFix("Add non-null assertion",
			diag.Edit{Span: arg.Span(), NewText: fmt.Sprintf(r.opts.UnwrapTemplate, arg.Text())})
	}
	b.Emit()
}

func simpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// isNullable reports whether expression n may evaluate to null according
// to literals and declared annotations.
func (r *Rule) isNullable(n source.Node, v *visit) bool {
	switch n.Kind() {
	case source.KindNullLiteral:
		return true
	case source.KindParen, source.KindCast:
		kids := n.Children()
		if len(kids) == 0 {
			return false
		}
		return r.isNullable(kids[len(kids)-1], v)
	case source.KindTernary:
		kids := n.Children()
		if len(kids) != 3 {
			return false
		}
		return r.isNullable(kids[1], v) || r.isNullable(kids[2], v)
	case source.KindIdentifier, source.KindFieldAccess, source.KindCall:
		sym, ok := v.ctx.Resolver.Resolve(n)
		return ok && sym.Nullability == source.Nullable
	}
	return false
}

// Definition returns the registry entry for the rule.
func Definition() registry.Definition {
	d := config.Default().Rules.LiveData
	// The listed severity is the one a default configuration emits.
	severity, err := diag.ParseSeverity(d.Severity)
	if err != nil {
		panic(fmt.Sprintf("livedata: invalid default severity %q", d.Severity))
	}
	return registry.Definition{
		ID:          ID,
		Title:       "LiveData value assignment nullability mismatch",
		Explanation: "This check ensures that LiveData values are not null when explicitly declared as non-nullable.",
		Category:    diag.CategoryInteroperability,
		Severity:    severity,
		Applies:     registry.Applicability{Calls: d.MutatorMethods},
		Enabled:     func(cfg *config.Config) bool { return cfg.Rules.LiveData.Enabled },
		New: func(cfg *config.Config) (registry.Rule, error) {
			ld := cfg.Rules.LiveData
			sev, err := diag.ParseSeverity(ld.Severity)
			if err != nil {
				return nil, err
			}
			return New(Options{
				Containers:     ld.ContainerTypes,
				Mutators:       ld.MutatorMethods,
				Root:           cfg.RootType,
				AssumeNonNull:  ld.AssumeNonNull,
				FixAnnotation:  ld.FixAnnotation,
				UnwrapTemplate: ld.UnwrapTemplate,
				Severity:       sev,
			})
		},
	}
}
