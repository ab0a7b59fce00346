package javasrc

import (
	"github.com/mvp-joe/fragment-lint/internal/source"
)

// resolver binds expression nodes to declarations. It only reads the
// index, so one resolver serves concurrent class visits.
type resolver struct {
	ix *index
}

var _ source.Resolver = (*resolver)(nil)

// Resolve resolves identifiers, field accesses and method invocations.
func (r *resolver) Resolve(ref source.Node) (source.Symbol, bool) {
	n, ok := ref.(*Node)
	if !ok || n == nil {
		return source.Symbol{}, false
	}
	switch n.typ {
	case "identifier":
		if p := n.parent; p != nil && p.typ == "field_access" && p.fields["field"] == n {
			return r.member(p)
		}
		if n.kind != source.KindIdentifier {
			return source.Symbol{}, false
		}
		return r.lookup(n, n.Text())
	case "field_access":
		return r.member(n)
	case "method_invocation":
		return r.method(n)
	case "parenthesized_expression":
		if len(n.children) == 1 {
			return r.Resolve(n.children[0])
		}
	}
	return source.Symbol{}, false
}

func (r *resolver) member(fa *Node) (source.Symbol, bool) {
	field := fa.fields["field"]
	if field == nil || field.typ != "identifier" {
		return source.Symbol{}, false
	}
	obj := r.typeOf(fa.fields["object"])
	d := declOf(obj.Type)
	if d == nil {
		return source.Symbol{}, false
	}
	if f := r.ix.findField(d, field.Text()); f != nil {
		return fieldSymbol(f), true
	}
	return source.Symbol{}, false
}

func (r *resolver) method(call *Node) (source.Symbol, bool) {
	name := call.fields["name"]
	if name == nil {
		return source.Symbol{}, false
	}
	argc := len(call.Args())

	var m *methodDecl
	if obj := call.fields["object"]; obj != nil {
		if d := declOf(r.typeOf(obj).Type); d != nil {
			m = r.ix.findMethod(d, name.Text(), argc)
		}
	} else {
		for d := r.ix.enclosingDecl(call); d != nil && m == nil; d = r.ix.enclosingDecl(d.node) {
			m = r.ix.findMethod(d, name.Text(), argc)
		}
	}
	if m == nil {
		return source.Symbol{}, false
	}
	return source.Symbol{
		Name:        m.name,
		Kind:        source.SymMethod,
		Type:        m.returns,
		Nullability: m.null,
		Decl:        m.node.span,
		Owner:       m.owner.qname,
	}, true
}

// lookup resolves a simple name by walking outward through local scopes,
// parameters and the fields of each enclosing class.
func (r *resolver) lookup(n *Node, name string) (source.Symbol, bool) {
	child := n
	for p := n.parent; p != nil; child, p = p, p.parent {
		if sym, ok := r.declaredIn(p, child, name); ok {
			return sym, true
		}
		if d := r.ix.byBody[p]; d != nil {
			if f := r.ix.findField(d, name); f != nil {
				return fieldSymbol(f), true
			}
		}
	}
	return source.Symbol{}, false
}

// declaredIn finds a local variable or parameter named name that scope
// declares and that is visible from its child.
func (r *resolver) declaredIn(scope, child *Node, name string) (source.Symbol, bool) {
	switch scope.typ {
	case "block", "constructor_body", "switch_block_statement_group":
		for _, s := range scope.children {
			if s == child {
				break
			}
			if s.typ == "local_variable_declaration" {
				if sym, ok := r.local(s, name); ok {
					return sym, true
				}
			}
		}
	case "for_statement":
		for _, s := range scope.ChildrenOfType("local_variable_declaration") {
			if sym, ok := r.local(s, name); ok {
				return sym, true
			}
		}
	case "enhanced_for_statement":
		if id := scope.fields["name"]; id != nil && id.Text() == name && child != scope.fields["value"] {
			return r.variable(id, scope.ChildOfType("modifiers"), scope.fields["type"], nil, source.SymLocal), true
		}
	case "lambda_expression":
		return r.lambdaParam(scope.fields["parameters"], name)
	case "catch_clause":
		if p := scope.ChildOfType("catch_formal_parameter"); p != nil {
			if id := p.fields["name"]; id != nil && id.Text() == name {
				var typ *Node
				if ct := p.ChildOfType("catch_type"); ct != nil && len(ct.children) > 0 {
					typ = ct.children[0]
				}
				return r.variable(id, p.ChildOfType("modifiers"), typ, nil, source.SymLocal), true
			}
		}
	case "try_with_resources_statement":
		if resources := scope.fields["resources"]; resources != nil {
			for _, res := range resources.ChildrenOfType("resource") {
				if id := res.fields["name"]; id != nil && id.Text() == name {
					return r.variable(id, res.ChildOfType("modifiers"), res.fields["type"], res.fields["value"], source.SymLocal), true
				}
			}
		}
	case "if_statement", "while_statement":
		if cond := scope.fields["condition"]; cond != nil && child != cond {
			if sym, ok := r.pattern(cond, name); ok {
				return sym, true
			}
		}
	case "method_declaration", "constructor_declaration":
		if params := scope.fields["parameters"]; params != nil {
			return r.param(params, name)
		}
	}
	return source.Symbol{}, false
}

func (r *resolver) local(decl *Node, name string) (source.Symbol, bool) {
	for _, v := range decl.ChildrenOfType("variable_declarator") {
		if id := v.fields["name"]; id != nil && id.Text() == name {
			return r.variable(id, decl.ChildOfType("modifiers"), decl.fields["type"], v.fields["value"], source.SymLocal), true
		}
	}
	return source.Symbol{}, false
}

// variable builds a local or parameter symbol. A `var` type is inferred
// from the initializer.
func (r *resolver) variable(id, mods, typ, init *Node, kind source.SymbolKind) source.Symbol {
	sym := source.Symbol{
		Name:        id.Text(),
		Kind:        kind,
		Nullability: r.ix.nullness.decl(mods, typ),
		Decl:        id.span,
		Initializer: asNode(init),
	}
	if owner := r.ix.enclosingDecl(id); owner != nil {
		sym.Owner = owner.qname
	}
	switch {
	case typ == nil:
	case typ.typ == "type_identifier" && typ.Text() == "var":
		if init != nil {
			sym.Type = r.typeOf(init)
			sym.Type.Text = "var"
		}
	default:
		sym.Type = buildRef(typ, r.ix.nullness, r.ix.resolverAt(typ))
	}
	return sym
}

func (r *resolver) param(params *Node, name string) (source.Symbol, bool) {
	for _, p := range params.children {
		switch p.typ {
		case "formal_parameter":
			if id := p.fields["name"]; id != nil && id.Text() == name {
				return r.variable(id, p.ChildOfType("modifiers"), p.fields["type"], nil, source.SymParam), true
			}
		case "spread_parameter":
			if v := p.ChildOfType("variable_declarator"); v != nil {
				if id := v.fields["name"]; id != nil && id.Text() == name {
					sym := r.variable(id, p.ChildOfType("modifiers"), nil, nil, source.SymParam)
					if typ := firstType(p); typ != nil {
						sym.Type = source.TypeRef{Text: typ.Text() + "...", Type: external(arrayName(typ.Text(), nil)), Span: typ.span}
					}
					return sym, true
				}
			}
		}
	}
	return source.Symbol{}, false
}

func (r *resolver) lambdaParam(params *Node, name string) (source.Symbol, bool) {
	if params == nil {
		return source.Symbol{}, false
	}
	switch params.typ {
	case "identifier":
		if params.Text() == name {
			return r.variable(params, nil, nil, nil, source.SymParam), true
		}
	case "inferred_parameters":
		for _, id := range params.ChildrenOfType("identifier") {
			if id.Text() == name {
				return r.variable(id, nil, nil, nil, source.SymParam), true
			}
		}
	case "formal_parameters":
		return r.param(params, name)
	}
	return source.Symbol{}, false
}

// pattern finds an instanceof pattern variable introduced by cond.
func (r *resolver) pattern(cond *Node, name string) (source.Symbol, bool) {
	var sym source.Symbol
	found := false
	cond.walk(func(n *Node) bool {
		if found {
			return false
		}
		if n.typ == "instanceof_expression" {
			if id := n.fields["name"]; id != nil && id.Text() == name {
				sym = r.variable(id, nil, n.fields["right"], nil, source.SymLocal)
				found = true
				return false
			}
		}
		return true
	})
	return sym, found
}

// typeOf computes the static type of an expression as far as the loaded
// declarations allow.
func (r *resolver) typeOf(expr *Node) source.TypeRef {
	if expr == nil {
		return source.TypeRef{}
	}
	switch expr.typ {
	case "identifier":
		if sym, ok := r.Resolve(expr); ok {
			return sym.Type
		}
		// A type name qualifying a static member.
		if d, qname, ok := r.ix.lookupType(expr, expr.Text()); ok {
			if d != nil {
				return source.TypeRef{Text: expr.Text(), Type: d.typ}
			}
			return source.TypeRef{Text: expr.Text(), Type: external(qname)}
		}
	case "field_access", "method_invocation":
		if sym, ok := r.Resolve(expr); ok {
			return sym.Type
		}
	case "this":
		if d := r.ix.enclosingDecl(expr); d != nil {
			return source.TypeRef{Text: "this", Type: d.typ}
		}
	case "super":
		if d := r.ix.enclosingDecl(expr); d != nil && len(d.supers) > 0 {
			return source.TypeRef{Text: "super", Type: d.supers[0]}
		}
	case "parenthesized_expression":
		if len(expr.children) == 1 {
			return r.typeOf(expr.children[0])
		}
	case "cast_expression":
		return buildRef(expr.fields["type"], r.ix.nullness, r.ix.resolverAt(expr))
	case "object_creation_expression":
		if body := expr.ChildOfType("class_body"); body != nil {
			if d := r.ix.byBody[body]; d != nil {
				return source.TypeRef{Text: expr.Text(), Type: d.typ}
			}
		}
		return buildRef(expr.fields["type"], r.ix.nullness, r.ix.resolverAt(expr))
	case "string_literal", "text_block":
		return source.TypeRef{Text: "String", Type: r.ix.named(stringName)}
	case "ternary_expression":
		return r.typeOf(expr.fields["consequence"])
	}
	return source.TypeRef{}
}

func fieldSymbol(f *fieldDecl) source.Symbol {
	return source.Symbol{
		Name:        f.name,
		Kind:        source.SymField,
		Type:        f.ref,
		Nullability: f.null,
		Decl:        f.node.span,
		Initializer: asNode(f.init),
		Owner:       f.owner.qname,
	}
}

// asNode keeps absent nodes as untyped nil.
func asNode(n *Node) source.Node {
	if n == nil {
		return nil
	}
	return n
}
