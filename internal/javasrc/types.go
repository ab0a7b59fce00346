package javasrc

import (
	"strings"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

// javaType is a nominal Java type. decl is nil for types declared outside
// the loaded sources; such types have no known supertypes.
type javaType struct {
	name string
	decl *typeDecl
	args []source.Type
}

func (t *javaType) Name() string            { return t.name }
func (t *javaType) TypeArgs() []source.Type { return t.args }

func (t *javaType) Supertypes() []source.Type {
	if t.decl == nil {
		return nil
	}
	return t.decl.supers
}

func external(name string) *javaType {
	return &javaType{name: name}
}

func declOf(t source.Type) *typeDecl {
	if jt, ok := t.(*javaType); ok {
		return jt.decl
	}
	return nil
}

const (
	objectName = "java.lang.Object"
	stringName = "java.lang.String"
)

// javaLang lists the java.lang types that are commonly referenced by
// simple name.
var javaLang = map[string]bool{
	"Object": true, "String": true, "CharSequence": true, "Integer": true,
	"Long": true, "Short": true, "Byte": true, "Double": true, "Float": true,
	"Boolean": true, "Character": true, "Number": true, "Void": true,
	"Enum": true, "Record": true, "Iterable": true, "Runnable": true,
	"Throwable": true, "Exception": true, "RuntimeException": true,
	"Error": true, "Class": true, "Math": true, "System": true,
	"StringBuilder": true, "Thread": true, "Comparable": true,
	"AutoCloseable": true, "Cloneable": true, "Override": true,
	"Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
	"IllegalStateException": true, "IllegalArgumentException": true,
	"NullPointerException": true, "UnsupportedOperationException": true,
}

var primitiveTypes = map[string]bool{
	"integral_type":       true,
	"floating_point_type": true,
	"boolean_type":        true,
	"void_type":           true,
}

// typeResolver turns a type node into a type; nil leaves references
// unresolved.
type typeResolver func(n *Node, args []source.TypeRef) source.Type

// buildRef converts a type node into a reference, reading type-use
// annotations and marking wildcards and type variables as placeholders.
func buildRef(n *Node, nl nullness, resolve typeResolver) source.TypeRef {
	if n == nil {
		return source.TypeRef{}
	}
	ref := source.TypeRef{Text: n.Text(), Span: n.span}
	inner := n
	if n.typ == "annotated_type" {
		ref.Nullability = nl.of(n)
		inner = unannotated(n)
		if inner == nil {
			return ref
		}
	}

	switch inner.typ {
	case "wildcard":
		ref.Placeholder = true
		return ref
	case "type_identifier":
		if isTypeParam(inner) {
			ref.Placeholder = true
			return ref
		}
	case "generic_type":
		if list := inner.ChildOfType("type_arguments"); list != nil {
			for _, a := range list.children {
				ref.Args = append(ref.Args, buildRef(a, nl, resolve))
			}
		}
	}

	if resolve != nil {
		ref.Type = resolve(inner, ref.Args)
	}
	return ref
}

// unannotated returns the type wrapped by an annotated_type.
func unannotated(n *Node) *Node {
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if c.typ != "marker_annotation" && c.typ != "annotation" {
			return c
		}
	}
	return nil
}

// isTypeParam reports whether a type identifier names a type parameter of
// an enclosing generic class or method.
func isTypeParam(id *Node) bool {
	name := id.Text()
	for anc := id.parent; anc != nil; anc = anc.parent {
		params := anc.Field("type_parameters")
		if params == nil {
			continue
		}
		for _, p := range params.ChildrenOfType("type_parameter") {
			if t := p.ChildOfType("type_identifier"); t != nil && t.Text() == name {
				return true
			}
			if t := p.ChildOfType("identifier"); t != nil && t.Text() == name {
				return true
			}
		}
	}
	return false
}

// dottedName flattens a scoped type identifier, dropping annotations and
// type arguments on its segments.
func dottedName(n *Node) string {
	var parts []string
	var collect func(*Node)
	collect = func(c *Node) {
		switch c.typ {
		case "type_identifier", "identifier":
			parts = append(parts, c.Text())
		case "scoped_type_identifier", "scoped_identifier", "generic_type":
			for _, k := range c.children {
				collect(k)
			}
		}
	}
	collect(n)
	return strings.Join(parts, ".")
}

func arrayName(elem string, dims *Node) string {
	n := 1
	if dims != nil {
		n = max(1, strings.Count(dims.Text(), "["))
	}
	return elem + strings.Repeat("[]", n)
}
