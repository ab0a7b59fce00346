// Package fake provides a deterministic in-memory source model for tests.
package fake

import (
	"github.com/mvp-joe/fragment-lint/internal/source"
)

// Type is a nominal type with mutable supertypes so tests can build
// arbitrary (including malformed) graphs.
type Type struct {
	name   string
	args   []source.Type
	supers []source.Type
}

// NewType creates a type with the given direct supertypes.
func NewType(name string, supers ...source.Type) *Type {
	return &Type{name: name, supers: supers}
}

// Extend appends direct supertypes.
func (t *Type) Extend(supers ...source.Type) *Type {
	t.supers = append(t.supers, supers...)
	return t
}

// Of returns a parameterized copy of t.
func (t *Type) Of(args ...source.Type) *Type {
	return &Type{name: t.name, args: args, supers: t.supers}
}

func (t *Type) Name() string              { return t.name }
func (t *Type) TypeArgs() []source.Type   { return t.args }
func (t *Type) Supertypes() []source.Type { return t.supers }

// Ref builds a resolved type reference.
func Ref(t source.Type, args ...source.TypeRef) source.TypeRef {
	text := ""
	if t != nil {
		text = t.Name()
	}
	return source.TypeRef{Text: text, Type: t, Args: args}
}

// Node is a syntax node. Call-specific fields are set only for KindCall.
type Node struct {
	K    source.Kind
	Name string
	Kids []*Node
	Sp   source.Span

	method   string
	receiver *Node
	args     []*Node
	typeArgs []source.TypeRef
}

func (n *Node) Kind() source.Kind { return n.K }
func (n *Node) Span() source.Span { return n.Sp }
func (n *Node) Text() string      { return n.Name }

func (n *Node) Children() []source.Node {
	out := make([]source.Node, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

func (n *Node) Method() string { return n.method }

func (n *Node) Receiver() source.Node {
	if n.receiver == nil {
		return nil
	}
	return n.receiver
}

func (n *Node) Args() []source.Node {
	out := make([]source.Node, len(n.args))
	for i, a := range n.args {
		out[i] = a
	}
	return out
}

func (n *Node) TypeArgs() []source.TypeRef { return n.typeArgs }

// At places the node in file at line:col, spanning its text.
func (n *Node) At(file string, line, col int) *Node {
	n.Sp = source.Span{
		File:  file,
		Start: source.Position{Line: line, Column: col},
		End:   source.Position{Line: line, Column: col + len(n.Name)},
	}
	return n
}

// WithTypeArgs sets explicit type arguments on a call or creation.
func (n *Node) WithTypeArgs(args ...source.TypeRef) *Node {
	n.typeArgs = args
	return n
}

func newNode(k source.Kind, kids ...*Node) *Node {
	return &Node{K: k, Kids: kids}
}

func Ident(name string) *Node        { return &Node{K: source.KindIdentifier, Name: name} }
func Name(name string) *Node         { return &Node{K: source.KindName, Name: name} }
func Null() *Node                    { return &Node{K: source.KindNullLiteral, Name: "null"} }
func Lit(text string) *Node          { return &Node{K: source.KindLiteral, Name: text} }
func Block(kids ...*Node) *Node      { return newNode(source.KindBlock, kids...) }
func If(kids ...*Node) *Node         { return newNode(source.KindConditional, kids...) }
func Ternary(kids ...*Node) *Node    { return newNode(source.KindTernary, kids...) }
func Loop(kids ...*Node) *Node       { return newNode(source.KindLoop, kids...) }
func Lambda(kids ...*Node) *Node     { return newNode(source.KindLambda, kids...) }
func Assign(lhs, rhs *Node) *Node    { return newNode(source.KindAssignment, lhs, rhs) }
func Paren(inner *Node) *Node        { return newNode(source.KindParen, inner) }
func Cast(inner *Node) *Node         { return newNode(source.KindCast, inner) }
func Other(kids ...*Node) *Node      { return newNode(source.KindOther, kids...) }
func New(args ...*Node) *Node        { return newNode(source.KindNew, args...) }
func Decl(name, init *Node) *Node    { return newNode(source.KindDeclaration, name, init) }

// Select builds obj.field.
func Select(obj *Node, field string) *Node {
	n := newNode(source.KindFieldAccess, obj, Ident(field))
	n.Name = obj.Name + "." + field
	return n
}

// Call builds receiver.method(args...). A nil receiver is an unqualified
// call.
func Call(receiver *Node, method string, args ...*Node) *Node {
	n := &Node{K: source.KindCall, Name: method, method: method, receiver: receiver, args: args}
	if receiver != nil {
		n.Kids = append(n.Kids, receiver)
	}
	n.Kids = append(n.Kids, Name(method))
	n.Kids = append(n.Kids, args...)
	return n
}

// Resolver resolves nodes by identity first and by text second.
type Resolver struct {
	byNode map[source.Node]source.Symbol
	byName map[string]source.Symbol
}

func NewResolver() *Resolver {
	return &Resolver{
		byNode: make(map[source.Node]source.Symbol),
		byName: make(map[string]source.Symbol),
	}
}

// Bind resolves exactly n to sym.
func (r *Resolver) Bind(n *Node, sym source.Symbol) *Resolver {
	r.byNode[n] = sym
	return r
}

// BindName resolves every identifier with the given text to sym.
func (r *Resolver) BindName(name string, sym source.Symbol) *Resolver {
	r.byName[name] = sym
	return r
}

func (r *Resolver) Resolve(ref source.Node) (source.Symbol, bool) {
	if sym, ok := r.byNode[ref]; ok {
		return sym, true
	}
	if ref.Kind() == source.KindFieldAccess {
		kids := ref.Children()
		return r.Resolve(kids[len(kids)-1])
	}
	if ref.Kind() != source.KindIdentifier {
		return source.Symbol{}, false
	}
	sym, ok := r.byName[ref.Text()]
	return sym, ok
}

// Model is a fixed set of units.
type Model struct {
	units    []*source.Unit
	resolver source.Resolver
}

func NewModel(resolver source.Resolver, units ...*source.Unit) *Model {
	return &Model{units: units, resolver: resolver}
}

func (m *Model) Units() []*source.Unit      { return m.units }
func (m *Model) Resolver() source.Resolver { return m.resolver }

// Class builds a class declaration, wiring method back-pointers.
func Class(name string, typ source.Type, fields []*source.Field, methods ...*source.Method) *source.Class {
	c := &source.Class{
		Name:          name,
		QualifiedName: typ.Name(),
		Type:          typ,
		Fields:        fields,
		Methods:       methods,
	}
	for _, m := range methods {
		m.Class = c
	}
	return c
}

// Method builds a method with the given body; a nil body is abstract.
func Method(name string, body *Node) *source.Method {
	m := &source.Method{Name: name}
	if body != nil {
		m.Body = body
	}
	return m
}

// Field builds a field symbol for binding in a Resolver.
func Field(name string, typ source.TypeRef) source.Symbol {
	return source.Symbol{Name: name, Kind: source.SymField, Type: typ}
}
