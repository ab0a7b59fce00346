// Package source defines the read-only source model consumed by the
// analysis core. Adapters (such as javasrc) build it from host sources;
// tests use the in-memory fake.
package source

// Model is a set of compilation units plus name resolution over them.
type Model interface {
	Units() []*Unit
	Resolver() Resolver
}

// Unit is one compilation unit.
type Unit struct {
	Path   string
	Source []byte
	// Classes lists every type declared in the unit, nested types
	// included, in source order.
	Classes []*Class
	// Analyze is false for units that only contribute declarations,
	// such as generated sources.
	Analyze bool
}

// Class is a type declaration.
type Class struct {
	Name          string
	QualifiedName string
	// Type is the declared type; its supertypes are the declared bases.
	Type    Type
	Fields  []*Field
	Methods []*Method
	// Initializers holds instance and static initializer blocks.
	Initializers []Node
	Span         Span
}

// Method is a method or constructor declaration.
type Method struct {
	Name        string
	Params      []Param
	Returns     TypeRef
	Nullability Nullability
	// Body is nil for abstract and native methods.
	Body        Node
	Constructor bool
	Class       *Class
	Span        Span
}

// Param is a formal parameter.
type Param struct {
	Name        string
	Type        TypeRef
	Nullability Nullability
}

// Field is a field declaration. Multi-declarator declarations produce
// one Field per declarator.
type Field struct {
	Name        string
	Type        TypeRef
	Nullability Nullability
	Initializer Node
	Static      bool
	Span        Span
}
