package source

// Type is a nominal declared type.
type Type interface {
	// Name is the fully qualified type name. It is the identity used by
	// conformance checks.
	Name() string
	TypeArgs() []Type
	// Supertypes returns the direct supertypes.
	Supertypes() []Type
}

// Nullability of a declaration or type argument, as read from annotations.
type Nullability uint8

const (
	NullUnknown Nullability = iota
	Nullable
	NonNull
)

func (n Nullability) String() string {
	switch n {
	case Nullable:
		return "nullable"
	case NonNull:
		return "non-null"
	default:
		return "unknown"
	}
}

// TypeRef is a type as written at a declaration site.
type TypeRef struct {
	// Text is the reference as written, without annotations.
	Text string
	// Type is the resolved type, nil when unresolved.
	Type Type
	Args []TypeRef
	// Placeholder marks type variables and wildcards.
	Placeholder bool
	Nullability Nullability
	Span        Span
}

// Resolved reports whether the reference resolved to a type.
func (r TypeRef) Resolved() bool {
	return r.Type != nil
}

// SymbolKind says what a symbol declares.
type SymbolKind uint8

const (
	SymField SymbolKind = iota + 1
	SymMethod
	SymParam
	SymLocal
)

func (k SymbolKind) String() string {
	switch k {
	case SymField:
		return "field"
	case SymMethod:
		return "method"
	case SymParam:
		return "param"
	case SymLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Symbol is the declaration a reference resolves to.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Type is the declared type; the return type for methods.
	Type        TypeRef
	Nullability Nullability
	// Decl is the span of the declared name.
	Decl Span
	// Initializer is the declaration's initializer expression, if any.
	Initializer Node
	// Owner is the qualified name of the declaring type for members.
	Owner string
}

// Resolver maps references to their declarations. A false result means
// the reference is statically unresolvable and callers must skip it.
type Resolver interface {
	Resolve(ref Node) (Symbol, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ref Node) (Symbol, bool)

func (f ResolverFunc) Resolve(ref Node) (Symbol, bool) {
	return f(ref)
}
