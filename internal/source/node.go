package source

// Kind classifies syntax nodes for tagged dispatch. The set is closed;
// adapters map every host node onto one of these.
type Kind uint8

const (
	KindOther Kind = iota
	KindBlock
	KindConditional
	KindTernary
	KindLoop
	KindLambda
	KindCall
	KindNew
	KindFieldAccess
	KindAssignment
	KindDeclaration
	// KindIdentifier is a simple name in expression position: an
	// identifier reference.
	KindIdentifier
	// KindName is a simple name in a declaring or non-expression position
	// (method names at call sites, declarators, labels, annotations).
	KindName
	KindNullLiteral
	KindLiteral
	KindParen
	KindCast

	kindCount
)

// NumKinds is the number of node kinds.
const NumKinds = int(kindCount)

var kindNames = [...]string{
	KindOther:       "Other",
	KindBlock:       "Block",
	KindConditional: "Conditional",
	KindTernary:     "Ternary",
	KindLoop:        "Loop",
	KindLambda:      "Lambda",
	KindCall:        "Call",
	KindNew:         "New",
	KindFieldAccess: "FieldAccess",
	KindAssignment:  "Assignment",
	KindDeclaration: "Declaration",
	KindIdentifier:  "Identifier",
	KindName:        "Name",
	KindNullLiteral: "NullLiteral",
	KindLiteral:     "Literal",
	KindParen:       "Paren",
	KindCast:        "Cast",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Node is a read-only syntax node.
type Node interface {
	Kind() Kind
	Children() []Node
	Span() Span
	Text() string
}

// Generic is implemented by nodes that can carry explicit type arguments,
// such as calls and instance creations.
type Generic interface {
	Node
	TypeArgs() []TypeRef
}

// Call is a method invocation node.
type Call interface {
	Generic
	// Method is the simple name of the invoked method.
	Method() string
	// Receiver is the expression the method is invoked on, nil when
	// the call is unqualified.
	Receiver() Node
	Args() []Node
}
