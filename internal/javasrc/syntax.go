package javasrc

import (
	"github.com/mvp-joe/fragment-lint/internal/source"
)

// File is a parsed Java compilation unit. Files and their nodes are
// immutable once parsed and may be shared between loads.
type File struct {
	Path   string
	Source []byte
	Root   *Node
	// HasErrors is set when tree-sitter had to recover from syntax errors.
	HasErrors bool
}

// Node is a named Java syntax node. Anonymous tokens and comments are
// dropped; modifier keywords are kept on their modifiers node.
type Node struct {
	file     *File
	typ      string
	kind     source.Kind
	span     source.Span
	parent   *Node
	children []*Node
	fields   map[string]*Node
	keywords []string
	typeArgs []source.TypeRef
}

func (n *Node) Kind() source.Kind { return n.kind }
func (n *Node) Span() source.Span { return n.span }

// Type returns the tree-sitter node type, e.g. "method_invocation".
func (n *Node) Type() string { return n.typ }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) File() *File { return n.file }

func (n *Node) Text() string {
	return string(n.file.Source[n.span.Start.Offset:n.span.End.Offset])
}

func (n *Node) Children() []source.Node {
	out := make([]source.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Named returns the named children in source order.
func (n *Node) Named() []*Node { return n.children }

// Field returns the child stored under a tree-sitter field name.
func (n *Node) Field(name string) *Node {
	if n == nil {
		return nil
	}
	return n.fields[name]
}

// ChildrenOfType returns the named children of type typ.
func (n *Node) ChildrenOfType(typ string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.children {
		if c.typ == typ {
			out = append(out, c)
		}
	}
	return out
}

// ChildOfType returns the first named child of type typ.
func (n *Node) ChildOfType(typ string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.typ == typ {
			return c
		}
	}
	return nil
}

// HasKeyword reports whether a modifiers node carries keyword kw.
func (n *Node) HasKeyword(kw string) bool {
	if n == nil {
		return false
	}
	for _, k := range n.keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// TypeArgs returns explicit type arguments of instance creations and
// method invocations. Their Type is left unresolved; text, annotations,
// placeholder status and span come from the syntax.
func (n *Node) TypeArgs() []source.TypeRef { return n.typeArgs }

// Method returns the invoked method name of a method invocation.
func (n *Node) Method() string {
	if n.typ != "method_invocation" {
		return ""
	}
	if name := n.fields["name"]; name != nil {
		return name.Text()
	}
	return ""
}

// Receiver returns the qualifying expression of a method invocation, nil
// for unqualified calls.
func (n *Node) Receiver() source.Node {
	if n.typ != "method_invocation" {
		return nil
	}
	if obj := n.fields["object"]; obj != nil {
		return obj
	}
	return nil
}

// Args returns the argument expressions of an invocation or creation.
func (n *Node) Args() []source.Node {
	list := n.fields["arguments"]
	if list == nil {
		return nil
	}
	return list.Children()
}

// enclosing returns the nearest ancestor (or n itself) of one of types.
func (n *Node) enclosing(types ...string) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		for _, t := range types {
			if cur.typ == t {
				return cur
			}
		}
	}
	return nil
}

// walk visits n and its descendants in pre-order until fn returns false
// for a subtree.
func (n *Node) walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}

var kindByType = map[string]source.Kind{
	"block":                        source.KindBlock,
	"constructor_body":             source.KindBlock,
	"switch_block":                 source.KindBlock,
	"switch_block_statement_group": source.KindBlock,
	"if_statement":                 source.KindConditional,
	"switch_expression":            source.KindConditional,
	"ternary_expression":           source.KindTernary,
	"for_statement":                source.KindLoop,
	"enhanced_for_statement":       source.KindLoop,
	"while_statement":              source.KindLoop,
	"do_statement":                 source.KindLoop,
	"lambda_expression":            source.KindLambda,
	"method_invocation":            source.KindCall,
	"object_creation_expression":   source.KindNew,
	"field_access":                 source.KindFieldAccess,
	"assignment_expression":        source.KindAssignment,
	"local_variable_declaration":   source.KindDeclaration,
	"null_literal":                 source.KindNullLiteral,
	"parenthesized_expression":     source.KindParen,
	"cast_expression":              source.KindCast,

	"decimal_integer_literal":        source.KindLiteral,
	"hex_integer_literal":            source.KindLiteral,
	"octal_integer_literal":          source.KindLiteral,
	"binary_integer_literal":         source.KindLiteral,
	"decimal_floating_point_literal": source.KindLiteral,
	"hex_floating_point_literal":     source.KindLiteral,
	"character_literal":              source.KindLiteral,
	"string_literal":                 source.KindLiteral,
	"text_block":                     source.KindLiteral,
	"true":                           source.KindLiteral,
	"false":                          source.KindLiteral,
}

// nameParents are node types whose identifier children never refer to a
// variable.
var nameParents = map[string]bool{
	"labeled_statement":   true,
	"break_statement":     true,
	"continue_statement":  true,
	"inferred_parameters": true,
	"scoped_identifier":   true,
	"package_declaration": true,
	"import_declaration":  true,
	"marker_annotation":   true,
	"annotation":          true,
}

// classify maps an identifier onto Identifier or Name from its position.
// field is the tree-sitter field the identifier occupies in parent, index
// its position among the parent's named children.
func classify(parentType, field string, index int) source.Kind {
	switch {
	case nameParents[parentType]:
		return source.KindName
	case field == "name" || field == "key":
		return source.KindName
	case parentType == "lambda_expression" && field == "parameters":
		return source.KindName
	case parentType == "method_reference" && index > 0:
		return source.KindName
	}
	return source.KindIdentifier
}

func isComment(typ string) bool {
	return typ == "line_comment" || typ == "block_comment" || typ == "comment"
}
