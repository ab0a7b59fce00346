package javasrc

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

// fieldNames are the tree-sitter fields recorded on converted nodes.
var fieldNames = []string{
	"name", "key", "body", "type", "value", "object", "field",
	"arguments", "type_arguments", "type_parameters", "parameters",
	"declarator", "superclass", "interfaces", "condition", "consequence",
	"alternative", "left", "right", "element", "dimensions", "array",
	"index", "init", "update", "constructor", "resources",
}

// Parser converts Java sources into immutable syntax trees.
type Parser struct {
	language *sitter.Language
	nullness nullness
}

// NewParser creates a Java parser. The annotation lists are simple names
// recognised on explicit type arguments.
func NewParser(nullable, nonNull []string) *Parser {
	return &Parser{
		language: sitter.NewLanguage(java.Language()),
		nullness: newNullness(nullable, nonNull),
	}
}

// Parse parses one Java file. Syntax errors are recovered, not returned.
func (p *Parser) Parse(path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set java language: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse java file: %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	file := &File{Path: path, Source: src, HasErrors: root.HasError()}
	c := &converter{file: file}
	file.Root = c.convert(root, nil, "", 0)

	file.Root.walk(func(n *Node) bool {
		switch n.typ {
		case "object_creation_expression":
			if t := n.fields["type"]; t != nil && t.typ == "generic_type" {
				n.typeArgs = p.explicitArgs(t.ChildOfType("type_arguments"))
			}
		case "method_invocation":
			n.typeArgs = p.explicitArgs(n.fields["type_arguments"])
		}
		return true
	})

	return file, nil
}

func (p *Parser) explicitArgs(list *Node) []source.TypeRef {
	if list == nil || len(list.children) == 0 {
		return nil
	}
	out := make([]source.TypeRef, 0, len(list.children))
	for _, arg := range list.children {
		out = append(out, buildRef(arg, p.nullness, nil))
	}
	return out
}

type converter struct {
	file *File
}

type nodeKey struct {
	start, end uint
	kind       string
}

func keyOf(sn *sitter.Node) nodeKey {
	return nodeKey{start: sn.StartByte(), end: sn.EndByte(), kind: sn.Kind()}
}

func (c *converter) convert(sn *sitter.Node, parent *Node, field string, index int) *Node {
	typ := sn.Kind()
	n := &Node{file: c.file, typ: typ, parent: parent, span: c.span(sn)}
	if typ == "identifier" {
		parentType := ""
		if parent != nil {
			parentType = parent.typ
		}
		n.kind = classify(parentType, field, index)
	} else {
		n.kind = kindByType[typ]
	}

	fieldOf := fieldsOf(sn)
	count := sn.ChildCount()
	for i := uint(0); i < count; i++ {
		child := sn.Child(i)
		if child == nil {
			continue
		}
		if !child.IsNamed() {
			if typ == "modifiers" {
				n.keywords = append(n.keywords, child.Kind())
			}
			continue
		}
		if isComment(child.Kind()) {
			continue
		}
		f := fieldOf[keyOf(child)]
		kid := c.convert(child, n, f, len(n.children))
		n.children = append(n.children, kid)
		if f == "" {
			continue
		}
		if n.fields == nil {
			n.fields = make(map[string]*Node)
		}
		if _, dup := n.fields[f]; !dup {
			n.fields[f] = kid
		}
	}
	return n
}

// fieldsOf maps the children of sn that occupy a known field to the
// field's name.
func fieldsOf(sn *sitter.Node) map[nodeKey]string {
	var out map[nodeKey]string
	for _, f := range fieldNames {
		fc := sn.ChildByFieldName(f)
		if fc == nil {
			continue
		}
		if out == nil {
			out = make(map[nodeKey]string)
		}
		k := keyOf(fc)
		if _, taken := out[k]; !taken {
			out[k] = f
		}
	}
	return out
}

func (c *converter) span(sn *sitter.Node) source.Span {
	start, end := sn.StartPosition(), sn.EndPosition()
	return source.Span{
		File:  c.file.Path,
		Start: source.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1, Offset: int(sn.StartByte())},
		End:   source.Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1, Offset: int(sn.EndByte())},
	}
}
