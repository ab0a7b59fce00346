// Package traverse walks method bodies with tagged dispatch on node kind.
package traverse

import "github.com/mvp-joe/fragment-lint/internal/source"

// Handler handles one node. The context value is passed explicitly on
// every call; handlers must not retain it.
type Handler[C any] func(n source.Node, c C)

// Visitor dispatches nodes to one handler per kind. The zero value visits
// every node without handling any.
type Visitor[C any] struct {
	handlers [source.NumKinds]Handler[C]
}

// On registers the handler for kind k, replacing any previous one.
func (v *Visitor[C]) On(k source.Kind, h Handler[C]) *Visitor[C] {
	v.handlers[k] = h
	return v
}

// Walk visits root and all of its descendants depth-first in pre-order.
// Every node is visited exactly once and the tree is never modified.
func (v *Visitor[C]) Walk(root source.Node, c C) {
	if root == nil {
		return
	}
	stack := []source.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if h := v.handlers[n.Kind()]; h != nil {
			h(n, c)
		}

		kids := n.Children()
		for i := len(kids) - 1; i >= 0; i-- {
			if kids[i] != nil {
				stack = append(stack, kids[i])
			}
		}
	}
}

// Ref is an identifier reference found in a method body.
type Ref struct {
	Node   source.Node
	Name   string
	Span   source.Span
	Method *source.Method
}

// References returns every identifier reference in the method's body in
// source order. Body-less methods have none.
func References(m *source.Method) []Ref {
	if m == nil || m.Body == nil {
		return nil
	}
	c := &collect{method: m}
	refVisitor.Walk(m.Body, c)
	return c.refs
}

type collect struct {
	method *source.Method
	refs   []Ref
}

var refVisitor = (&Visitor[*collect]{}).On(source.KindIdentifier, func(n source.Node, c *collect) {
	c.refs = append(c.refs, Ref{Node: n, Name: n.Text(), Span: n.Span(), Method: c.method})
})
