package traverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/fragment-lint/internal/source"
	"github.com/mvp-joe/fragment-lint/internal/source/fake"
)

// Test Plan for traverse:
// - Walk is pre-order and visits every node once
// - Nested blocks, conditionals, loops, lambdas, call arguments and chained
//   receivers are all descended into
// - Names in declaring positions are not references
// - Repeated references are each reported
// - Body-less methods produce nothing
// - Handlers receive the explicit context value

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()

	a, b, c := fake.Ident("a"), fake.Ident("b"), fake.Ident("c")
	root := fake.Block(a, fake.If(b, fake.Block(c)))

	var order []string
	v := &Visitor[*[]string]{}
	for k := 0; k < source.NumKinds; k++ {
		v.On(source.Kind(k), func(n source.Node, out *[]string) {
			*out = append(*out, n.Kind().String()+":"+n.Text())
		})
	}
	v.Walk(root, &order)

	assert.Equal(t, []string{
		"Block:", "Identifier:a", "Conditional:", "Identifier:b", "Block:", "Identifier:c",
	}, order)
}

func TestReferences_DescendsEverywhere(t *testing.T) {
	t.Parallel()

	// binding.imageView.setAlpha(x);
	// if (flag) { while (more) { run(() -> binding.root) } }
	chained := fake.Call(fake.Select(fake.Ident("binding"), "imageView"), "setAlpha", fake.Ident("x"))
	lambda := fake.Lambda(fake.Select(fake.Ident("binding"), "root"))
	body := fake.Block(
		chained,
		fake.If(fake.Ident("flag"), fake.Block(
			fake.Loop(fake.Ident("more"), fake.Block(fake.Call(nil, "run", lambda))),
		)),
	)
	m := fake.Method("onDestroy", body)

	refs := References(m)
	var names []string
	for _, r := range refs {
		names = append(names, r.Name)
		assert.Same(t, m, r.Method)
	}
	assert.Equal(t, []string{"binding", "imageView", "x", "flag", "more", "binding", "root"}, names)
}

func TestReferences_NamesAreNotReferences(t *testing.T) {
	t.Parallel()

	body := fake.Block(
		fake.Decl(fake.Name("local"), fake.Ident("binding")),
		fake.Call(nil, "helper"),
	)
	refs := References(fake.Method("onCreate", body))
	require.Len(t, refs, 1)
	assert.Equal(t, "binding", refs[0].Name)
}

func TestReferences_EveryOccurrence(t *testing.T) {
	t.Parallel()

	first := fake.Ident("binding").At("A.java", 3, 9)
	second := fake.Ident("binding").At("A.java", 3, 30)
	body := fake.Block(fake.Assign(fake.Select(first, "a"), fake.Select(second, "b")))

	refs := References(fake.Method("onDestroy", body))
	var bindings []source.Span
	for _, r := range refs {
		if r.Name == "binding" {
			bindings = append(bindings, r.Span)
		}
	}
	require.Len(t, bindings, 2)
	assert.Equal(t, 9, bindings[0].Start.Column)
	assert.Equal(t, 30, bindings[1].Start.Column)
}

func TestReferences_BodyLess(t *testing.T) {
	t.Parallel()

	assert.Empty(t, References(fake.Method("onCreate", nil)))
	assert.Empty(t, References(nil))
}

func TestWalk_NilRoot(t *testing.T) {
	t.Parallel()

	calls := 0
	v := (&Visitor[*int]{}).On(source.KindIdentifier, func(source.Node, *int) { calls++ })
	v.Walk(nil, &calls)
	assert.Zero(t, calls)
}
