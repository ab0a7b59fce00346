package javasrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

// Test Plan for Parser:
// - Expression nodes map onto the closed kind set
// - Identifiers split into references and names by position
// - Comments are dropped from the tree
// - Calls expose method name, receiver and arguments
// - Explicit type arguments carry type-use nullability and no type
// - Syntax errors are flagged without failing the parse
// - Spans are 1-based with byte offsets

const sample = `package com.example;

class Sample {
    private String label;

    void run(Object o) {
        // trailing comment
        String s = o == null ? null : label;
        Runnable r = () -> run(s);
        outer:
        for (int i = 0; i < 2; i++) {
            if (i > 0) break outer;
        }
        this.label = (String) o;
        helper.<String>make("x", 1);
    }
}
`

func TestParse_Kinds(t *testing.T) {
	t.Parallel()

	f := parse(t, sample)
	require.False(t, f.HasErrors)

	tests := []struct {
		typ  string
		kind source.Kind
	}{
		{"block", source.KindBlock},
		{"if_statement", source.KindConditional},
		{"for_statement", source.KindLoop},
		{"ternary_expression", source.KindTernary},
		{"lambda_expression", source.KindLambda},
		{"method_invocation", source.KindCall},
		{"field_access", source.KindFieldAccess},
		{"assignment_expression", source.KindAssignment},
		{"local_variable_declaration", source.KindDeclaration},
		{"null_literal", source.KindNullLiteral},
		{"string_literal", source.KindLiteral},
		{"cast_expression", source.KindCast},
	}
	for _, tt := range tests {
		nodes := find(f.Root, tt.typ, "")
		require.NotEmpty(t, nodes, tt.typ)
		assert.Equal(t, tt.kind, nodes[0].Kind(), tt.typ)
	}
}

func TestParse_IdentifierPositions(t *testing.T) {
	t.Parallel()

	f := parse(t, sample)

	label := find(f.Root, "identifier", "label")
	require.Len(t, label, 3)
	assert.Equal(t, source.KindName, label[0].Kind(), "field declarator")
	assert.Equal(t, source.KindIdentifier, label[1].Kind(), "ternary operand")
	assert.Equal(t, source.KindIdentifier, label[2].Kind(), "field access member")

	for _, n := range find(f.Root, "identifier", "outer") {
		assert.Equal(t, source.KindName, n.Kind(), "labels never refer to variables")
	}
	for _, n := range find(f.Root, "identifier", "run") {
		assert.Equal(t, source.KindName, n.Kind())
	}

	o := find(f.Root, "identifier", "o")
	require.Len(t, o, 3)
	assert.Equal(t, source.KindName, o[0].Kind(), "parameter")
	assert.Equal(t, source.KindIdentifier, o[1].Kind())
}

func TestParse_DropsComments(t *testing.T) {
	t.Parallel()

	f := parse(t, sample)
	assert.Empty(t, find(f.Root, "line_comment", ""))
	assert.Empty(t, find(f.Root, "block_comment", ""))
}

func TestParse_CallAccessors(t *testing.T) {
	t.Parallel()

	f := parse(t, sample)
	calls := find(f.Root, "method_invocation", "")
	require.Len(t, calls, 2)

	run := calls[0]
	assert.Equal(t, "run", run.Method())
	assert.Nil(t, run.Receiver())
	require.Len(t, run.Args(), 1)
	assert.Equal(t, "s", run.Args()[0].Text())

	generic := calls[1]
	assert.Equal(t, "make", generic.Method())
	require.NotNil(t, generic.Receiver())
	assert.Equal(t, "helper", generic.Receiver().Text())
	assert.Len(t, generic.Args(), 2)
}

func TestParse_ExplicitTypeArguments(t *testing.T) {
	t.Parallel()

	f := parse(t, `class A {
    void f() {
        Object a = new Box<@Nullable String>();
        Object b = new Box<@NonNull String>();
        Object c = new Box<String>();
        Object d = new Box<>();
        Object e = new Box<? extends String>();
        Object g = Box.<@Nullable String>of();
    }
}
`)
	news := find(f.Root, "object_creation_expression", "")
	require.Len(t, news, 5)

	args := news[0].TypeArgs()
	require.Len(t, args, 1)
	assert.Equal(t, source.Nullable, args[0].Nullability)
	assert.Nil(t, args[0].Type)
	assert.Equal(t, "@Nullable String", args[0].Text)
	assert.Equal(t, 3, args[0].Span.Start.Line)

	require.Len(t, news[1].TypeArgs(), 1)
	assert.Equal(t, source.NonNull, news[1].TypeArgs()[0].Nullability)

	require.Len(t, news[2].TypeArgs(), 1)
	assert.Equal(t, source.NullUnknown, news[2].TypeArgs()[0].Nullability)

	assert.Empty(t, news[3].TypeArgs(), "diamond")

	require.Len(t, news[4].TypeArgs(), 1)
	assert.True(t, news[4].TypeArgs()[0].Placeholder)

	calls := find(f.Root, "method_invocation", "")
	require.Len(t, calls, 1)
	require.Len(t, calls[0].TypeArgs(), 1)
	assert.Equal(t, source.Nullable, calls[0].TypeArgs()[0].Nullability)
}

func TestParse_SyntaxErrors(t *testing.T) {
	t.Parallel()

	f := parse(t, "class Broken { void f( { }")
	assert.True(t, f.HasErrors)
	require.NotNil(t, f.Root)
}

func TestParse_Spans(t *testing.T) {
	t.Parallel()

	src := "class A {\n  int x;\n}\n"
	f := parse(t, src)
	x := find(f.Root, "identifier", "x")
	require.Len(t, x, 1)

	span := x[0].Span()
	assert.Equal(t, "Test.java", span.File)
	assert.Equal(t, 2, span.Start.Line)
	assert.Equal(t, 7, span.Start.Column)
	assert.Equal(t, "x", src[span.Start.Offset:span.End.Offset])
	assert.Same(t, f, x[0].File())
}
