package javasrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

// Test Plan for resolver:
// - Locals shadow fields, and only from their declaration onward
// - this-qualified accesses reach the field
// - Inherited fields are found through the superclass chain
// - Declared nullability is carried by fields and parameters
// - var locals take the initializer's type
// - Lambda parameters and instanceof pattern variables resolve
// - Method calls resolve to the declaring method and its return type
// - Unknown names and non-reference nodes do not resolve

const resolveSample = `package com.example;

import androidx.annotation.Nullable;

class Base {
    protected String inherited;
}

public class Sample extends Base {
    private String label;
    @Nullable private String maybe;

    String title() { return label; }

    void run(int count, @Nullable String arg) {
        use(label);
        String label = "local";
        use(label);
        use(this.label);
        use(inherited);
        use(maybe);
        use(arg);
        var copy = this.maybe;
        use(copy);
        java.util.function.Consumer<String> c = s -> use(s);
        Object o = arg;
        if (o instanceof String str) {
            use(str);
        }
        use(title());
        use(missing);
        use(count);
    }

    void use(Object o) {}
}
`

// useArgs returns the argument of every use(...) call, in source order.
func useArgs(t *testing.T, p *Project, path string) []*Node {
	t.Helper()
	var out []*Node
	for _, call := range find(root(t, p, path), "method_invocation", "") {
		if call.Method() == "use" {
			args := call.Args()
			require.Len(t, args, 1)
			out = append(out, args[0].(*Node))
		}
	}
	return out
}

func TestResolve_Scopes(t *testing.T) {
	t.Parallel()

	p := build(t, Input{Path: "Sample.java", Source: []byte(resolveSample), Analyze: true})
	r := p.Resolver()
	args := useArgs(t, p, "Sample.java")
	require.Len(t, args, 12)

	tests := []struct {
		name  string
		arg   int
		kind  source.SymbolKind
		owner string
		typ   string
		null  source.Nullability
	}{
		{"field before local declaration", 0, source.SymField, "com.example.Sample", "java.lang.String", source.NullUnknown},
		{"local shadows field", 1, source.SymLocal, "com.example.Sample", "java.lang.String", source.NullUnknown},
		{"this-qualified field", 2, source.SymField, "com.example.Sample", "java.lang.String", source.NullUnknown},
		{"inherited field", 3, source.SymField, "com.example.Base", "java.lang.String", source.NullUnknown},
		{"nullable field", 4, source.SymField, "com.example.Sample", "java.lang.String", source.Nullable},
		{"nullable parameter", 5, source.SymParam, "com.example.Sample", "java.lang.String", source.Nullable},
		{"var local", 6, source.SymLocal, "com.example.Sample", "java.lang.String", source.NullUnknown},
		{"lambda parameter", 7, source.SymParam, "com.example.Sample", "", source.NullUnknown},
		{"pattern variable", 8, source.SymLocal, "com.example.Sample", "java.lang.String", source.NullUnknown},
		{"method call", 9, source.SymMethod, "com.example.Sample", "java.lang.String", source.NullUnknown},
		{"primitive parameter", 11, source.SymParam, "com.example.Sample", "int", source.NullUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := r.Resolve(args[tt.arg])
			require.True(t, ok)
			assert.Equal(t, tt.kind, sym.Kind)
			assert.Equal(t, tt.owner, sym.Owner)
			assert.Equal(t, tt.null, sym.Nullability)
			if tt.typ == "" {
				assert.Nil(t, sym.Type.Type)
			} else {
				require.NotNil(t, sym.Type.Type)
				assert.Equal(t, tt.typ, sym.Type.Type.Name())
			}
		})
	}

	_, ok := r.Resolve(args[10])
	assert.False(t, ok, "unknown name")
}

func TestResolve_DeclarationSpans(t *testing.T) {
	t.Parallel()

	p := build(t, Input{Path: "Sample.java", Source: []byte(resolveSample), Analyze: true})
	args := useArgs(t, p, "Sample.java")

	field, ok := p.Resolver().Resolve(args[0])
	require.True(t, ok)
	assert.Equal(t, 10, field.Decl.Start.Line)

	local, ok := p.Resolver().Resolve(args[1])
	require.True(t, ok)
	assert.Equal(t, 17, local.Decl.Start.Line)
	require.NotNil(t, local.Initializer)
	assert.Equal(t, `"local"`, local.Initializer.Text())
}

func TestResolve_NonReferences(t *testing.T) {
	t.Parallel()

	p := build(t, Input{Path: "Sample.java", Source: []byte(resolveSample), Analyze: true})
	r := p.Resolver()

	_, ok := r.Resolve(nil)
	assert.False(t, ok)

	for _, lit := range find(root(t, p, "Sample.java"), "string_literal", "") {
		_, ok := r.Resolve(lit)
		assert.False(t, ok)
	}
	for _, name := range find(root(t, p, "Sample.java"), "identifier", "run") {
		_, ok := r.Resolve(name)
		assert.False(t, ok, "method names are not references")
	}
}

func TestResolve_CrossFileMembers(t *testing.T) {
	t.Parallel()

	p := scenario(t, "null_literal.txtar")
	var receiver *Node
	for _, call := range find(root(t, p, "com/example/names/NamesViewModel.java"), "method_invocation", "") {
		if call.Method() == "setValue" {
			receiver = call.Receiver().(*Node)
		}
	}
	require.NotNil(t, receiver)

	sym, ok := p.Resolver().Resolve(receiver)
	require.True(t, ok)
	assert.Equal(t, source.SymField, sym.Kind)
	assert.Equal(t, "com.example.names.Names", sym.Owner)
	assert.Equal(t, "androidx.lifecycle.MutableLiveData", sym.Type.Type.Name())
	require.Len(t, sym.Type.Args, 1)
	assert.Equal(t, source.NonNull, sym.Type.Args[0].Nullability)
	assert.Equal(t, "com/example/names/Names.java", sym.Type.Args[0].Span.File)
}
