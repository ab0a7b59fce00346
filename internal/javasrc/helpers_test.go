package javasrc

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/mvp-joe/fragment-lint/internal/config"
)

var (
	testNullable = config.Default().Rules.LiveData.NullableAnnotations
	testNonNull  = config.Default().Rules.LiveData.NonNullAnnotations
)

// archive reads testdata/name as build inputs.
func archive(t *testing.T, name string, analyze bool) []Input {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	inputs := make([]Input, 0, len(ar.Files))
	for _, f := range ar.Files {
		inputs = append(inputs, Input{Path: f.Name, Source: f.Data, Analyze: analyze})
	}
	return inputs
}

// scenario builds the stubs plus the analysed files of one archive.
func scenario(t *testing.T, name string) *Project {
	t.Helper()
	inputs := append(archive(t, "stubs.txtar", false), archive(t, name, true)...)
	return build(t, inputs...)
}

func build(t *testing.T, inputs ...Input) *Project {
	t.Helper()
	p, err := Build(context.Background(), inputs, Options{
		NullableAnnotations: testNullable,
		NonNullAnnotations:  testNonNull,
		Jobs:                2,
	})
	require.NoError(t, err)
	return p
}

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := NewParser(testNullable, testNonNull).Parse("Test.java", []byte(src))
	require.NoError(t, err)
	return f
}

// find returns every node of the given tree-sitter type under root, in
// source order, optionally filtered by text.
func find(root *Node, typ, text string) []*Node {
	var out []*Node
	root.walk(func(n *Node) bool {
		if n.typ == typ && (text == "" || n.Text() == text) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// root returns the syntax tree loaded from path.
func root(t *testing.T, p *Project, path string) *Node {
	t.Helper()
	for _, fs := range p.resolver.ix.files {
		if fs.file.Path == path {
			return fs.file.Root
		}
	}
	t.Fatalf("file %s not loaded", path)
	return nil
}
