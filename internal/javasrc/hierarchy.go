package javasrc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

// Hierarchy is the subtype graph of the loaded declarations. Edges point
// from a type to its direct subtypes, so reachability from a type yields
// everything that inherits from it. Member type references are kept
// beside the graph: users maps a type to the declarations whose fields,
// parameters or return types name it.
type Hierarchy struct {
	g          graph.Graph[string, string]
	declaredIn map[string][]string
	byFile     map[string][]string
	users      map[string][]string
}

func newHierarchy(ix *index) *Hierarchy {
	h := &Hierarchy{
		g:          graph.New(graph.StringHash, graph.Directed()),
		declaredIn: make(map[string][]string),
		byFile:     make(map[string][]string),
		users:      make(map[string][]string),
	}

	ids := make(map[*typeDecl]string, len(ix.decls))
	for i, d := range ix.decls {
		path := d.file.file.Path
		id := d.qname
		if !d.named {
			id = fmt.Sprintf("%s#%d", path, i)
		}
		ids[d] = id
		if err := h.g.AddVertex(id); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			continue
		}
		// The same qualified name declared in several files keeps every
		// declaring file.
		h.declaredIn[id] = appendUnique(h.declaredIn[id], path)
		h.byFile[path] = appendUnique(h.byFile[path], id)
	}

	for _, d := range ix.decls {
		for _, s := range d.supers {
			sd := declOf(s)
			if sd == nil {
				continue
			}
			// Edges to undeclared vertices and duplicates are not
			// interesting; the graph stays usable either way.
			_ = h.g.AddEdge(ids[sd], ids[d])
		}
		for _, ref := range memberRefs(d) {
			h.addUses(ids, d, ref)
		}
	}
	return h
}

// memberRefs lists the declared types of d's fields, method parameters and
// method returns.
func memberRefs(d *typeDecl) []source.TypeRef {
	var refs []source.TypeRef
	for _, f := range d.fields {
		refs = append(refs, f.ref)
	}
	for _, m := range d.methods {
		refs = append(refs, m.returns)
		for _, p := range m.params {
			refs = append(refs, p.ref)
		}
	}
	return refs
}

func (h *Hierarchy) addUses(ids map[*typeDecl]string, user *typeDecl, ref source.TypeRef) {
	if used := declOf(ref.Type); used != nil && used != user {
		h.users[ids[used]] = appendUnique(h.users[ids[used]], ids[user])
	}
	for _, arg := range ref.Args {
		h.addUses(ids, user, arg)
	}
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}

// Subtypes returns the qualified names of every transitive subtype of
// qname declared in the loaded sources, sorted.
func (h *Hierarchy) Subtypes(qname string) []string {
	var out []string
	_ = graph.BFS(h.g, qname, func(id string) bool {
		// Local and anonymous classes are keyed by file position.
		if id != qname && !strings.ContainsRune(id, '#') {
			out = append(out, id)
		}
		return false
	})
	sort.Strings(out)
	return out
}

// Affected returns the changed files plus every loaded file whose
// analysis can depend on them, sorted and de-duplicated. That is any file
// declaring a subtype of a type declared in a changed file, or a type
// whose members name such a type, closed transitively over both
// relations.
func (h *Hierarchy) Affected(changed []string) []string {
	// A failed adjacency lookup leaves only the member references to follow.
	adjacency, _ := h.g.AdjacencyMap()

	seen := make(map[string]bool)
	visited := make(map[string]bool)
	var queue []string
	for _, path := range changed {
		seen[path] = true
		queue = append(queue, h.byFile[path]...)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		for _, p := range h.declaredIn[id] {
			seen[p] = true
		}
		for sub := range adjacency[id] {
			queue = append(queue, sub)
		}
		queue = append(queue, h.users[id]...)
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
