// Package conformance decides nominal subtype relations over a supertype
// graph.
package conformance

import "github.com/mvp-joe/fragment-lint/internal/source"

// DefaultRoot is the universal root type of the Java type system.
const DefaultRoot = "java.lang.Object"

// Conforms reports whether t is marker or has marker among its transitive
// supertypes. The root type is never searched: reaching it ends that path.
func Conforms(t source.Type, marker, root string) bool {
	return ConformsToAny(t, []string{marker}, root)
}

// ConformsToAny is Conforms for a set of targets.
//
// The search is breadth-first with a visited set keyed by type name, so
// cyclic or otherwise malformed graphs terminate with false.
func ConformsToAny(t source.Type, targets []string, root string) bool {
	if t == nil || len(targets) == 0 {
		return false
	}
	want := make(map[string]struct{}, len(targets))
	for _, name := range targets {
		want[name] = struct{}{}
	}
	if _, ok := want[t.Name()]; ok {
		return true
	}

	visited := map[string]struct{}{t.Name(): {}}
	queue := []source.Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, super := range cur.Supertypes() {
			if super == nil {
				continue
			}
			name := super.Name()
			if name == root {
				continue
			}
			if _, seen := visited[name]; seen {
				continue
			}
			if _, ok := want[name]; ok {
				return true
			}
			visited[name] = struct{}{}
			queue = append(queue, super)
		}
	}
	return false
}

// Supertypes returns the transitive supertypes of t in breadth-first
// order, excluding t itself and the root.
func Supertypes(t source.Type, root string) []source.Type {
	if t == nil {
		return nil
	}
	var out []source.Type
	visited := map[string]struct{}{t.Name(): {}}
	queue := []source.Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, super := range cur.Supertypes() {
			if super == nil || super.Name() == root {
				continue
			}
			if _, seen := visited[super.Name()]; seen {
				continue
			}
			visited[super.Name()] = struct{}{}
			out = append(out, super)
			queue = append(queue, super)
		}
	}
	return out
}
