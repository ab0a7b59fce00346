package lint

import (
	"github.com/mvp-joe/fragment-lint/internal/source"
)

// subset is a model whose analysable units are restricted to a chosen set
// of paths. Declarations of every unit stay visible to the resolver.
type subset struct {
	units    []*source.Unit
	resolver source.Resolver
}

func newSubset(m source.Model, paths []string) *subset {
	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		keep[p] = true
	}
	s := &subset{resolver: m.Resolver()}
	for _, u := range m.Units() {
		cp := *u
		cp.Analyze = u.Analyze && keep[u.Path]
		s.units = append(s.units, &cp)
	}
	return s
}

func (s *subset) Units() []*source.Unit      { return s.units }
func (s *subset) Resolver() source.Resolver { return s.resolver }
