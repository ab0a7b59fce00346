// Package selector picks the lifecycle methods of watched classes.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/fragment-lint/internal/source"
)

var (
	// ErrEmptyMethods indicates an empty lifecycle method set.
	ErrEmptyMethods = errors.New("lifecycle method set is empty")

	// ErrDuplicateMethod indicates a name listed more than once.
	ErrDuplicateMethod = errors.New("duplicate lifecycle method")

	// ErrBlankMethod indicates an empty or whitespace-only name.
	ErrBlankMethod = errors.New("blank lifecycle method name")
)

// Predicate reports whether a class is derived from a watched base type.
type Predicate func(*source.Class) bool

// Selector filters a class's methods by an exact, case-sensitive name set.
type Selector struct {
	names     map[string]struct{}
	isDerived Predicate
}

// New validates names and builds a selector.
func New(names []string, isDerived Predicate) (*Selector, error) {
	if len(names) == 0 {
		return nil, ErrEmptyMethods
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, ErrBlankMethod
		}
		if _, dup := set[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMethod, name)
		}
		set[name] = struct{}{}
	}
	return &Selector{names: set, isDerived: isDerived}, nil
}

// Matches reports whether name is a watched lifecycle method.
func (s *Selector) Matches(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Select returns the watched methods of class in declaration order, or nil
// when the class is not derived from a watched base. Overloads are all
// returned; constructors never are.
func (s *Selector) Select(class *source.Class) []*source.Method {
	if class == nil || (s.isDerived != nil && !s.isDerived(class)) {
		return nil
	}
	var out []*source.Method
	for _, m := range class.Methods {
		if m.Constructor || !s.Matches(m.Name) {
			continue
		}
		out = append(out, m)
	}
	return out
}
