// Package registry holds rule metadata and builds configured rule instances.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/diag"
	"github.com/mvp-joe/fragment-lint/internal/source"
)

var (
	// ErrDuplicateRule indicates a second registration under the same ID.
	ErrDuplicateRule = errors.New("duplicate rule")

	// ErrUnknownRule indicates a lookup of an unregistered ID.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrInvalidDefinition indicates a definition missing its ID or factory.
	ErrInvalidDefinition = errors.New("invalid rule definition")
)

// Context is what a rule sees during one class visit. It is created per
// visit and must not be retained.
type Context struct {
	Unit     *source.Unit
	Resolver source.Resolver
	Sink     diag.Sink
}

// Rule analyses one class at a time. Implementations hold only read-only
// configuration so one instance can visit classes concurrently.
type Rule interface {
	ID() string
	VisitClass(ctx *Context, class *source.Class)
}

// Applicability describes what activates a rule.
type Applicability struct {
	// BaseTypes are the watched supertypes; empty means any class.
	BaseTypes []string `json:"base_types,omitempty" yaml:"base_types,omitempty"`
	// Calls are method names the rule inspects at call sites.
	Calls []string `json:"calls,omitempty" yaml:"calls,omitempty"`
}

// Definition is the declarative metadata of a rule.
type Definition struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Explanation string        `json:"explanation" yaml:"explanation"`
	Category    diag.Category `json:"category" yaml:"category"`
	Severity    diag.Severity `json:"severity" yaml:"severity"`
	MinAPI      int           `json:"min_api,omitempty" yaml:"min_api,omitempty"`
	Applies     Applicability `json:"applies" yaml:"applies"`

	Enabled func(*config.Config) bool          `json:"-" yaml:"-"`
	New     func(*config.Config) (Rule, error) `json:"-" yaml:"-"`
}

// Registry is a set of rule definitions keyed by ID.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func New() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds def. IDs are unique.
func (r *Registry) Register(def Definition) error {
	if def.ID == "" || def.New == nil {
		return fmt.Errorf("%w: %q", ErrInvalidDefinition, def.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// MustRegister is Register for static registration.
func (r *Registry) MustRegister(def Definition) *Registry {
	if err := r.Register(def); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// All returns every definition ordered by ID.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Instantiate builds rules from cfg. With no ids every enabled rule is
// built; named ids are built even when disabled in cfg.
func (r *Registry) Instantiate(cfg *config.Config, ids ...string) ([]Rule, error) {
	var defs []Definition
	if len(ids) == 0 {
		for _, def := range r.All() {
			if def.Enabled == nil || def.Enabled(cfg) {
				defs = append(defs, def)
			}
		}
	} else {
		for _, id := range ids {
			def, ok := r.Lookup(id)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
			}
			defs = append(defs, def)
		}
	}

	rules := make([]Rule, 0, len(defs))
	for _, def := range defs {
		rule, err := def.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure rule %s: %w", def.ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
