package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/diag"
	"github.com/mvp-joe/fragment-lint/internal/source"
)

// Test Plan for Registry:
// - Register rejects duplicates and definitions without ID or factory
// - All returns definitions ordered by ID
// - Instantiate without ids builds only enabled rules
// - Instantiate with ids builds named rules even when disabled
// - Unknown ids and factory errors are reported

type stubRule struct{ id string }

func (s stubRule) ID() string                         { return s.id }
func (s stubRule) VisitClass(*Context, *source.Class) {}

func stub(id string, enabled bool) Definition {
	return Definition{
		ID:       id,
		Severity: diag.SevWarning,
		Enabled:  func(*config.Config) bool { return enabled },
		New:      func(*config.Config) (Rule, error) { return stubRule{id: id}, nil },
	}
}

func ids(rules []Rule) []string {
	var out []string
	for _, r := range rules {
		out = append(out, r.ID())
	}
	return out
}

func TestRegister(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Register(stub("B", true)))
	assert.ErrorIs(t, r.Register(stub("B", true)), ErrDuplicateRule)
	assert.ErrorIs(t, r.Register(Definition{ID: "C"}), ErrInvalidDefinition)
	assert.ErrorIs(t, r.Register(Definition{New: stub("x", true).New}), ErrInvalidDefinition)

	def, ok := r.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, diag.SevWarning, def.Severity)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestMustRegister_Panics(t *testing.T) {
	t.Parallel()

	r := New().MustRegister(stub("A", true))
	assert.Panics(t, func() { r.MustRegister(stub("A", true)) })
}

func TestAll_Sorted(t *testing.T) {
	t.Parallel()

	r := New().MustRegister(stub("Zeta", true)).MustRegister(stub("Alpha", true)).MustRegister(stub("Mid", false))
	var got []string
	for _, d := range r.All() {
		got = append(got, d.ID)
	}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, got)
}

func TestInstantiate(t *testing.T) {
	t.Parallel()

	r := New().MustRegister(stub("On", true)).MustRegister(stub("Off", false))

	rules, err := r.Instantiate(config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"On"}, ids(rules))

	rules, err = r.Instantiate(config.Default(), "Off")
	require.NoError(t, err)
	assert.Equal(t, []string{"Off"}, ids(rules))

	_, err = r.Instantiate(config.Default(), "Nope")
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestInstantiate_FactoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := New().MustRegister(Definition{
		ID:  "Broken",
		New: func(*config.Config) (Rule, error) { return nil, boom },
	})

	_, err := r.Instantiate(config.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Broken")
}
