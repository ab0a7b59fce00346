package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for CoerceBindArguments:
// - JSON-encoded arrays, booleans and numbers sent as strings
// - Arguments that already have the right types
// - Comma-separated strings bound to slices
// - Missing arguments leave zero values
// - Values that cannot be coerced fail

type fakeArguments map[string]any

func (f fakeArguments) GetArguments() map[string]any { return f }

type bindTarget struct {
	Paths     []string `json:"paths,omitempty"`
	Rules     []string `json:"rules,omitempty"`
	ShowFixes bool     `json:"show_fixes,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

func TestCoerceBindArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args fakeArguments
		want bindTarget
	}{
		{
			name: "JSON strings",
			args: fakeArguments{
				"paths":      `["app/src", "lib/src"]`,
				"show_fixes": "true",
				"limit":      "10",
			},
			want: bindTarget{Paths: []string{"app/src", "lib/src"}, ShowFixes: true, Limit: 10},
		},
		{
			name: "proper types",
			args: fakeArguments{
				"rules":      []any{"AccessDestroyedView"},
				"show_fixes": true,
				"limit":      float64(3),
			},
			want: bindTarget{Rules: []string{"AccessDestroyedView"}, ShowFixes: true, Limit: 3},
		},
		{
			name: "comma separated",
			args: fakeArguments{"rules": "AccessDestroyedView,NullSafeMutableLiveData"},
			want: bindTarget{Rules: []string{"AccessDestroyedView", "NullSafeMutableLiveData"}},
		},
		{
			name: "missing",
			args: fakeArguments{},
			want: bindTarget{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got bindTarget
			require.NoError(t, CoerceBindArguments(tt.args, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceBindArguments_Invalid(t *testing.T) {
	t.Parallel()

	var got bindTarget
	err := CoerceBindArguments(fakeArguments{"limit": "many"}, &got)
	assert.Error(t, err)
}
