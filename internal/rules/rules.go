// Package rules wires the built-in rule definitions into a registry.
package rules

import (
	"github.com/mvp-joe/fragment-lint/internal/registry"
	"github.com/mvp-joe/fragment-lint/internal/rules/livedata"
	"github.com/mvp-joe/fragment-lint/internal/rules/viewbinding"
)

// Builtin returns a registry holding every shipped rule.
func Builtin() *registry.Registry {
	return registry.New().
		MustRegister(viewbinding.Definition()).
		MustRegister(livedata.Definition())
}
