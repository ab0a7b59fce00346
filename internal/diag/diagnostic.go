// Package diag holds diagnostics, the sinks that receive them and the bag
// that collects them for output.
package diag

import "github.com/mvp-joe/fragment-lint/internal/source"

// Edit replaces the text under Span with NewText. A zero-width span is an
// insertion.
type Edit struct {
	Span    source.Span `json:"span"`
	NewText string      `json:"new_text"`
}

// Fix is a suggested change made of one or more edits.
type Fix struct {
	Title string `json:"title"`
	Edits []Edit `json:"edits"`
}

// Diagnostic is one finding.
type Diagnostic struct {
	RuleID   string      `json:"rule"`
	Severity Severity    `json:"severity"`
	Category Category    `json:"category,omitempty"`
	Message  string      `json:"message"`
	Span     source.Span `json:"span"`
	Fixes    []Fix       `json:"fixes,omitempty"`
}

// WithFix returns a copy of d with the fix appended.
func (d Diagnostic) WithFix(title string, edits ...Edit) Diagnostic {
	d.Fixes = append(append([]Fix(nil), d.Fixes...), Fix{Title: title, Edits: edits})
	return d
}

// HasFixes reports whether d carries at least one edit.
func (d Diagnostic) HasFixes() bool {
	for _, f := range d.Fixes {
		if len(f.Edits) > 0 {
			return true
		}
	}
	return false
}
