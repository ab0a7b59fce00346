package diag

import (
	"sort"
	"sync"
)

// Bag collects diagnostics. It is safe for concurrent use.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Report implements Sink.
func (b *Bag) Report(d Diagnostic) {
	b.mu.Lock()
	b.items = append(b.items, d)
	b.mu.Unlock()
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Diagnostic(nil), b.items...)
}

// Merge appends everything from other.
func (b *Bag) Merge(other *Bag) {
	items := other.Items()
	b.mu.Lock()
	b.items = append(b.items, items...)
	b.mu.Unlock()
}

// Sort orders diagnostics by file, start, end, severity (desc), rule and
// message so output is stable across runs.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Span.File != dj.Span.File {
			return di.Span.File < dj.Span.File
		}
		if di.Span.Start.Offset != dj.Span.Start.Offset {
			return di.Span.Start.Offset < dj.Span.Start.Offset
		}
		if di.Span.Start.Line != dj.Span.Start.Line {
			return di.Span.Start.Line < dj.Span.Start.Line
		}
		if di.Span.Start.Column != dj.Span.Start.Column {
			return di.Span.Start.Column < dj.Span.Start.Column
		}
		if di.Span.End.Offset != dj.Span.End.Offset {
			return di.Span.End.Offset < dj.Span.End.Offset
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.RuleID != dj.RuleID {
			return di.RuleID < dj.RuleID
		}
		return di.Message < dj.Message
	})
}

// Counts returns the number of error-level (error or fatal) and warning
// diagnostics.
func (b *Bag) Counts() (errors, warnings int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.items {
		switch {
		case d.Severity >= SevError:
			errors++
		case d.Severity == SevWarning:
			warnings++
		}
	}
	return errors, warnings
}

// HasErrors reports whether any diagnostic is error-level or worse.
func (b *Bag) HasErrors() bool {
	errs, _ := b.Counts()
	return errs > 0
}
