package diag

import "github.com/mvp-joe/fragment-lint/internal/source"

// ReportBuilder accumulates diagnostic details before emitting to a Sink.
type ReportBuilder struct {
	sink    Sink
	diag    Diagnostic
	emitted bool
}

// NewReport constructs a builder bound to sink.
func NewReport(sink Sink, rule string, sev Severity, span source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		sink: sink,
		diag: Diagnostic{
			RuleID:   rule,
			Severity: sev,
			Message:  msg,
			Span:     span,
		},
	}
}

// WithCategory sets the rule category.
func (b *ReportBuilder) WithCategory(c Category) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Category = c
	return b
}

// WithFix appends a fix. Fixes without edits are ignored.
func (b *ReportBuilder) WithFix(title string, edits ...Edit) *ReportBuilder {
	if b == nil || len(edits) == 0 {
		return b
	}
	b.diag = b.diag.WithFix(title, edits...)
	return b
}

// Emit sends the diagnostic to the sink exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.sink != nil {
		b.sink.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns the accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}
