package diag

// Sink receives diagnostics from rules.
// Implementations: *Bag (collects), SinkFunc, FileScoped (filters fixes).
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Nop discards everything.
var Nop Sink = SinkFunc(func(Diagnostic) {})

type fileScoped struct {
	file string
	next Sink
}

// FileScoped forwards to next, stripping edits that target any file other
// than file. Fixes left without edits are dropped; the diagnostic itself is
// always forwarded.
func FileScoped(file string, next Sink) Sink {
	return &fileScoped{file: file, next: next}
}

func (s *fileScoped) Report(d Diagnostic) {
	if len(d.Fixes) > 0 {
		var kept []Fix
		for _, fix := range d.Fixes {
			var edits []Edit
			for _, e := range fix.Edits {
				if e.Span.File == s.file {
					edits = append(edits, e)
				}
			}
			if len(edits) > 0 {
				kept = append(kept, Fix{Title: fix.Title, Edits: edits})
			}
		}
		d.Fixes = kept
	}
	if s.next != nil {
		s.next.Report(d)
	}
}
