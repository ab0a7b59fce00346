package source

import "fmt"

// Position is a location in a source file. Line and Column are 1-based,
// Offset is the 0-based byte offset.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Span is a half-open byte range in a single file.
type Span struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.File == "" && s.Start == (Position{}) && s.End == (Position{})
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Empty returns a zero-width span at the start of s.
func (s Span) Empty() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}
