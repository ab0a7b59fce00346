package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mvp-joe/fragment-lint/internal/diag"
)

// ErrOverlappingEdits is returned when a fix's edits overlap.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Apply returns src with the edits applied. Edits are byte ranges into
// the original src.
func Apply(src []byte, edits []diag.Edit) ([]byte, error) {
	sorted := append([]diag.Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start.Offset < sorted[j].Span.Start.Offset
	})

	var b strings.Builder
	last := 0
	for _, e := range sorted {
		start, end := e.Span.Start.Offset, e.Span.End.Offset
		if start < last {
			return nil, ErrOverlappingEdits
		}
		if end < start || end > len(src) {
			return nil, fmt.Errorf("edit %d-%d outside file of %d bytes", start, end, len(src))
		}
		b.Write(src[last:start])
		b.WriteString(e.NewText)
		last = end
	}
	b.Write(src[last:])
	return []byte(b.String()), nil
}

// Preview renders a fix as a unified diff of path.
func Preview(path string, src []byte, fix diag.Fix) (string, error) {
	fixed, err := Apply(src, fix.Edits)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(src)),
		B:        difflib.SplitLines(string(fixed)),
		FromFile: "a/" + strings.TrimPrefix(path, "/"),
		ToFile:   "b/" + strings.TrimPrefix(path, "/"),
		Context:  1,
	})
}
