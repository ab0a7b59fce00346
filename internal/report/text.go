package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mvp-joe/fragment-lint/internal/diag"
	"github.com/mvp-joe/fragment-lint/internal/engine"
)

// Text renders diagnostics in the lint console style:
//
//	path:line: Error: message [RuleID]
//	    source line
//	    ~~~~~~~
type Text struct {
	opts      Options
	pathColor *color.Color
	errColor  *color.Color
	warnColor *color.Color
	infoColor *color.Color
	markColor *color.Color
}

// NewText creates a text renderer.
func NewText(opts Options) *Text {
	t := &Text{
		opts:      opts,
		pathColor: color.New(color.Bold),
		errColor:  color.New(color.FgRed, color.Bold),
		warnColor: color.New(color.FgYellow, color.Bold),
		infoColor: color.New(color.FgCyan),
		markColor: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{t.pathColor, t.errColor, t.warnColor, t.infoColor, t.markColor} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// Write renders every diagnostic followed by a summary line.
func (t *Text) Write(w io.Writer, res *engine.Result, sources Sources) error {
	bw := bufio.NewWriter(w)
	for _, d := range res.Diagnostics {
		t.writeDiagnostic(bw, d, sources)
	}
	if len(res.Diagnostics) == 0 {
		fmt.Fprintln(bw, "No issues found.")
	} else {
		fmt.Fprintf(bw, "%d errors, %d warnings\n", res.Stats.Errors, res.Stats.Warnings)
	}
	return bw.Flush()
}

func (t *Text) writeDiagnostic(w io.Writer, d diag.Diagnostic, sources Sources) {
	fmt.Fprintf(w, "%s: %s %s [%s]\n",
		t.pathColor.Sprintf("%s:%d", d.Span.File, d.Span.Start.Line),
		t.label(d.Severity),
		d.Message,
		d.RuleID)

	var src []byte
	if sources != nil {
		src, _ = sources(d.Span.File)
	}
	if line, ok := sourceLine(src, d.Span.Start.Offset); ok {
		fmt.Fprintln(w, line.text)
		fmt.Fprintln(w, line.prefix()+t.markColor.Sprint(strings.Repeat("~", line.width(d.Span.Len()))))
	}

	if !t.opts.ShowFixes || src == nil {
		return
	}
	for _, fix := range d.Fixes {
		preview, err := Preview(d.Span.File, src, fix)
		if err != nil {
			fmt.Fprintf(w, "Fix: %s (cannot preview: %v)\n", fix.Title, err)
			continue
		}
		fmt.Fprintf(w, "Fix: %s\n%s", fix.Title, preview)
	}
}

// label maps severities onto lint's labels; fatal renders as Error.
func (t *Text) label(sev diag.Severity) string {
	switch {
	case sev >= diag.SevError:
		return t.errColor.Sprint("Error:")
	case sev == diag.SevWarning:
		return t.warnColor.Sprint("Warning:")
	}
	return t.infoColor.Sprint("Information:")
}

// line is the source line containing a diagnostic start.
type line struct {
	text   string
	column int // byte offset of the start within text
}

func sourceLine(src []byte, offset int) (line, bool) {
	if src == nil || offset < 0 || offset > len(src) {
		return line{}, false
	}
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(src) && src[end] != '\n' {
		end++
	}
	text := strings.TrimRight(string(src[start:end]), "\r")
	return line{text: text, column: offset - start}, true
}

// prefix indents the underline under the start column, keeping tabs so it
// lines up with the source.
func (l line) prefix() string {
	var b strings.Builder
	for i := 0; i < l.column && i < len(l.text); i++ {
		if l.text[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// width clamps the underline to the end of the line and to at least one
// character.
func (l line) width(n int) int {
	if rest := len(l.text) - l.column; n > rest {
		n = rest
	}
	return max(n, 1)
}
