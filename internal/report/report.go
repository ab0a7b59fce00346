// Package report renders analysis results for people and tools.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/mvp-joe/fragment-lint/internal/engine"
	"github.com/mvp-joe/fragment-lint/internal/source"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for output formats other than text and json.
var ErrUnknownFormat = errors.New("unknown output format")

// Options controls rendering.
type Options struct {
	Color     bool
	ShowFixes bool
	// Version is stamped into JSON reports.
	Version string
}

// Sources returns the content of a file, or false when it is not known.
type Sources func(path string) ([]byte, bool)

// FromUnits serves the sources the model was built from, falling back to
// the file system.
func FromUnits(units []*source.Unit) Sources {
	byPath := make(map[string][]byte, len(units))
	for _, u := range units {
		byPath[u.Path] = u.Source
	}
	return func(path string) ([]byte, bool) {
		if src, ok := byPath[path]; ok {
			return src, true
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, false
		}
		return src, true
	}
}

// Write renders res in the given format.
func Write(w io.Writer, format string, res *engine.Result, sources Sources, opts Options) error {
	switch format {
	case FormatText, "":
		return NewText(opts).Write(w, res, sources)
	case FormatJSON:
		return NewJSON(opts).Write(w, res)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ColorEnabled resolves a color mode (auto, always, never) for f.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
