package report

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/mvp-joe/fragment-lint/internal/diag"
	"github.com/mvp-joe/fragment-lint/internal/engine"
)

// Tool is the tool name stamped into JSON reports.
const Tool = "fraglint"

// Document is the JSON report.
type Document struct {
	RunID       string            `json:"run_id"`
	Tool        string            `json:"tool"`
	Version     string            `json:"version,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Summary     Summary           `json:"summary"`
}

// Summary counts the run.
type Summary struct {
	Files      int   `json:"files"`
	Classes    int   `json:"classes"`
	Errors     int   `json:"errors"`
	Warnings   int   `json:"warnings"`
	DurationMS int64 `json:"duration_ms"`
}

// JSON renders a Document.
type JSON struct {
	opts  Options
	newID func() string
}

// NewJSON creates a JSON renderer.
func NewJSON(opts Options) *JSON {
	return &JSON{opts: opts, newID: func() string { return uuid.New().String() }}
}

// Document builds the report for res.
func (j *JSON) Document(res *engine.Result) Document {
	diags := res.Diagnostics
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	return Document{
		RunID:       j.newID(),
		Tool:        Tool,
		Version:     j.opts.Version,
		Diagnostics: diags,
		Summary: Summary{
			Files:      res.Stats.Units,
			Classes:    res.Stats.Classes,
			Errors:     res.Stats.Errors,
			Warnings:   res.Stats.Warnings,
			DurationMS: res.Stats.Duration.Milliseconds(),
		},
	}
}

// Write encodes the report as indented JSON.
func (j *JSON) Write(w io.Writer, res *engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.Document(res))
}
