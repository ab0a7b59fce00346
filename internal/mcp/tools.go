package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/fragment-lint/internal/lint"
	"github.com/mvp-joe/fragment-lint/internal/registry"
	"github.com/mvp-joe/fragment-lint/internal/report"
	"github.com/mvp-joe/fragment-lint/internal/rules"
)

// Checker runs a lint over the project.
type Checker interface {
	Check(ctx context.Context, rules []string, targets []string) (*lint.Run, error)
}

// CheckRequest is the argument set of fraglint_check.
type CheckRequest struct {
	Paths     []string `json:"paths,omitempty"`
	Rules     []string `json:"rules,omitempty"`
	ShowFixes bool     `json:"show_fixes,omitempty"`
	Format    string   `json:"format,omitempty"`
}

// errOutsideProject marks a path argument that escapes the project root.
var errOutsideProject = errors.New("path is outside the project")

// AddFraglintCheckTool registers the fraglint_check tool with an MCP server.
func AddFraglintCheckTool(s *server.MCPServer, checker Checker, metrics *CheckMetrics) {
	tool := mcp.NewTool(
		"fraglint_check",
		mcp.WithDescription(`Lint the Android Java sources of the project for Fragment lifecycle mistakes.

Reports:
- AccessDestroyedView: view binding accessed in onCreate, onCreateView, onSaveInstanceState or onDestroy
- NullSafeMutableLiveData: null passed to setValue/postValue of a LiveData whose type argument is non-null

Returns diagnostics with file, line, column and suggested fixes.`),
		mcp.WithArray("paths",
			mcp.Description("Optional files or directories to analyse, relative to the project root (default: whole project)")),
		mcp.WithArray("rules",
			mcp.Description("Optional rule ids to run (default: every enabled rule)")),
		mcp.WithBoolean("show_fixes",
			mcp.Description("Include a diff preview for each fix (text format only)")),
		mcp.WithString("format",
			mcp.Description("Output format: json (default) or text")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createFraglintCheckHandler(checker, metrics))
}

func createFraglintCheckHandler(checker Checker, metrics *CheckMetrics) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]any); !ok && request.GetRawArguments() != nil {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req CheckRequest
		if err := CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Format == "" {
			req.Format = report.FormatJSON
		}
		if req.Format != report.FormatJSON && req.Format != report.FormatText {
			return mcp.NewToolResultError(fmt.Sprintf("format must be json or text, got %q", req.Format)), nil
		}
		for _, p := range req.Paths {
			if err := checkRelative(p); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		start := time.Now()
		run, err := checker.Check(ctx, req.Rules, req.Paths)
		if err != nil {
			metrics.RecordCheck(time.Since(start), err, 0)
			if errors.Is(err, registry.ErrUnknownRule) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}
		metrics.RecordCheck(time.Since(start), nil, len(run.Result.Diagnostics))

		var buf bytes.Buffer
		err = report.Write(&buf, req.Format, run.Result, report.FromUnits(run.Project.Units()), report.Options{
			ShowFixes: req.ShowFixes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render report: %w", err)
		}
		return mcp.NewToolResultText(buf.String()), nil
	}
}

// checkRelative rejects absolute paths and paths climbing out of the
// project.
func checkRelative(p string) error {
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", errOutsideProject, p)
	}
	return nil
}

// AddFraglintRulesTool registers the fraglint_rules tool.
func AddFraglintRulesTool(s *server.MCPServer) {
	tool := mcp.NewTool(
		"fraglint_rules",
		mcp.WithDescription("List the built-in fraglint rules with their explanation, category and default severity."),
		mcp.WithString("id",
			mcp.Description("Optional rule id to describe")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createFraglintRulesHandler(rules.Builtin()))
}

func createFraglintRulesHandler(reg *registry.Registry) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req struct {
			ID string `json:"id"`
		}
		if err := CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		if req.ID != "" {
			def, ok := reg.Lookup(req.ID)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("%v: %s", registry.ErrUnknownRule, req.ID)), nil
			}
			return marshalToolResponse(def)
		}
		return marshalToolResponse(reg.All())
	}
}

// AddFraglintStatusTool registers the fraglint_status tool, which reports
// statistics about the checks served so far.
func AddFraglintStatusTool(s *server.MCPServer, metrics *CheckMetrics) {
	tool := mcp.NewTool(
		"fraglint_status",
		mcp.WithDescription("Report statistics about fraglint_check calls served by this server."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createFraglintStatusHandler(metrics))
}

func createFraglintStatusHandler(metrics *CheckMetrics) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return marshalToolResponse(metrics.Snapshot())
	}
}

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
