// Package mcp serves fraglint over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/lint"
)

// ServerConfig configures the MCP server.
type ServerConfig struct {
	ProjectPath string
	Config      *config.Config
	Version     string
	Logger      *slog.Logger
}

// Server manages the MCP server lifecycle.
type Server struct {
	config  *ServerConfig
	linter  *projectLinter
	metrics *CheckMetrics
	mcp     *server.MCPServer
}

// NewServer creates a server with the fraglint tools registered.
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg == nil || cfg.ProjectPath == "" {
		return nil, fmt.Errorf("project path is required")
	}
	if cfg.Config == nil {
		cfg.Config = config.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	linter, err := newProjectLinter(cfg.ProjectPath, cfg.Config, cfg.Logger)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		"fraglint-mcp",
		cfg.Version,
		server.WithToolCapabilities(true),
	)

	metrics := NewCheckMetrics()
	AddFraglintCheckTool(mcpServer, linter, metrics)
	AddFraglintRulesTool(mcpServer)
	AddFraglintStatusTool(mcpServer, metrics)

	return &Server{
		config:  cfg,
		linter:  linter,
		metrics: metrics,
		mcp:     mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("starting MCP server on stdio", slog.String("project", s.config.ProjectPath))
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		s.config.Logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the linter's caches.
func (s *Server) Close() error {
	s.linter.Close()
	return nil
}

// projectLinter keeps one runner per rule selection so parse caches are
// reused between tool calls.
type projectLinter struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.Mutex
	runners map[string]*lint.Runner
}

func newProjectLinter(root string, cfg *config.Config, logger *slog.Logger) (*projectLinter, error) {
	l := &projectLinter{root: root, cfg: cfg, logger: logger, runners: make(map[string]*lint.Runner)}
	// A configuration that enables no rules is rejected here.
	if _, err := l.runner(nil); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *projectLinter) runner(rules []string) (*lint.Runner, error) {
	key := fmt.Sprint(rules)
	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.runners[key]; ok {
		return r, nil
	}
	r, err := lint.New(l.root, l.cfg, lint.Options{Rules: rules, Logger: l.logger})
	if err != nil {
		return nil, err
	}
	l.runners[key] = r
	return r, nil
}

// Check lints the targets, relative to the project root, with the given
// rules.
func (l *projectLinter) Check(ctx context.Context, rules []string, targets []string) (*lint.Run, error) {
	r, err := l.runner(rules)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		paths = append(paths, filepath.Join(l.root, t))
	}
	return r.Check(ctx, paths...)
}

func (l *projectLinter) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.runners {
		r.Close()
	}
	l.runners = make(map[string]*lint.Runner)
}
