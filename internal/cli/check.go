package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/fragment-lint/internal/config"
	"github.com/mvp-joe/fragment-lint/internal/git"
	"github.com/mvp-joe/fragment-lint/internal/lint"
	"github.com/mvp-joe/fragment-lint/internal/report"
)

var (
	checkFormat      string
	checkColor       string
	checkWatch       bool
	checkQuiet       bool
	checkShowFixes   bool
	checkRules       []string
	checkMetricsFile string
	checkChanged     string
)

// ErrIssuesFound is returned by check when an error-level diagnostic was
// reported.
var ErrIssuesFound = errors.New("issues found")

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Lint the Java sources of the current project",
	Long: `Check discovers Java sources under the current directory, builds a
model of their declarations and runs every enabled rule over the classes
they declare.

Paths narrow which files are analysed; every discovered file still
contributes declarations so supertypes and bindings resolve.

Examples:
  fraglint check
  fraglint check app/src/main --format json
  fraglint check --rule AccessDestroyedView --show-fixes
  fraglint check --changed
  fraglint check --changed origin/main
  fraglint check --watch`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "", "output format: text or json (default from config)")
	checkCmd.Flags().StringVar(&checkColor, "color", "", "color mode: auto, always or never (default from config)")
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "keep running and re-check on changes")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "suppress progress output")
	checkCmd.Flags().BoolVar(&checkShowFixes, "show-fixes", false, "print a diff preview for each suggested fix")
	checkCmd.Flags().StringSliceVar(&checkRules, "rule", nil, "run only these rule ids (repeatable)")
	checkCmd.Flags().StringVar(&checkMetricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	checkCmd.Flags().StringVar(&checkChanged, "changed", "", "analyse only files changed since this git ref, plus their subclasses")
	checkCmd.Flags().Lookup("changed").NoOptDefVal = "HEAD"

	rootCmd.AddCommand(checkCmd)
}

// checkOptions carries the resolved flags of one check invocation.
type checkOptions struct {
	Format      string
	Color       bool
	ShowFixes   bool
	Rules       []string
	Quiet       bool
	Watch       bool
	MetricsFile string
	// Changed is a git ref; when set only files changed since it, and
	// files declaring their subclasses, are analysed.
	Changed string
	Git     git.Operations
}

func runCheck(cmd *cobra.Command, args []string) error {
	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootDir := "."
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	opts := checkOptions{
		Format:      cfg.Output.Format,
		ShowFixes:   cfg.Output.ShowFixes || checkShowFixes,
		Rules:       checkRules,
		Quiet:       checkQuiet,
		Watch:       checkWatch,
		MetricsFile: checkMetricsFile,
		Changed:     checkChanged,
		Git:         git.NewOperations(),
	}
	if checkFormat != "" {
		opts.Format = checkFormat
	}
	colorMode := cfg.Output.Color
	if checkColor != "" {
		colorMode = checkColor
	}
	opts.Color = report.ColorEnabled(colorMode, os.Stdout)

	return executeCheck(ctx, rootDir, cfg, args, opts, cmd.OutOrStdout())
}

// executeCheck runs one check, or watches until ctx is done, writing
// reports to out.
func executeCheck(ctx context.Context, rootDir string, cfg *config.Config, targets []string, opts checkOptions, out io.Writer) error {
	if opts.Format != report.FormatText && opts.Format != report.FormatJSON {
		return fmt.Errorf("%w: %q", report.ErrUnknownFormat, opts.Format)
	}

	lintOpts := lint.Options{Rules: opts.Rules, Logger: slog.Default()}
	// Progress bars only accompany text reports.
	if !opts.Quiet && opts.Format == report.FormatText {
		progress := NewCLIProgressReporter(false)
		lintOpts.Progress = progress
		lintOpts.OnDiscovered = progress.OnDiscovered
		lintOpts.OnFileParsed = progress.OnFileParsed
	}

	runner, err := lint.New(rootDir, cfg, lintOpts)
	if err != nil {
		return err
	}
	defer runner.Close()

	var run *lint.Run
	if opts.Changed != "" {
		changed, err := changedFiles(rootDir, opts)
		if err != nil {
			return err
		}
		slog.Debug("changed files", slog.String("base", opts.Changed), slog.Int("count", len(changed)))
		run, err = runner.Recheck(ctx, changed)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
	} else {
		paths := make([]string, 0, len(targets))
		for _, t := range targets {
			if !filepath.IsAbs(t) {
				t = filepath.Join(rootDir, t)
			}
			paths = append(paths, t)
		}
		run, err = runner.Check(ctx, paths...)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
	}
	if err := writeRun(out, run, opts); err != nil {
		return err
	}
	if err := writeMetrics(opts.MetricsFile); err != nil {
		return err
	}

	if !opts.Watch {
		if run.Result.HasErrors() {
			return ErrIssuesFound
		}
		return nil
	}

	if opts.Format == report.FormatText {
		fmt.Fprintln(out, "\nWatching for changes (Ctrl+C to stop)...")
	}
	return runner.Watch(ctx, lint.WatchOptions{
		OnRun: func(run *lint.Run, err error) {
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Error("re-check failed", slog.Any("error", err))
				}
				return
			}
			if err := writeRun(out, run, opts); err != nil {
				slog.Error("failed to write report", slog.Any("error", err))
			}
			if err := writeMetrics(opts.MetricsFile); err != nil {
				slog.Error("failed to write metrics", slog.Any("error", err))
			}
		},
	})
}

// changedFiles lists the files git reports as changed, spelled the way
// discovery spells paths under rootDir. Files outside rootDir are dropped.
func changedFiles(rootDir string, opts checkOptions) ([]string, error) {
	ops := opts.Git
	if ops == nil {
		ops = git.NewOperations()
	}
	files, err := ops.ChangedFiles(rootDir, opts.Changed)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rootDir, err)
	}
	// git reports the worktree with symlinks resolved.
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(absRoot, f)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, filepath.Join(rootDir, rel))
	}
	return out, nil
}

func writeRun(out io.Writer, run *lint.Run, opts checkOptions) error {
	return report.Write(out, opts.Format, run.Result, report.FromUnits(run.Project.Units()), report.Options{
		Color:     opts.Color,
		ShowFixes: opts.ShowFixes,
		Version:   Version,
	})
}

// writeMetrics exports the default registry in the node_exporter textfile
// format.
func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
