package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/fragment-lint/internal/engine"
)

// CLIProgressReporter shows parsing and analysis progress bars on stderr.
type CLIProgressReporter struct {
	quiet    bool
	out      io.Writer
	parseBar *progressbar.ProgressBar
	classBar *progressbar.ProgressBar
}

var _ engine.ProgressReporter = (*CLIProgressReporter)(nil)

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, out: os.Stderr}
}

func (c *CLIProgressReporter) newBar(total int, description, unit string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString(unit),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// OnDiscovered starts the parsing bar.
func (c *CLIProgressReporter) OnDiscovered(analyze, types int) {
	if c.quiet {
		return
	}
	c.parseBar = c.newBar(analyze+types, "Parsing files", "files/s")
}

// OnFileParsed may be called from several goroutines; the bar is safe for
// concurrent use.
func (c *CLIProgressReporter) OnFileParsed(string) {
	if c.quiet || c.parseBar == nil {
		return
	}
	_ = c.parseBar.Add(1)
}

func (c *CLIProgressReporter) OnAnalysisStart(totalClasses int) {
	if c.quiet {
		return
	}
	if c.parseBar != nil {
		_ = c.parseBar.Finish()
		c.parseBar = nil
	}
	c.classBar = c.newBar(totalClasses, "Analysing classes", "classes/s")
}

func (c *CLIProgressReporter) OnClassAnalyzed(string) {
	if c.quiet || c.classBar == nil {
		return
	}
	_ = c.classBar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(stats *engine.Stats) {
	if c.quiet {
		return
	}
	if c.classBar != nil {
		_ = c.classBar.Finish()
		c.classBar = nil
	}
	fmt.Fprintf(c.out, "Analysed %d classes in %d files (%.1fs)\n", stats.Classes, stats.Units, stats.Duration.Seconds())
}
