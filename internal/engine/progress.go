package engine

// ProgressReporter provides callbacks for reporting analysis progress.
// Implementations can display progress bars, log messages, or remain silent.
// Callbacks may arrive from several goroutines.
type ProgressReporter interface {
	// OnAnalysisStart is called once the class count is known.
	OnAnalysisStart(totalClasses int)

	// OnClassAnalyzed is called after every rule has visited a class.
	OnClassAnalyzed(qualifiedName string)

	// OnComplete is called when the run finishes, even when cancelled.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnAnalysisStart(totalClasses int)     {}
func (n *NoOpProgressReporter) OnClassAnalyzed(qualifiedName string) {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)              {}
