package mcp

import (
	"sync"
	"time"
)

// CheckMetrics tracks fraglint_check runs served by the MCP server.
// All methods are safe for concurrent use.
type CheckMetrics struct {
	mu               sync.RWMutex
	lastCheckTime    time.Time
	lastDuration     time.Duration
	lastError        string
	lastDiagnostics  int
	totalChecks      int64
	failedChecks     int64
	totalDiagnostics int64
}

// MetricsSnapshot is an immutable copy of CheckMetrics.
type MetricsSnapshot struct {
	LastCheckTime    time.Time `json:"last_check_time"`
	LastDurationMS   int64     `json:"last_duration_ms"`
	LastError        string    `json:"last_error,omitempty"`
	LastDiagnostics  int       `json:"last_diagnostics"`
	TotalChecks      int64     `json:"total_checks"`
	FailedChecks     int64     `json:"failed_checks"`
	TotalDiagnostics int64     `json:"total_diagnostics"`
}

// NewCheckMetrics creates an empty CheckMetrics.
func NewCheckMetrics() *CheckMetrics {
	return &CheckMetrics{}
}

// RecordCheck records the outcome of one check. diagnostics is ignored
// when err is set.
func (m *CheckMetrics) RecordCheck(duration time.Duration, err error, diagnostics int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCheckTime = time.Now()
	m.lastDuration = duration
	m.totalChecks++

	if err != nil {
		m.failedChecks++
		m.lastError = err.Error()
		m.lastDiagnostics = 0
		return
	}
	m.lastError = ""
	m.lastDiagnostics = diagnostics
	m.totalDiagnostics += int64(diagnostics)
}

// Snapshot returns the current values.
func (m *CheckMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		LastCheckTime:    m.lastCheckTime,
		LastDurationMS:   m.lastDuration.Milliseconds(),
		LastError:        m.lastError,
		LastDiagnostics:  m.lastDiagnostics,
		TotalChecks:      m.totalChecks,
		FailedChecks:     m.failedChecks,
		TotalDiagnostics: m.totalDiagnostics,
	}
}
