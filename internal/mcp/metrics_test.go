package mcp

// Test Plan for CheckMetrics:
// - A successful check records duration and diagnostic count
// - A failed check records the error and clears the last count
// - Counters accumulate over several checks
// - Concurrent recording and reading is safe (run with -race)
// - Zero values before any check

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckMetrics_RecordSuccess(t *testing.T) {
	t.Parallel()

	metrics := NewCheckMetrics()
	metrics.RecordCheck(150*time.Millisecond, nil, 3)

	snapshot := metrics.Snapshot()
	assert.Equal(t, int64(1), snapshot.TotalChecks)
	assert.Equal(t, int64(0), snapshot.FailedChecks)
	assert.Equal(t, int64(150), snapshot.LastDurationMS)
	assert.Equal(t, 3, snapshot.LastDiagnostics)
	assert.Equal(t, int64(3), snapshot.TotalDiagnostics)
	assert.Empty(t, snapshot.LastError)
	assert.False(t, snapshot.LastCheckTime.IsZero())
}

func TestCheckMetrics_RecordFailure(t *testing.T) {
	t.Parallel()

	metrics := NewCheckMetrics()
	metrics.RecordCheck(20*time.Millisecond, nil, 2)
	metrics.RecordCheck(50*time.Millisecond, errors.New("failed to load sources: boom"), 7)

	snapshot := metrics.Snapshot()
	assert.Equal(t, int64(2), snapshot.TotalChecks)
	assert.Equal(t, int64(1), snapshot.FailedChecks)
	assert.Equal(t, "failed to load sources: boom", snapshot.LastError)
	assert.Equal(t, 0, snapshot.LastDiagnostics)
	assert.Equal(t, int64(2), snapshot.TotalDiagnostics, "failed checks add nothing")
}

func TestCheckMetrics_ErrorClearedBySuccess(t *testing.T) {
	t.Parallel()

	metrics := NewCheckMetrics()
	metrics.RecordCheck(time.Millisecond, errors.New("disk full"), 0)
	metrics.RecordCheck(time.Millisecond, nil, 1)

	snapshot := metrics.Snapshot()
	assert.Empty(t, snapshot.LastError)
	assert.Equal(t, 1, snapshot.LastDiagnostics)
}

func TestCheckMetrics_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	metrics := NewCheckMetrics()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var err error
			if id%5 == 0 {
				err = errors.New("simulated error")
			}
			metrics.RecordCheck(time.Duration(id)*time.Millisecond, err, 1)
		}(i)
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = metrics.Snapshot()
		}()
	}
	wg.Wait()

	snapshot := metrics.Snapshot()
	assert.Equal(t, int64(50), snapshot.TotalChecks)
	assert.Equal(t, int64(10), snapshot.FailedChecks)
	assert.Equal(t, int64(40), snapshot.TotalDiagnostics)
}

func TestCheckMetrics_ZeroValues(t *testing.T) {
	t.Parallel()

	snapshot := NewCheckMetrics().Snapshot()
	assert.Zero(t, snapshot.TotalChecks)
	assert.True(t, snapshot.LastCheckTime.IsZero())
	assert.Empty(t, snapshot.LastError)
}
