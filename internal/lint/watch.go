package lint

import (
	"context"
	"log/slog"
	"time"

	"github.com/mvp-joe/fragment-lint/internal/discovery"
	"github.com/mvp-joe/fragment-lint/internal/watcher"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	// OnRun receives every re-check, including failed ones.
	OnRun func(run *Run, err error)
}

// Watch re-checks affected files whenever Java sources under the root
// change, until ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, opts WatchOptions) error {
	fw, err := watcher.NewFileWatcher(
		[]string{r.discovery.Root()},
		[]string{".java"},
		watcher.WithDebounce(opts.Debounce),
		watcher.WithLogger(r.logger),
		watcher.WithSkipDir(r.discovery.IgnoresDir),
	)
	if err != nil {
		return err
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		var changed []string
		for _, f := range files {
			if r.discovery.Classify(f) != discovery.Skip {
				changed = append(changed, f)
			}
		}
		if len(changed) == 0 {
			return
		}

		r.logger.Info("re-checking", slog.Int("changed", len(changed)))
		run, err := r.Recheck(ctx, changed)
		if opts.OnRun != nil {
			opts.OnRun(run, err)
		}
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
