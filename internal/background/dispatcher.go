package background

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of store-file events into one dispatch pass.
const debounce = 250 * time.Millisecond

// Dispatcher drains the queue under the policy's concurrency limit. One
// dispatch pass sweeps stale jobs, selects dispatchable ones, and executes
// them in parallel goroutines.
type Dispatcher struct {
	exec *Executor
}

// NewDispatcher returns a dispatcher over the executor.
func NewDispatcher(exec *Executor) *Dispatcher {
	return &Dispatcher{exec: exec}
}

// DispatchOnce runs a single dispatch pass and returns how many jobs it
// executed. Job failures are recorded on the jobs themselves; only store
// errors surface here.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	stale, err := d.exec.store.MarkStale(d.exec.policy.BackgroundTask.StaleTimeout())
	if err != nil {
		return 0, err
	}
	if stale > 0 {
		log.Printf("[queue] reclaimed %d stale job(s)", stale)
	}

	jobs, err := d.exec.store.ListDispatchable(d.exec.policy.BackgroundTask.DefaultConcurrency)
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			done, err := d.exec.Execute(ctx, id)
			if err != nil {
				log.Printf("[queue] job %s: %v", id, err)
				return
			}
			log.Printf("[queue] job %s finished %s", done.ID, done.Status)
		}(job.ID)
	}
	wg.Wait()

	return len(jobs), nil
}

// Watch dispatches on startup and then re-dispatches whenever the store file
// changes, until the context is canceled. Atomic rewrites show up as create
// and rename events on the store directory, so the watch is on the directory
// and filtered by name.
func (d *Dispatcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	storePath := d.exec.store.Path()
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(storePath)); err != nil {
		return err
	}

	if _, err := d.DispatchOnce(ctx); err != nil {
		log.Printf("[queue] dispatch: %v", err)
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(storePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			schedule()
		case <-fire:
			if _, err := d.DispatchOnce(ctx); err != nil {
				log.Printf("[queue] dispatch: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[queue] watch: %v", err)
		}
	}
}
