package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrRunnerClosed is returned by Go once Shutdown has started
var ErrRunnerClosed = errors.New("runner is shutting down")

// Task outcomes reported to an Observer
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomePanic = "panic"
)

// Observer is told about every finished task
type Observer interface {
	TaskFinished(ctx context.Context, name, outcome string)
}

/* Runner keeps work alive after the HTTP response has been written
 * Tasks are never awaited by the caller, never cancelled and never retried
 * Shutdown drains whatever is still running
 */
type Runner struct {
	logger   zerolog.Logger
	observer Observer

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	inFlight atomic.Int64
}

// NewRunner creates a Runner. observer may be nil.
func NewRunner(logger zerolog.Logger, observer Observer) *Runner {
	return &Runner{
		logger:   logger,
		observer: observer,
	}
}

// Go runs fn on its own goroutine and returns immediately. The task context keeps the
// values of ctx but not its cancellation, so a finished request does not stop the task.
func (r *Runner) Go(ctx context.Context, name string, fn func(context.Context) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrRunnerClosed
	}

	r.wg.Add(1)
	r.inFlight.Add(1)
	taskCtx := context.WithoutCancel(ctx)

	go func() {
		defer r.wg.Done()
		defer r.inFlight.Add(-1)
		r.run(taskCtx, name, fn)
	}()
	return nil
}

func (r *Runner) run(ctx context.Context, name string, fn func(context.Context) error) {
	outcome := OutcomeOK
	defer func() {
		if rec := recover(); rec != nil {
			outcome = OutcomePanic
			r.logger.Error().
				Str("task", name).
				Str("panic", fmt.Sprint(rec)).
				Str("stack", string(debug.Stack())).
				Msg("background task panicked")
		}
		if r.observer != nil {
			r.observer.TaskFinished(ctx, name, outcome)
		}
	}()

	if err := fn(ctx); err != nil {
		outcome = OutcomeError
		r.logger.Error().Err(err).Str("task", name).Msg("background task failed")
	}
}

// InFlight returns the number of tasks started and not yet finished
func (r *Runner) InFlight() int64 {
	return r.inFlight.Load()
}

// Wait blocks until every task started so far has finished
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown refuses new tasks and waits for running ones until ctx is done
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining %d background tasks: %w", r.InFlight(), ctx.Err())
	}
}
