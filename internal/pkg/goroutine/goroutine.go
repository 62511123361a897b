package goroutine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/sectools/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 4

// ErrClosed is returned by Go after Wait has been called.
var ErrClosed = errors.New("goroutine manager is closed")

// PanicError is collected when a task panics.
type PanicError struct {
	Value any
	// Stack holds the internal frames of the panicking goroutine, or the full
	// dump when none are internal.
	Stack []string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic occurred in goroutine: %v", e.Value)
}

// Manager runs functions in goroutines with a bounded concurrency limit.
//
// It collects errors returned by tasks and can be waited on using Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = min(runtime.NumCPU(), DefaultMaxGoroutine)
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine), // Semaphore to limit goroutines
	}
}

// Limit returns the maximum number of tasks running at once.
func (g *Manager) Limit() int {
	return cap(g.sema)
}

// Go runs f in a new goroutine once a slot is free.
//
// It blocks while the manager is at its limit. It returns ctx.Err() if ctx is
// done before a slot frees up, and ErrClosed after Wait. A task that panics is
// recorded as a *PanicError.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) error {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}: // Acquire a semaphore slot
	case <-ctx.Done():
		return ctx.Err()
	}

	g.wg.Go(func() {
		defer func() {
			<-g.sema // Release semaphore slot

			if rvr := recover(); rvr != nil {
				g.record(newPanicError(rvr))
			}
		}()

		if err := ctx.Err(); err != nil {
			g.record(err)
			return
		}

		if err := f(ctx); err != nil {
			g.record(err)
		}
	})

	return nil
}

// Wait blocks until all scheduled goroutines finish and returns the collected
// errors joined with errors.Join. The manager accepts no tasks afterwards.
func (g *Manager) Wait() error {
	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

func newPanicError(v any) *PanicError {
	stack := debug.Stack()
	paths := stacktrace.InternalPaths(stack)
	if len(paths) == 0 {
		paths = []string{string(stack)}
	}

	return &PanicError{Value: v, Stack: paths}
}
