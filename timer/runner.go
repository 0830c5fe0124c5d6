package timer

import (
	"context"
	"log"
	"sync"
)

// Runner owns at most one Loop worker at a time.
type Runner struct {
	mu     sync.Mutex
	player Player
	opts   []Option
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a runner that drives the given player. The options are
// applied to every loop it starts.
func NewRunner(p Player, opts ...Option) *Runner {
	return &Runner{player: p, opts: opts}
}

// Start validates cfg and spawns the worker. It returns ErrAlreadyRunning
// without side effects while a previous run is still active.
func (r *Runner) Start(cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runningLocked() {
		return ErrAlreadyRunning
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	loop := NewLoop(cfg, r.player, r.opts...)
	go func() {
		defer close(done)
		defer cancel()
		if err := loop.Run(ctx); err != nil {
			log.Printf("timer: loop exited: %v", err)
		}
	}()

	log.Printf("timer: started (study=%s break=%s alarm=%s)", cfg.Study, cfg.Break, cfg.AlarmPath)
	return nil
}

// Stop requests cancellation of the active run. It does not wait for the
// worker; use Wait for that. It reports whether a run was active.
func (r *Runner) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.runningLocked() {
		return false
	}
	r.cancel()
	log.Printf("timer: stop requested")
	return true
}

// Running reports whether a worker is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runningLocked()
}

// Wait blocks until the current worker has exited or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the active run and joins its worker.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.Stop()
	return r.Wait(ctx)
}

func (r *Runner) runningLocked() bool {
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}
