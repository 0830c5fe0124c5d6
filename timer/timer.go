// Package timer contains the study/break phase loop and the runner that owns
// its worker goroutine.
//
// Maintenance notes:
//   - The loop is driven only by its context. Stopping a run means cancelling
//     that context; there is no other shared flag between the UI and the
//     worker.
//   - Waits use a single deadline timer, so a phase does not drift by the
//     cost of each progress tick. The ticker only feeds observers and the
//     playback-completion poll.
//   - Observers are called on the worker goroutine. UI code must marshal the
//     update onto its own thread (fyne.Do) and must not block.
package timer

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DefaultTick is the progress and playback poll interval.
const DefaultTick = time.Second

// Player is the playback service the loop drives at phase boundaries.
type Player interface {
	Load(path string) error
	Play() error
	IsPlaying() bool
	Stop()
}

// Status is reported to the observer on every transition and progress tick.
type Status struct {
	State     State
	Phase     Phase
	Remaining time.Duration
	Cycle     int
	Err       error
}

// Option configures a Loop.
type Option func(*Loop)

// WithTick overrides the progress interval.
func WithTick(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.tick = d
		}
	}
}

// WithObserver registers a callback for status updates.
func WithObserver(fn func(Status)) Option {
	return func(l *Loop) {
		l.observer = fn
	}
}

// Loop alternates study and break waits, sounding the alarm at each boundary.
type Loop struct {
	cfg      Config
	player   Player
	tick     time.Duration
	observer func(Status)
}

// NewLoop creates a loop for a single run.
func NewLoop(cfg Config, p Player, opts ...Option) *Loop {
	l := &Loop{cfg: cfg, player: p, tick: DefaultTick}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes the study/break cycle until ctx is cancelled. It returns nil
// when stopped; playback failures are reported through the observer and never
// end the run.
func (l *Loop) Run(ctx context.Context) error {
	last := Status{State: StateIdle, Phase: PhaseStudy}
	defer func() {
		last.State = StateStopped
		last.Remaining = 0
		last.Err = nil
		l.report(last)
	}()

	for cycle := 1; ; cycle++ {
		for _, phase := range []Phase{PhaseStudy, PhaseBreak} {
			last = Status{Phase: phase, Cycle: cycle}
			if !l.wait(ctx, phase, cycle) {
				return nil
			}
			if !l.alert(ctx, phase, cycle) {
				return nil
			}
		}
	}
}

// wait blocks for the phase duration. It returns false if ctx was cancelled
// before the deadline.
func (l *Loop) wait(ctx context.Context, phase Phase, cycle int) bool {
	if ctx.Err() != nil {
		return false
	}

	d := l.cfg.Duration(phase)
	deadline := time.Now().Add(d)
	st := Status{State: waitState(phase), Phase: phase, Remaining: d, Cycle: cycle}
	l.report(st)
	if d <= 0 {
		return true
	}

	deadlineTimer := time.NewTimer(d)
	defer deadlineTimer.Stop()
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadlineTimer.C:
			// Cancellation wins a tie with the deadline.
			return ctx.Err() == nil
		case now := <-ticker.C:
			st.Remaining = deadline.Sub(now)
			if st.Remaining < 0 {
				st.Remaining = 0
			}
			l.report(st)
		}
	}
}

// alert plays the alarm and polls until it finishes. A playback error skips
// the alert turn. It returns false if ctx was cancelled.
func (l *Loop) alert(ctx context.Context, phase Phase, cycle int) bool {
	st := Status{State: alertState(phase), Phase: phase, Cycle: cycle}
	if err := l.play(); err != nil {
		log.Printf("timer: %s alert skipped: %v", phase, err)
		st.Err = err
		l.report(st)
		return ctx.Err() == nil
	}
	l.report(st)

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()
	for l.player.IsPlaying() {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return ctx.Err() == nil
}

func (l *Loop) play() error {
	if err := l.player.Load(l.cfg.AlarmPath); err != nil {
		return fmt.Errorf("load %s: %w", l.cfg.AlarmPath, err)
	}
	if err := l.player.Play(); err != nil {
		return fmt.Errorf("play %s: %w", l.cfg.AlarmPath, err)
	}
	return nil
}

func (l *Loop) report(st Status) {
	if l.observer != nil {
		l.observer(st)
	}
}
