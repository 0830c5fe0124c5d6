// Package main contains the application wiring and the AppManager which
// coordinates the timer runner, audio and the UI.
//
// Maintenance notes / tips:
//   - Concurrency model: UI callbacks never touch the runner directly. They
//     enqueue control.Command values which a single command-loop goroutine
//     (see `commandLoop`) applies in order. The timer worker itself is owned
//     by timer.Runner; AppManager only sees it through status callbacks,
//     which arrive on the worker goroutine.
//   - `cmdCh` is a buffered channel. EnqueueCommand drops a command after a
//     short timeout instead of blocking the UI.
//   - Status callbacks must never block the timer worker. Anything that talks
//     to the desktop (notifications, the fallback bell) is posted to
//     `desktopLoop`, which owns `noteID`. A full queue drops the job.
//   - Shutdown detaches the view first so a late status update from the
//     worker cannot reach a window that is being destroyed.
package main

import (
	"StudyBreak/control"
	"StudyBreak/i18n"
	"StudyBreak/notify"
	"StudyBreak/timer"
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

const stopTimeout = 2 * time.Second

// desktopJob is a boundary side effect handled off the timer worker.
type desktopJob struct {
	status  timer.Status
	dismiss bool // withdraw the last boundary notification instead
}

// View is the part of the window the AppManager drives.
type View interface {
	SetRunning(running bool)
	ShowStatus(st timer.Status)
}

// AppManager is the main application struct, holding all state.
type AppManager struct {
	runner   *timer.Runner
	player   timer.Player
	fallback timer.Player // sounded when an alert fails; may be nil
	notifier notify.Notifier

	viewLock sync.Mutex
	view     View

	noteID      uint32 // owned by desktopLoop
	desktopCh   chan desktopJob
	desktopDone chan struct{}

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc
	loopDone  chan struct{}
}

// NewAppManager creates a new application manager and starts its command
// loop. The options are passed to every timer loop.
func NewAppManager(player, fallback timer.Player, notifier notify.Notifier, opts ...timer.Option) *AppManager {
	if notifier == nil {
		notifier = notify.Disabled()
	}
	a := &AppManager{
		player:   player,
		fallback: fallback,
		notifier: notifier,
		cmdCh:       make(chan control.Command, 16),
		loopDone:    make(chan struct{}),
		desktopCh:   make(chan desktopJob, 8),
		desktopDone: make(chan struct{}),
	}
	opts = append(opts, timer.WithObserver(a.onStatus))
	a.runner = timer.NewRunner(player, opts...)

	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	go a.commandLoop()
	go a.desktopLoop()
	return a
}

// SetView attaches the window. Passing nil detaches it.
func (a *AppManager) SetView(v View) {
	a.viewLock.Lock()
	a.view = v
	a.viewLock.Unlock()
}

func (a *AppManager) currentView() View {
	a.viewLock.Lock()
	defer a.viewLock.Unlock()
	return a.view
}

// EnqueueCommand posts a command to the internal command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	// Try to enqueue the command but avoid blocking UI indefinitely. If the
	// channel stays full for the configured short timeout, drop and log.
	select {
	case a.cmdCh <- cmd:
	case <-time.After(150 * time.Millisecond):
		log.Printf("EnqueueCommand timeout: dropping %s command", cmd.Type)
	}
}

func (a *AppManager) commandLoop() {
	defer close(a.loopDone)
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			err := a.handle(cmd)
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
		}
	}
}

func (a *AppManager) handle(cmd control.Command) error {
	switch cmd.Type {
	case control.CmdStart:
		err := a.runner.Start(cmd.Config)
		if errors.Is(err, timer.ErrAlreadyRunning) {
			log.Printf("Start ignored: timer already running")
			return nil
		}
		if err != nil {
			log.Printf("Start refused: %v", err)
			return err
		}
		a.setRunning(true)
	case control.CmdStop:
		a.runner.Stop()
		ctx, cancel := context.WithTimeout(a.cmdCtx, stopTimeout)
		err := a.runner.Wait(ctx)
		cancel()
		if err != nil {
			log.Printf("Timer worker still running after stop: %v", err)
		}
		a.setRunning(a.runner.Running())
	case control.CmdMute:
		a.player.Stop()
		a.post(desktopJob{dismiss: true})
	}
	return nil
}

func (a *AppManager) setRunning(running bool) {
	if v := a.currentView(); v != nil {
		v.SetRunning(running)
	}
}

// onStatus runs on the timer worker goroutine and must not block it.
func (a *AppManager) onStatus(st timer.Status) {
	if st.State.IsAlert() {
		a.post(desktopJob{status: st})
	}

	v := a.currentView()
	if v == nil {
		return
	}
	v.ShowStatus(st)
	if st.State == timer.StateStopped {
		v.SetRunning(false)
	}
}

func (a *AppManager) post(job desktopJob) {
	select {
	case a.desktopCh <- job:
	default:
		log.Printf("Desktop queue full: dropping boundary job")
	}
}

func (a *AppManager) desktopLoop() {
	defer close(a.desktopDone)
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case job := <-a.desktopCh:
			if job.dismiss {
				a.dismissBoundary()
				continue
			}
			if job.status.Err != nil {
				log.Printf("Alarm sound failed: %v", job.status.Err)
				a.ringFallback()
			}
			a.notifyBoundary(job.status)
		}
	}
}

func (a *AppManager) ringFallback() {
	if a.fallback == nil {
		return
	}
	if err := a.fallback.Play(); err != nil {
		log.Printf("Fallback beep failed: %v", err)
	}
}

// urgencyFor ranks the end of a break above the end of a study phase: the
// user is away from the desk and has to come back.
func urgencyFor(phase timer.Phase) notify.Urgency {
	if phase == timer.PhaseBreak {
		return notify.UrgencyCritical
	}
	return notify.UrgencyNormal
}

func (a *AppManager) notifyBoundary(st timer.Status) {
	body := i18n.T("Study time is over")
	if st.Phase == timer.PhaseBreak {
		body = i18n.T("Break is over")
	}
	if st.Err != nil {
		body += "\n" + i18n.T("Alarm sound failed")
	}

	id, err := a.notifier.Notify(notify.Notification{
		Title:      i18n.T("Alarm!"),
		Body:       body,
		Timeout:    -1,
		ReplacesID: a.noteID,
		Urgency:    urgencyFor(st.Phase),
		Silent:     st.Err == nil,
	})
	if err != nil {
		log.Printf("Failed to send notification: %v", err)
		return
	}
	a.noteID = id
}

func (a *AppManager) dismissBoundary() {
	if a.noteID == 0 {
		return
	}
	if err := a.notifier.Close(a.noteID); err != nil {
		log.Printf("Failed to close notification: %v", err)
	}
	a.noteID = 0
}

// Shutdown stops the timer, joins its worker, silences audio and stops the
// command and desktop loops. The view is detached before anything else. A
// desktop call still in flight is given up to timeout. Calling it more than
// once is safe.
func (a *AppManager) Shutdown(timeout time.Duration) {
	a.SetView(nil)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.runner.Shutdown(ctx); err != nil {
		log.Printf("Timer worker did not exit: %v", err)
	}
	a.player.Stop()

	if a.cmdCancel != nil {
		a.cmdCancel()
	}
	<-a.loopDone

	select {
	case <-a.desktopDone:
	case <-time.After(timeout):
		log.Printf("Desktop notifier still busy at shutdown")
	}
}
