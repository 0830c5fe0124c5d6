package timer

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoAlarm is returned when a run is requested without an alarm sound path.
	ErrNoAlarm = errors.New("no alarm sound file selected")
	// ErrInvalidDuration is returned for negative phase durations.
	ErrInvalidDuration = errors.New("phase duration must not be negative")
	// ErrAlreadyRunning is returned by Runner.Start while a loop is active.
	ErrAlreadyRunning = errors.New("timer already running")
)

// Phase is one of the two alternating intervals.
type Phase int

const (
	PhaseStudy Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	switch p {
	case PhaseStudy:
		return "Study"
	case PhaseBreak:
		return "Break"
	default:
		return "Unknown"
	}
}

// State defines the possible states of a running loop.
type State int

const (
	StateIdle State = iota
	StateStudyWait
	StateStudyAlert
	StateBreakWait
	StateBreakAlert
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateStudyWait:
		return "StudyWait"
	case StateStudyAlert:
		return "StudyAlert"
	case StateBreakWait:
		return "BreakWait"
	case StateBreakAlert:
		return "BreakAlert"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// IsAlert reports whether the state is an alert playback state.
func (s State) IsAlert() bool {
	return s == StateStudyAlert || s == StateBreakAlert
}

// waitState and alertState map a phase to its states.
func waitState(p Phase) State {
	if p == PhaseBreak {
		return StateBreakWait
	}
	return StateStudyWait
}

func alertState(p Phase) State {
	if p == PhaseBreak {
		return StateBreakAlert
	}
	return StateStudyAlert
}

// Config holds the durations and alarm sound for one run. It is copied when
// a run starts, so later edits do not affect a loop already in flight.
type Config struct {
	Study     time.Duration
	Break     time.Duration
	AlarmPath string
}

// NewConfig builds a Config from whole minutes, the unit the UI collects.
func NewConfig(studyMinutes, breakMinutes int, alarmPath string) Config {
	return Config{
		Study:     time.Duration(studyMinutes) * time.Minute,
		Break:     time.Duration(breakMinutes) * time.Minute,
		AlarmPath: alarmPath,
	}
}

// Validate reports whether the configuration can be run.
func (c Config) Validate() error {
	if c.AlarmPath == "" {
		return ErrNoAlarm
	}
	if c.Study < 0 {
		return fmt.Errorf("study %s: %w", c.Study, ErrInvalidDuration)
	}
	if c.Break < 0 {
		return fmt.Errorf("break %s: %w", c.Break, ErrInvalidDuration)
	}
	return nil
}

// Duration returns the configured length of a phase.
func (c Config) Duration(p Phase) time.Duration {
	if p == PhaseBreak {
		return c.Break
	}
	return c.Study
}
