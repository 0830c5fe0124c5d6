// Package control defines lightweight command messages used by the UI to
// request actions from the application command loop. The command loop
// serialises start, stop and mute so the UI callbacks never race each other.
package control

import "StudyBreak/timer"

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdStart CommandType = iota
	CmdStop
	CmdMute
)

func (c CommandType) String() string {
	switch c {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdMute:
		return "mute"
	default:
		return "unknown"
	}
}

// Command is the message sent from the UI to AppManager.commandLoop. The
// optional Reply channel receives the outcome; a start refused for missing
// configuration replies with the validation error.
type Command struct {
	Type   CommandType
	Config timer.Config // used by CmdStart
	Reply  chan error   // optional reply channel
}
