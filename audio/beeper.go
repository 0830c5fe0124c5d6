package audio

import (
	"github.com/gen2brain/beeep"
)

// Beeper sounds the system bell. It satisfies the same contract as Player and
// is used when the speaker cannot be opened; the sound path is ignored.
type Beeper struct {
	Freq     float64
	Duration int // milliseconds
}

// NewBeeper returns a Beeper with beeep's default tone.
func NewBeeper() *Beeper {
	return &Beeper{Freq: beeep.DefaultFreq, Duration: beeep.DefaultDuration}
}

func (b *Beeper) Load(_ string) error { return nil }

// Play blocks for the length of the tone; the bell has no asynchronous mode.
func (b *Beeper) Play() error {
	return beeep.Beep(b.Freq, b.Duration)
}

func (b *Beeper) IsPlaying() bool { return false }

func (b *Beeper) Stop() {}
