// Package audio plays the alarm sound. Player decodes a file into memory and
// plays it through the process-wide beep speaker; Beeper is a fallback that
// sounds the system bell when no speaker is available.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// SampleRate is the rate the speaker is opened with. Decoded files are
// resampled to it.
const SampleRate beep.SampleRate = 44100

var (
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrNotLoaded is returned by Play before a successful Load.
	ErrNotLoaded = errors.New("no sound loaded")
)

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
	".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
	".ogg": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
}

// Extensions lists the file extensions Load accepts.
func Extensions() []string {
	return []string{".mp3", ".wav", ".ogg"}
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Player plays one buffered sound at a time.
type Player struct {
	mu         sync.Mutex
	buffer     *beep.Buffer
	path       string
	playing    bool
	generation uint64
}

// NewPlayer creates a player. The speaker is opened on the first Init or Play.
func NewPlayer() *Player {
	return &Player{}
}

// Init opens the speaker. It is safe to call repeatedly; the first result is
// cached for the life of the process.
func (p *Player) Init() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
	})
	return speakerErr
}

// Load decodes the file at path into memory, replacing any previous sound.
func (p *Player) Load(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open sound: %w", err)
	}
	defer f.Close()

	streamer, format, err := decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	buffer, err := bufferStream(streamer, format)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	p.mu.Lock()
	p.buffer = buffer
	p.path = path
	p.mu.Unlock()
	return nil
}

func bufferStream(streamer beep.StreamSeekCloser, format beep.Format) (*beep.Buffer, error) {
	var s beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{
		SampleRate:  SampleRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buffer.Append(s)
	if err := streamer.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buffer, nil
}

// Play starts the loaded sound from the beginning and returns immediately.
func (p *Player) Play() error {
	p.mu.Lock()
	buffer := p.buffer
	p.mu.Unlock()
	if buffer == nil {
		return ErrNotLoaded
	}
	if err := p.Init(); err != nil {
		return fmt.Errorf("open speaker: %w", err)
	}

	p.Stop()

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.playing = true
	p.mu.Unlock()

	// The callback runs on the speaker goroutine with the speaker locked, so
	// p.mu must never be held while calling into speaker.
	speaker.Play(beep.Seq(buffer.Streamer(0, buffer.Len()), beep.Callback(func() {
		p.finished(gen)
	})))
	return nil
}

func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == gen {
		p.playing = false
	}
}

// IsPlaying reports whether a sound started by Play is still audible.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Stop silences the speaker immediately. It is a no-op when nothing plays.
func (p *Player) Stop() {
	p.mu.Lock()
	wasPlaying := p.playing
	p.playing = false
	p.generation++
	p.mu.Unlock()

	if wasPlaying {
		speaker.Clear()
	}
}

// duration returns the length of the loaded sound.
func (p *Player) duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buffer == nil {
		return 0
	}
	return SampleRate.D(p.buffer.Len())
}

// loadedPath returns the path of the loaded sound.
func (p *Player) loadedPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}
