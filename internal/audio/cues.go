// Package audio plays short synthesized cues for game events through the
// system speaker.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/snake/internal/session"
)

const sampleRate = beep.SampleRate(44100)

// Cues is a session.Listener that mixes a sound for each notable event.
// Before Initialize succeeds it is silent.
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	logger      *log.Logger
}

var _ session.Listener = (*Cues)(nil)

// NewCues creates an uninitialized cue player.
func NewCues(logger *log.Logger) *Cues {
	if logger == nil {
		logger = log.Default()
	}
	return &Cues{mixer: &beep.Mixer{}, logger: logger}
}

// Initialize opens the speaker. Call once per process.
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	c.logger.Debug("audio initialized", "rate", int(sampleRate))
	return nil
}

// Close silences all cues and releases the speaker.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	c.initialized = false
}

// OnEvent queues the cue for e, if any.
func (c *Cues) OnEvent(e session.Event) {
	var s beep.Streamer
	switch e.Kind {
	case session.EventAte:
		s = EatSound(sampleRate)
	case session.EventCollision:
		s = CrashSound(sampleRate)
	case session.EventWin:
		s = WinSound(sampleRate)
	case session.EventScoreRecorded:
		if e.NewBest {
			s = RecordSound(sampleRate)
		}
	}
	if s != nil {
		c.play(s)
	}
}

func (c *Cues) play(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}
