package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// WaveType selects an oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
)

// tone is a single note with a linear attack and release.
type tone struct {
	rate    beep.SampleRate
	freq    float64
	volume  float64
	wave    WaveType
	phase   float64
	pos     int
	total   int
	attack  int
	release int
}

// NewTone returns a finite streamer playing freq for d.
func NewTone(rate beep.SampleRate, freq float64, d time.Duration, wave WaveType, volume float64) beep.Streamer {
	total := rate.N(d)
	edge := rate.N(5 * time.Millisecond)
	if 2*edge > total {
		edge = total / 2
	}
	return &tone{
		rate:    rate,
		freq:    freq,
		volume:  volume,
		wave:    wave,
		total:   total,
		attack:  edge,
		release: edge,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		var val float64
		switch t.wave {
		case WaveSquare:
			if t.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		default:
			val = math.Sin(2 * math.Pi * t.phase)
		}

		env := 1.0
		if t.attack > 0 && t.pos < t.attack {
			env = float64(t.pos) / float64(t.attack)
		} else if left := t.total - t.pos; t.release > 0 && left < t.release {
			env = float64(left) / float64(t.release)
		}

		val *= env * t.volume
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// sweep glides from one frequency to another with an exponential decay.
type sweep struct {
	rate     beep.SampleRate
	from, to float64
	volume   float64
	phase    float64
	pos      int
	total    int
}

// NewSweep returns a finite streamer gliding from one pitch to another over d.
func NewSweep(rate beep.SampleRate, from, to float64, d time.Duration, volume float64) beep.Streamer {
	return &sweep{rate: rate, from: from, to: to, volume: volume, total: rate.N(d)}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		progress := float64(s.pos) / float64(s.total)
		freq := s.from + (s.to-s.from)*progress

		// Square with a third harmonic for a harsher crash.
		val := math.Sin(2*math.Pi*s.phase) + 0.33*math.Sin(6*math.Pi*s.phase)
		val *= s.volume * math.Exp(-progress*4)

		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// EatSound is a short rising blip.
func EatSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		NewTone(rate, 660, 40*time.Millisecond, WaveSquare, 0.12),
		NewTone(rate, 990, 50*time.Millisecond, WaveSquare, 0.12),
	)
}

// CrashSound is a falling buzz.
func CrashSound(rate beep.SampleRate) beep.Streamer {
	return NewSweep(rate, 320, 60, 450*time.Millisecond, 0.3)
}

// WinSound is a major arpeggio.
func WinSound(rate beep.SampleRate) beep.Streamer {
	notes := []float64{523.25, 659.25, 783.99, 1046.50}
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		streamers = append(streamers, NewTone(rate, f, 120*time.Millisecond, WaveSine, 0.25))
	}
	return beep.Seq(streamers...)
}

// RecordSound is played when a score tops its difficulty table.
func RecordSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		NewTone(rate, 783.99, 90*time.Millisecond, WaveSine, 0.2),
		beep.Silence(rate.N(30*time.Millisecond)),
		NewTone(rate, 1046.50, 180*time.Millisecond, WaveSine, 0.2),
	)
}
