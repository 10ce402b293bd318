// Package effects draws short-lived particle bursts over the board when the
// snake eats, crashes or wins.
package effects

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/session"
	"github.com/tomz197/snake/internal/snake"
)

// sparkPool reuses Spark values between bursts.
var sparkPool = sync.Pool{
	New: func() any {
		return &Spark{}
	},
}

// Spark is one particle, in board cell coordinates.
type Spark struct {
	X, Y        float64
	VX, VY      float64 // Cells per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64
	Drag        float64 // Velocity kept per 1/60s (1.0 = no drag)
	Color       draw.Color
}

func newSpark(x, y, vx, vy, lifetime float64, color draw.Color) *Spark {
	s := sparkPool.Get().(*Spark)
	*s = Spark{
		X: x, Y: y,
		VX: vx, VY: vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.92,
		Color:       color,
	}
	return s
}

// update advances the spark; it reports true once the spark has expired.
func (s *Spark) update(dt float64) bool {
	s.Lifetime -= dt
	if s.Lifetime <= 0 {
		return true
	}
	drag := math.Pow(s.Drag, dt*60)
	s.VX *= drag
	s.VY *= drag
	s.X += s.VX * dt
	s.Y += s.VY * dt
	return false
}

// burst describes how an event looks.
type burst struct {
	count    int
	speed    float64
	lifetime float64
	colors   []draw.Color
}

var (
	eatBurst = burst{
		count: 10, speed: 6, lifetime: 0.4,
		colors: []draw.Color{draw.ColorBrightYellow, draw.ColorYellow, draw.ColorBrightGreen},
	}
	crashBurst = burst{
		count: 28, speed: 10, lifetime: 0.9,
		colors: []draw.Color{draw.ColorBrightRed, draw.ColorRed, draw.ColorBrightYellow},
	}
	winBurst = burst{
		count: 48, speed: 14, lifetime: 1.5,
		colors: []draw.Color{draw.ColorBrightCyan, draw.ColorBrightMagenta, draw.ColorBrightYellow, draw.ColorBrightGreen},
	}
)

// Sparks is a session.Listener that turns game events into particle bursts.
// It is driven from the game loop goroutine only.
type Sparks struct {
	rng    *rand.Rand
	sparks []*Spark
}

var _ session.Listener = (*Sparks)(nil)

// NewSparks returns an empty particle system. A nil rng uses a time seed.
func NewSparks(rng *rand.Rand) *Sparks {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sparks{rng: rng}
}

// OnEvent spawns a burst for eat, crash and win events.
func (s *Sparks) OnEvent(e session.Event) {
	switch e.Kind {
	case session.EventAte:
		s.spawn(e.At, eatBurst)
	case session.EventCollision:
		s.spawn(e.At, crashBurst)
	case session.EventWin:
		s.spawn(e.At, winBurst)
	case session.EventStateChanged:
		if e.To == session.StateMenu || (e.To == session.StatePlaying && e.From != session.StatePaused) {
			s.Reset()
		}
	}
}

func (s *Sparks) spawn(at snake.Point, b burst) {
	cx := float64(at.X) + 0.5
	cy := float64(at.Y) + 0.5
	for i := 0; i < b.count; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		// 50% to 150% speed, 50% to 100% lifetime
		speed := b.speed * (0.5 + s.rng.Float64())
		life := b.lifetime * (0.5 + s.rng.Float64()*0.5)
		color := b.colors[s.rng.Intn(len(b.colors))]
		s.sparks = append(s.sparks, newSpark(cx, cy, math.Cos(angle)*speed, math.Sin(angle)*speed, life, color))
	}
}

// Update ages all sparks and drops the expired ones.
func (s *Sparks) Update(delta time.Duration) {
	dt := delta.Seconds()
	alive := s.sparks[:0]
	for _, sp := range s.sparks {
		if sp.update(dt) {
			sparkPool.Put(sp)
			continue
		}
		alive = append(alive, sp)
	}
	clear(s.sparks[len(alive):])
	s.sparks = alive
}

// Draw paints live sparks onto free pixels of c, one pixel per board cell.
// Sparks in their last quarter of life are not drawn.
func (s *Sparks) Draw(c *draw.Canvas) {
	for _, sp := range s.sparks {
		if sp.MaxLifetime > 0 && sp.Lifetime/sp.MaxLifetime < 0.25 {
			continue
		}
		x, y := int(math.Floor(sp.X)), int(math.Floor(sp.Y))
		if c.At(x, y) == draw.ColorNone {
			c.Set(x, y, sp.Color)
		}
	}
}

// Len returns the number of live sparks.
func (s *Sparks) Len() int {
	return len(s.sparks)
}

// Reset removes all sparks.
func (s *Sparks) Reset() {
	for _, sp := range s.sparks {
		sparkPool.Put(sp)
	}
	clear(s.sparks)
	s.sparks = s.sparks[:0]
}
