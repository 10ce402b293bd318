// Package snake implements the board simulation: one discrete movement step
// per tick, growth on food, and wall/self collision.
package snake

import "math/rand"

// Outcome is the result of a single Advance.
type Outcome int

const (
	Moved     Outcome = iota // Body shifted by one cell
	Ate                      // Head reached the food; body grew by one
	Collision                // Head left the board or hit the body (terminal)
	Win                      // Body fills the board (terminal)
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "Moved"
	case Ate:
		return "Ate"
	case Collision:
		return "Collision"
	case Win:
		return "Win"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the outcome ends the game.
func (o Outcome) Terminal() bool {
	return o == Collision || o == Win
}

// State is an immutable-by-convention snapshot of the board. Body is head-first.
type State struct {
	Board   Board
	Body    []Point
	Heading Direction
	Food    Point
}

// Head returns the first body segment.
func (s State) Head() Point {
	return s.Body[0]
}

// Len returns the body length.
func (s State) Len() int {
	return len(s.Body)
}

// Occupies reports whether any body segment is at p.
func (s State) Occupies(p Point) bool {
	for _, b := range s.Body {
		if b == p {
			return true
		}
	}
	return false
}

// Clone returns a copy whose Body does not alias s.Body.
func (s State) Clone() State {
	c := s
	c.Body = append([]Point(nil), s.Body...)
	return c
}

// NewState lays out a snake of the given length at the board centre,
// heading Right with the tail trailing to the left. Length is clamped to
// what fits between the centre and the left wall.
func NewState(board Board, length int, food Point) State {
	center := board.Center()
	if length < 1 {
		length = 1
	}
	if length > center.X+1 {
		length = center.X + 1
	}

	body := make([]Point, 0, length)
	for i := 0; i < length; i++ {
		body = append(body, Point{X: center.X - i, Y: center.Y})
	}
	return State{
		Board:   board,
		Body:    body,
		Heading: Right,
		Food:    food,
	}
}

// Start is NewState with food placed on a random free cell. It returns
// false if no food cell is available.
func Start(board Board, length int, rng *rand.Rand) (State, bool) {
	s := NewState(board, length, Point{})
	food, ok := SpawnFood(board, s.Body, rng)
	s.Food = food
	return s, ok
}

// Advance applies one movement step and returns the new state with its
// outcome. The input state is not modified.
//
// want replaces the heading unless it is None or the reverse of the current
// heading. On Ate the returned Food is stale; the caller respawns it with
// SpawnFood. On Collision the returned state equals the input state.
func Advance(s State, want Direction) (State, Outcome) {
	heading := s.Heading
	if want.Valid() && want != heading.Opposite() {
		heading = want
	}

	head := s.Head().Add(heading.Vector())
	if !s.Board.Contains(head) {
		return s, Collision
	}

	grow := head == s.Food

	// The tail cell is vacated this tick unless the snake grows.
	blocking := s.Body
	if !grow {
		blocking = s.Body[:len(s.Body)-1]
	}
	for _, p := range blocking {
		if p == head {
			return s, Collision
		}
	}

	body := make([]Point, 0, len(s.Body)+1)
	body = append(body, head)
	if grow {
		body = append(body, s.Body...)
	} else {
		body = append(body, s.Body[:len(s.Body)-1]...)
	}

	next := State{
		Board:   s.Board,
		Body:    body,
		Heading: heading,
		Food:    s.Food,
	}

	switch {
	case grow && len(body) >= s.Board.Area():
		return next, Win
	case grow:
		return next, Ate
	default:
		return next, Moved
	}
}
