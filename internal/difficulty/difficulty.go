// Package difficulty defines the selectable difficulty levels and the fixed
// table mapping each level to its tick interval and score multiplier.
package difficulty

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Level is a selectable difficulty.
type Level int

const (
	Easy Level = iota
	Normal
	Hard
	Extreme
)

// ErrUnknown is returned when parsing a name that is not a known level.
var ErrUnknown = errors.New("unknown difficulty")

// Settings holds the tuning attached to a level.
type Settings struct {
	Interval   time.Duration // Time between snake steps
	Multiplier float64       // Applied to steps survived when scoring
}

// table is indexed by Level. Harder levels tick faster and score more.
var table = [...]Settings{
	Easy:    {Interval: 200 * time.Millisecond, Multiplier: 1.0},
	Normal:  {Interval: 150 * time.Millisecond, Multiplier: 1.5},
	Hard:    {Interval: 100 * time.Millisecond, Multiplier: 2.0},
	Extreme: {Interval: 70 * time.Millisecond, Multiplier: 3.0},
}

var names = [...]string{
	Easy:    "Easy",
	Normal:  "Normal",
	Hard:    "Hard",
	Extreme: "Extreme",
}

// Legacy names written by older score files.
var aliases = map[string]Level{
	"medium": Normal,
	"expert": Extreme,
}

// All returns every level from easiest to hardest.
func All() []Level {
	return []Level{Easy, Normal, Hard, Extreme}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= Easy && l <= Extreme
}

// Settings returns the interval and multiplier for l. Invalid levels get Normal.
func (l Level) Settings() Settings {
	if !l.Valid() {
		return table[Normal]
	}
	return table[l]
}

// Interval is shorthand for l.Settings().Interval.
func (l Level) Interval() time.Duration {
	return l.Settings().Interval
}

// Multiplier is shorthand for l.Settings().Multiplier.
func (l Level) Multiplier() float64 {
	return l.Settings().Multiplier
}

// Next returns the following level, wrapping from Extreme to Easy.
func (l Level) Next() Level {
	return Level((int(l) + 1) % len(table))
}

// Prev returns the preceding level, wrapping from Easy to Extreme.
func (l Level) Prev() Level {
	return Level((int(l) + len(table) - 1) % len(table))
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return names[l]
}

// Parse converts a case-insensitive level name into a Level.
func Parse(s string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if strings.ToLower(name) == key {
			return Level(i), nil
		}
	}
	if l, ok := aliases[key]; ok {
		return l, nil
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknown, s)
}

// MarshalText encodes the level by name so score files stay readable.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknown, int(l))
	}
	return []byte(names[l]), nil
}

// UnmarshalText decodes a level name, accepting legacy aliases.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
