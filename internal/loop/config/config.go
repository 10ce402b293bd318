// Package config centralizes all tunable game parameters.
package config

import "time"

// Board dimensions in grid cells.
const (
	BoardWidth  = 30
	BoardHeight = 30
)

// Snake
const (
	InitialSnakeLength = 3
	FoodValue          = 10 // Bonus per food eaten, added after the difficulty multiplier
)

// Speed-up applied to the tick interval each time food is eaten.
const (
	SpeedUpFactor   = 0.95
	MinTickInterval = 50 * time.Millisecond
)

// High scores
const (
	MaxScoresPerDifficulty = 5
	MaxPlayerNameLength    = 8
	DefaultScoresFile      = "high_scores.json"
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Notices (e.g. "new record by ...") stay on screen this long.
const NoticeSeconds = 4.0

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Screen layout in terminal cells. A board cell is one column wide and half
// a row tall. The border adds one cell on each side, with one HUD row above
// and one status row below.
const (
	LayoutWidth  = 44
	LayoutHeight = (BoardHeight+1)/2 + 4
)

// Lobby
const (
	LobbyTickTime      = 250 * time.Millisecond // How often the lobby snapshot is rebuilt
	ClientEventsBuffer = 16
)
