package session

import (
	"time"

	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/scores"
	"github.com/tomz197/snake/internal/snake"
)

// State is the top-level phase of a session.
type State int

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "Menu"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// MenuScreen is the sub-screen shown while in StateMenu.
type MenuScreen int

const (
	MenuMain MenuScreen = iota
	MenuDifficulty
	MenuHighScores
)

// MenuItem is an entry on the main menu.
type MenuItem int

const (
	ItemPlay MenuItem = iota
	ItemDifficulty
	ItemHighScores
	ItemQuit
	menuItemCount
)

func (m MenuItem) String() string {
	switch m {
	case ItemPlay:
		return "Play Game"
	case ItemDifficulty:
		return "Difficulty"
	case ItemHighScores:
		return "High Scores"
	case ItemQuit:
		return "Quit"
	default:
		return ""
	}
}

// MenuItems lists the main menu entries in display order.
func MenuItems() []MenuItem {
	return []MenuItem{ItemPlay, ItemDifficulty, ItemHighScores, ItemQuit}
}

// Command is an abstract input, independent of the device that produced it.
type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdDown
	CmdLeft
	CmdRight
	CmdPause
	CmdConfirm
	CmdRestart
	CmdBack
	CmdMenu
	CmdQuit
)

func (c Command) String() string {
	switch c {
	case CmdUp:
		return "Up"
	case CmdDown:
		return "Down"
	case CmdLeft:
		return "Left"
	case CmdRight:
		return "Right"
	case CmdPause:
		return "Pause"
	case CmdConfirm:
		return "Confirm"
	case CmdRestart:
		return "Restart"
	case CmdBack:
		return "Back"
	case CmdMenu:
		return "Menu"
	case CmdQuit:
		return "Quit"
	default:
		return "None"
	}
}

// direction maps a movement command to a snake heading.
func (c Command) direction() snake.Direction {
	switch c {
	case CmdUp:
		return snake.Up
	case CmdDown:
		return snake.Down
	case CmdLeft:
		return snake.Left
	case CmdRight:
		return snake.Right
	default:
		return snake.None
	}
}

// EventKind identifies a notification emitted to listeners.
type EventKind int

const (
	EventStateChanged  EventKind = iota // From -> To
	EventAte                            // Food eaten at At
	EventCollision                      // Crash; At is the head before the crash
	EventWin                            // Snake filled the board
	EventScoreRecorded                  // Record was stored; NewBest set if it tops the difficulty
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "StateChanged"
	case EventAte:
		return "Ate"
	case EventCollision:
		return "Collision"
	case EventWin:
		return "Win"
	case EventScoreRecorded:
		return "ScoreRecorded"
	default:
		return "Unknown"
	}
}

// Event is a fire-and-forget notification for the presentation layer.
type Event struct {
	Kind    EventKind
	From    State
	To      State
	At      snake.Point
	Score   int
	Record  scores.Record
	NewBest bool
}

// Listener receives events synchronously on the game thread and must not block.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Snapshot is a self-contained copy of everything needed to draw one frame.
type Snapshot struct {
	State      State
	Menu       MenuScreen
	MenuItem   MenuItem
	Difficulty difficulty.Level
	ScoresView difficulty.Level // Difficulty shown on the high score screen
	Player     string

	Board   snake.Board
	Body    []snake.Point
	Heading snake.Direction
	Food    snake.Point

	Score    int
	Best     int
	Steps    int
	Eaten    int
	Interval time.Duration

	Outcome    snake.Outcome // Collision or Win once in StateGameOver
	NewBest    bool          // Final score topped the difficulty's table
	HighScores []scores.Record
}
