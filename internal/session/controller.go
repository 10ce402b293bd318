// Package session drives one player's game: menu navigation, the
// Playing/Paused/GameOver state machine, clock-gated snake steps and
// high-score recording. A Controller is owned by a single goroutine.
package session

import (
	"io"
	"math"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/tomz197/snake/internal/clock"
	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/scores"
	"github.com/tomz197/snake/internal/snake"
)

// maxQueuedTurns bounds direction presses buffered between two steps.
const maxQueuedTurns = 2

// Options configures a Controller. Zero values take the defaults from
// internal/loop/config.
type Options struct {
	Board         snake.Board
	InitialLength int
	Difficulty    difficulty.Level
	Player        string
	HighScoreRows int // Rows shown on the high score screen

	Rand      *rand.Rand
	Now       func() time.Time
	Logger    *log.Logger
	Listeners []Listener
}

// Controller is the session state machine.
type Controller struct {
	store     *scores.Store
	log       *log.Logger
	rng       *rand.Rand
	now       func() time.Time
	listeners []Listener

	board         snake.Board
	initialLength int
	player        string
	rows          int

	state      State
	menu       MenuScreen
	menuItem   MenuItem
	level      difficulty.Level
	scoresView difficulty.Level
	done       bool

	game    snake.State
	turns   []snake.Direction
	clock   *clock.Clock
	steps   int
	eaten   int
	best    int
	outcome snake.Outcome
	newBest bool
}

// New creates a controller in the Menu state. store may be nil, in which
// case scores are neither shown nor saved.
func New(store *scores.Store, opts Options) *Controller {
	if opts.Board.Width <= 0 || opts.Board.Height <= 0 {
		opts.Board = snake.Board{Width: config.BoardWidth, Height: config.BoardHeight}
	}
	if opts.InitialLength <= 0 {
		opts.InitialLength = config.InitialSnakeLength
	}
	if opts.HighScoreRows <= 0 {
		opts.HighScoreRows = config.MaxScoresPerDifficulty
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if !opts.Difficulty.Valid() {
		opts.Difficulty = difficulty.Normal
	}

	return &Controller{
		store:         store,
		log:           opts.Logger,
		rng:           opts.Rand,
		now:           opts.Now,
		listeners:     opts.Listeners,
		board:         opts.Board,
		initialLength: opts.InitialLength,
		player:        truncateName(opts.Player, config.MaxPlayerNameLength),
		rows:          opts.HighScoreRows,
		state:         StateMenu,
		level:         opts.Difficulty,
		scoresView:    opts.Difficulty,
		clock:         clock.New(opts.Difficulty),
		turns:         make([]snake.Direction, 0, maxQueuedTurns),
	}
}

// State returns the current top-level state.
func (c *Controller) State() State {
	return c.state
}

// Difficulty returns the selected difficulty.
func (c *Controller) Difficulty() difficulty.Level {
	return c.level
}

// Done reports whether the player chose to quit.
func (c *Controller) Done() bool {
	return c.done
}

// Score returns the running score: steps survived times the difficulty
// multiplier, plus a fixed bonus per food eaten.
func (c *Controller) Score() int {
	return computeScore(c.steps, c.eaten, c.level)
}

func computeScore(steps, eaten int, level difficulty.Level) int {
	return int(math.Round(float64(steps)*level.Multiplier())) + eaten*config.FoodValue
}

// Handle applies one input command.
func (c *Controller) Handle(cmd Command) {
	if cmd == CmdQuit {
		c.done = true
		return
	}

	switch c.state {
	case StateMenu:
		c.handleMenu(cmd)
	case StatePlaying:
		c.handlePlaying(cmd)
	case StatePaused:
		c.handlePaused(cmd)
	case StateGameOver:
		c.handleGameOver(cmd)
	}
}

func (c *Controller) handleMenu(cmd Command) {
	switch c.menu {
	case MenuMain:
		switch cmd {
		case CmdUp:
			c.menuItem = (c.menuItem + menuItemCount - 1) % menuItemCount
		case CmdDown:
			c.menuItem = (c.menuItem + 1) % menuItemCount
		case CmdLeft:
			c.level = c.level.Prev()
		case CmdRight:
			c.level = c.level.Next()
		case CmdConfirm:
			switch c.menuItem {
			case ItemPlay:
				c.startGame()
			case ItemDifficulty:
				c.menu = MenuDifficulty
			case ItemHighScores:
				c.scoresView = c.level
				c.menu = MenuHighScores
			case ItemQuit:
				c.done = true
			}
		}

	case MenuDifficulty:
		switch cmd {
		case CmdUp, CmdLeft:
			c.level = c.level.Prev()
		case CmdDown, CmdRight:
			c.level = c.level.Next()
		case CmdConfirm:
			c.startGame()
		case CmdBack, CmdMenu:
			c.menu = MenuMain
		}

	case MenuHighScores:
		switch cmd {
		case CmdUp, CmdLeft:
			c.scoresView = c.scoresView.Prev()
		case CmdDown, CmdRight:
			c.scoresView = c.scoresView.Next()
		case CmdConfirm, CmdBack, CmdMenu:
			c.menu = MenuMain
		}
	}
}

func (c *Controller) handlePlaying(cmd Command) {
	switch cmd {
	case CmdUp, CmdDown, CmdLeft, CmdRight:
		c.queueTurn(cmd.direction())
	case CmdPause, CmdBack:
		c.clock.Reset()
		c.turns = c.turns[:0]
		c.setState(StatePaused)
	case CmdRestart:
		c.startGame()
	}
}

func (c *Controller) handlePaused(cmd Command) {
	switch cmd {
	case CmdPause, CmdConfirm, CmdBack:
		c.clock.Reset()
		c.setState(StatePlaying)
	case CmdRestart:
		c.startGame()
	case CmdMenu:
		c.toMenu()
	}
}

func (c *Controller) handleGameOver(cmd Command) {
	switch cmd {
	case CmdConfirm, CmdRestart, CmdBack, CmdMenu:
		c.toMenu()
	}
}

// queueTurn buffers a heading change for an upcoming step. Presses that
// repeat or reverse the last queued heading are dropped here; Advance
// still rejects reversals against the live heading.
func (c *Controller) queueTurn(d snake.Direction) {
	last := c.game.Heading
	if n := len(c.turns); n > 0 {
		last = c.turns[n-1]
	}
	if d == last || d == last.Opposite() {
		return
	}
	if len(c.turns) >= maxQueuedTurns {
		c.turns[len(c.turns)-1] = d
		return
	}
	c.turns = append(c.turns, d)
}

func (c *Controller) nextTurn() snake.Direction {
	if len(c.turns) == 0 {
		return snake.None
	}
	d := c.turns[0]
	c.turns = append(c.turns[:0], c.turns[1:]...)
	return d
}

// Update advances the game by one frame of wall time. At most one snake
// step is applied per call, and only while Playing.
func (c *Controller) Update(delta time.Duration) {
	if c.state != StatePlaying {
		return
	}
	if !c.clock.Advance(delta) {
		return
	}
	c.step()
}

func (c *Controller) step() {
	next, out := snake.Advance(c.game, c.nextTurn())

	switch out {
	case snake.Moved:
		c.game = next
		c.steps++

	case snake.Ate:
		c.game = next
		c.steps++
		c.eaten++
		food, ok := snake.SpawnFood(c.game.Board, c.game.Body, c.rng)
		if !ok {
			// Advance reports Win for a full board, so this is unreachable.
			c.finish(snake.Win)
			return
		}
		c.game.Food = food
		c.clock.SpeedUp(config.SpeedUpFactor, config.MinTickInterval)
		c.emit(Event{Kind: EventAte, At: c.game.Head(), Score: c.Score()})

	case snake.Win:
		c.game = next
		c.steps++
		c.eaten++
		c.emit(Event{Kind: EventWin, At: c.game.Head(), Score: c.Score()})
		c.finish(snake.Win)

	case snake.Collision:
		c.emit(Event{Kind: EventCollision, At: c.game.Head(), Score: c.Score()})
		c.finish(snake.Collision)
	}
}

// finish records the final score and moves to GameOver. A failed save is
// logged and otherwise ignored.
func (c *Controller) finish(out snake.Outcome) {
	c.outcome = out
	score := c.Score()

	prevBest, hadBest := c.bestRecord()
	c.newBest = !hadBest || score > prevBest.Score
	if score > c.best {
		c.best = score
	}

	rec := scores.Record{
		PlayerName: c.player,
		Score:      score,
		Difficulty: c.level,
		Timestamp:  c.now(),
	}
	if c.store != nil {
		c.store.Record(rec)
		if err := c.store.Persist(); err != nil {
			c.log.Warn("could not save high scores", "path", c.store.Path(), "err", err)
		}
	}
	c.log.Info("game over", "player", c.player, "difficulty", c.level, "outcome", out, "score", score,
		"length", c.game.Len(), "steps", c.steps)

	c.emit(Event{Kind: EventScoreRecorded, Score: score, Record: rec, NewBest: c.newBest})
	c.setState(StateGameOver)
}

func (c *Controller) bestRecord() (scores.Record, bool) {
	if c.store == nil {
		return scores.Record{}, false
	}
	return c.store.Best(c.level)
}

// startGame resets the board for the selected difficulty and starts playing.
func (c *Controller) startGame() {
	game, ok := snake.Start(c.board, c.initialLength, c.rng)
	if !ok {
		c.log.Error("board too small to start a game", "width", c.board.Width, "height", c.board.Height)
		return
	}

	c.game = game
	c.turns = c.turns[:0]
	c.clock = clock.New(c.level)
	c.steps = 0
	c.eaten = 0
	c.outcome = snake.Moved
	c.newBest = false
	c.best = 0
	if rec, ok := c.bestRecord(); ok {
		c.best = rec.Score
	}
	c.menu = MenuMain
	c.setState(StatePlaying)
}

func (c *Controller) toMenu() {
	c.menu = MenuMain
	c.menuItem = ItemPlay
	c.turns = c.turns[:0]
	c.setState(StateMenu)
}

func (c *Controller) setState(to State) {
	from := c.state
	c.state = to
	if from != to {
		c.emit(Event{Kind: EventStateChanged, From: from, To: to})
	}
}

func (c *Controller) emit(e Event) {
	for _, l := range c.listeners {
		l.OnEvent(e)
	}
}

// Snapshot copies the state needed to render the current frame.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:      c.state,
		Menu:       c.menu,
		MenuItem:   c.menuItem,
		Difficulty: c.level,
		ScoresView: c.scoresView,
		Player:     c.player,
		Board:      c.board,
		Heading:    c.game.Heading,
		Food:       c.game.Food,
		Score:      c.Score(),
		Best:       c.best,
		Steps:      c.steps,
		Eaten:      c.eaten,
		Interval:   c.clock.Interval(),
		Outcome:    c.outcome,
		NewBest:    c.newBest,
	}
	if c.game.Len() > 0 {
		snap.Body = append([]snake.Point(nil), c.game.Body...)
	}
	if snap.Score > snap.Best {
		snap.Best = snap.Score
	}

	if c.store != nil {
		view := c.level
		if c.state == StateMenu && c.menu == MenuHighScores {
			view = c.scoresView
		}
		snap.HighScores = c.store.Top(view, c.rows)
	}
	return snap
}

// truncateName limits name to max runes.
func truncateName(name string, max int) string {
	if max <= 0 || utf8.RuneCountInString(name) <= max {
		return name
	}
	runes := []rune(name)
	return string(runes[:max])
}
