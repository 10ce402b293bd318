package session

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/scores"
	"github.com/tomz197/snake/internal/snake"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) has(kind EventKind) bool {
	for _, e := range r.events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func newTestController(t *testing.T, store *scores.Store) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := New(store, Options{
		Player:    "tester",
		Rand:      rand.New(rand.NewSource(1)),
		Now:       func() time.Time { return fixedNow },
		Listeners: []Listener{rec},
	})
	return c, rec
}

func openStore(t *testing.T, contents string) (*scores.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "high_scores.json")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, _ := scores.Open(path, scores.Options{MaxPerDifficulty: 5})
	return s, path
}

// tick runs exactly one step.
func tick(c *Controller) {
	c.Update(c.clock.Interval())
}

func TestStartsInMenuAndPlaysOnConfirm(t *testing.T) {
	c, rec := newTestController(t, nil)
	if c.State() != StateMenu {
		t.Fatalf("initial state: %v", c.State())
	}

	c.Handle(CmdConfirm)

	if c.State() != StatePlaying {
		t.Fatalf("state after confirm: %v", c.State())
	}
	snap := c.Snapshot()
	if len(snap.Body) != 3 {
		t.Fatalf("initial length: %d", len(snap.Body))
	}
	if snap.Body[0] != (snake.Point{X: 15, Y: 15}) {
		t.Fatalf("head not centred: %v", snap.Body[0])
	}
	for _, p := range snap.Body {
		if p == snap.Food {
			t.Fatalf("food spawned on snake")
		}
	}
	if len(rec.events) != 1 || rec.events[0].Kind != EventStateChanged || rec.events[0].To != StatePlaying {
		t.Fatalf("unexpected events: %v", rec.kinds())
	}
}

func TestDifficultyMenuSelectsLevel(t *testing.T) {
	c, _ := newTestController(t, nil)

	c.Handle(CmdDown)    // Difficulty
	c.Handle(CmdConfirm) // open picker
	if c.Snapshot().Menu != MenuDifficulty {
		t.Fatalf("expected difficulty screen")
	}
	c.Handle(CmdDown) // Normal -> Hard
	c.Handle(CmdConfirm)

	if c.State() != StatePlaying {
		t.Fatalf("state: %v", c.State())
	}
	if c.Difficulty() != difficulty.Hard {
		t.Fatalf("difficulty: %v", c.Difficulty())
	}
	if c.Snapshot().Interval != difficulty.Hard.Interval() {
		t.Fatalf("interval: %v", c.Snapshot().Interval)
	}
}

func TestHighScoreScreenCyclesDifficulty(t *testing.T) {
	store, _ := openStore(t, `[{"player_name":"a","score":9,"difficulty":"Hard","timestamp":"2025-01-01T00:00:00Z"}]`)
	c, _ := newTestController(t, store)

	c.Handle(CmdDown)
	c.Handle(CmdDown) // High Scores
	c.Handle(CmdConfirm)
	c.Handle(CmdRight) // Normal -> Hard

	snap := c.Snapshot()
	if snap.Menu != MenuHighScores || snap.ScoresView != difficulty.Hard {
		t.Fatalf("menu=%v view=%v", snap.Menu, snap.ScoresView)
	}
	if len(snap.HighScores) != 1 || snap.HighScores[0].Score != 9 {
		t.Fatalf("high scores: %+v", snap.HighScores)
	}

	c.Handle(CmdBack)
	if c.Snapshot().Menu != MenuMain {
		t.Fatalf("back did not return to main menu")
	}
}

func TestMovesOneStepPerInterval(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.Handle(CmdConfirm)
	c.game = snake.State{
		Board:   c.board,
		Body:    []snake.Point{{X: 5, Y: 5}},
		Heading: snake.Right,
		Food:    snake.Point{X: 20, Y: 20},
	}

	c.Update(c.clock.Interval() / 2)
	if c.game.Head() != (snake.Point{X: 5, Y: 5}) {
		t.Fatalf("stepped before interval elapsed")
	}
	c.Update(c.clock.Interval())
	if c.game.Head() != (snake.Point{X: 6, Y: 5}) {
		t.Fatalf("head: %v", c.game.Head())
	}
	// A huge frame still yields a single step.
	c.Update(10 * time.Second)
	if c.game.Head() != (snake.Point{X: 7, Y: 5}) {
		t.Fatalf("stall caught up: head %v", c.game.Head())
	}
}

func TestReverseInputIgnored(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.Handle(CmdConfirm)
	c.game = snake.State{
		Board:   c.board,
		Body:    []snake.Point{{X: 3, Y: 3}, {X: 2, Y: 3}, {X: 1, Y: 3}},
		Heading: snake.Right,
		Food:    snake.Point{X: 20, Y: 20},
	}

	c.Handle(CmdLeft)
	tick(c)

	if c.game.Heading != snake.Right || c.game.Head() != (snake.Point{X: 4, Y: 3}) {
		t.Fatalf("heading=%v head=%v", c.game.Heading, c.game.Head())
	}
}

func TestQueuedTurnsApplyOnSuccessiveSteps(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.Handle(CmdConfirm)
	c.game = snake.State{
		Board:   c.board,
		Body:    []snake.Point{{X: 5, Y: 5}, {X: 4, Y: 5}},
		Heading: snake.Right,
		Food:    snake.Point{X: 20, Y: 20},
	}

	c.Handle(CmdUp)
	c.Handle(CmdLeft)
	tick(c)
	tick(c)

	if c.game.Head() != (snake.Point{X: 4, Y: 4}) {
		t.Fatalf("head after U-turn: %v", c.game.Head())
	}
	if c.game.Heading != snake.Left {
		t.Fatalf("heading: %v", c.game.Heading)
	}
}

func TestEatingGrowsAndScores(t *testing.T) {
	c, rec := newTestController(t, nil)
	c.Handle(CmdConfirm)
	c.game = snake.State{
		Board:   c.board,
		Body:    []snake.Point{{X: 5, Y: 5}},
		Heading: snake.Right,
		Food:    snake.Point{X: 6, Y: 5},
	}
	before := c.Score()
	interval := c.clock.Interval()

	tick(c)

	if c.game.Len() != 2 {
		t.Fatalf("length: %d", c.game.Len())
	}
	if c.Score() <= before {
		t.Fatalf("score did not increase: %d -> %d", before, c.Score())
	}
	if c.game.Occupies(c.game.Food) {
		t.Fatalf("food respawned on snake")
	}
	if c.clock.Interval() >= interval {
		t.Fatalf("clock did not speed up")
	}
	if !rec.has(EventAte) {
		t.Fatalf("no Ate event: %v", rec.kinds())
	}
}

func TestPauseStopsSimulation(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.Handle(CmdConfirm)
	head := c.game.Head()

	c.Update(c.clock.Interval() - time.Millisecond)
	c.Handle(CmdPause)
	if c.State() != StatePaused {
		t.Fatalf("state: %v", c.State())
	}
	for i := 0; i < 10; i++ {
		c.Update(time.Second)
	}
	if c.game.Head() != head {
		t.Fatalf("moved while paused")
	}

	c.Handle(CmdPause)
	if c.State() != StatePlaying {
		t.Fatalf("did not resume: %v", c.State())
	}
	// Time accumulated before the pause was discarded.
	c.Update(2 * time.Millisecond)
	if c.game.Head() != head {
		t.Fatalf("pending step survived pause")
	}
}

func TestPausedToMenuAbandonsWithoutRecord(t *testing.T) {
	store, _ := openStore(t, "[]")
	c, _ := newTestController(t, store)
	c.Handle(CmdConfirm)
	c.Handle(CmdPause)
	c.Handle(CmdMenu)

	if c.State() != StateMenu {
		t.Fatalf("state: %v", c.State())
	}
	if len(store.Records()) != 0 {
		t.Fatalf("abandoned game was recorded")
	}
}

func TestCollisionRecordsScoreScenario(t *testing.T) {
	store, path := openStore(t, "[]")
	c, rec := newTestController(t, store)
	c.Handle(CmdConfirm)

	c.game = snake.State{
		Board:   c.board,
		Body:    []snake.Point{{X: 0, Y: 3}},
		Heading: snake.Left,
		Food:    snake.Point{X: 9, Y: 9},
	}
	c.steps = 80 // 80 x 1.5 on Normal

	tick(c)

	if c.State() != StateGameOver {
		t.Fatalf("state: %v", c.State())
	}
	snap := c.Snapshot()
	if snap.Outcome != snake.Collision || snap.Score != 120 {
		t.Fatalf("outcome=%v score=%d", snap.Outcome, snap.Score)
	}
	if !snap.NewBest {
		t.Fatalf("first score should be a new best")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var saved []scores.Record
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].Score != 120 || saved[0].Difficulty != difficulty.Normal {
		t.Fatalf("saved: %+v", saved)
	}
	if saved[0].PlayerName != "tester" || !saved[0].Timestamp.Equal(fixedNow) {
		t.Fatalf("saved metadata: %+v", saved[0])
	}

	want := []EventKind{EventStateChanged, EventCollision, EventScoreRecorded, EventStateChanged}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("events: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events: %v want %v", got, want)
		}
	}

	c.Handle(CmdConfirm)
	if c.State() != StateMenu {
		t.Fatalf("game over did not return to menu: %v", c.State())
	}
}

func TestPersistFailureStillReachesMenu(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, _ := scores.Open(filepath.Join(blocker, "high_scores.json"), scores.Options{})

	c, _ := newTestController(t, store)
	c.Handle(CmdConfirm)
	c.game = snake.State{
		Board:   c.board,
		Body:    []snake.Point{{X: 0, Y: 0}},
		Heading: snake.Up,
		Food:    snake.Point{X: 9, Y: 9},
	}
	tick(c)

	if c.State() != StateGameOver {
		t.Fatalf("state: %v", c.State())
	}
	if _, ok := store.Best(difficulty.Normal); !ok {
		t.Fatalf("record missing from memory")
	}
	c.Handle(CmdRestart)
	if c.State() != StateMenu {
		t.Fatalf("state: %v", c.State())
	}
}

func TestWinEndsGame(t *testing.T) {
	c, rec := newTestController(t, nil)
	c.Handle(CmdConfirm)
	c.game = snake.State{
		Board:   snake.Board{Width: 2, Height: 2},
		Body:    []snake.Point{{X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}},
		Heading: snake.Down,
		Food:    snake.Point{X: 1, Y: 1},
	}

	c.Handle(CmdRight)
	tick(c)

	if c.State() != StateGameOver || c.Snapshot().Outcome != snake.Win {
		t.Fatalf("state=%v outcome=%v", c.State(), c.Snapshot().Outcome)
	}
	if !rec.has(EventWin) {
		t.Fatalf("no Win event: %v", rec.kinds())
	}
}

func TestNotNewBestBelowExisting(t *testing.T) {
	store, _ := openStore(t, `[{"player_name":"pro","score":500,"difficulty":"Normal","timestamp":"2025-01-01T00:00:00Z"}]`)
	c, _ := newTestController(t, store)
	c.Handle(CmdConfirm)
	if c.Snapshot().Best != 500 {
		t.Fatalf("best not seeded from store: %d", c.Snapshot().Best)
	}
	c.game = snake.State{
		Board:   c.board,
		Body:    []snake.Point{{X: 0, Y: 0}},
		Heading: snake.Left,
		Food:    snake.Point{X: 9, Y: 9},
	}
	tick(c)

	if c.Snapshot().NewBest {
		t.Fatalf("score 0 reported as new best")
	}
}

func TestQuitFromAnyState(t *testing.T) {
	c, _ := newTestController(t, nil)
	c.Handle(CmdConfirm)
	c.Handle(CmdQuit)
	if !c.Done() {
		t.Fatalf("quit ignored while playing")
	}

	c2, _ := newTestController(t, nil)
	for i := 0; i < 3; i++ {
		c2.Handle(CmdDown)
	}
	c2.Handle(CmdConfirm) // Quit item
	if !c2.Done() {
		t.Fatalf("quit menu item ignored")
	}
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("abcdefghijk", 8); got != "abcdefgh" {
		t.Fatalf("got %q", got)
	}
	if got := truncateName("żółw", 8); got != "żółw" {
		t.Fatalf("got %q", got)
	}
}
