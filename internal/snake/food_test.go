package snake

import (
	"math/rand"
	"testing"
)

func TestSpawnFoodAvoidsBodyOnCrowdedBoard(t *testing.T) {
	board := Board{Width: 5, Height: 5}
	var body []Point
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if x == 3 && y == 4 {
				continue
			}
			body = append(body, Point{x, y})
		}
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		p, ok := SpawnFood(board, body, rng)
		if !ok {
			t.Fatalf("expected the single free cell")
		}
		if p != (Point{3, 4}) {
			t.Fatalf("got %v, want (3,4)", p)
		}
	}
}

func TestSpawnFoodCoversAllFreeCells(t *testing.T) {
	board := Board{Width: 3, Height: 3}
	body := []Point{{1, 1}}
	rng := rand.New(rand.NewSource(11))

	seen := map[Point]int{}
	for i := 0; i < 2000; i++ {
		p, ok := SpawnFood(board, body, rng)
		if !ok {
			t.Fatal("unexpected full board")
		}
		if p == (Point{1, 1}) {
			t.Fatalf("food on body")
		}
		seen[p]++
	}
	if len(seen) != 8 {
		t.Fatalf("expected all 8 free cells to be sampled, got %d", len(seen))
	}
}

func TestOccupancy(t *testing.T) {
	board := Board{Width: 3, Height: 2}
	occ := NewOccupancy(board, []Point{{0, 0}, {2, 1}, {2, 1}, {5, 5}})
	if occ.Free() != 4 {
		t.Fatalf("free: got %d want 4", occ.Free())
	}
	if !occ.Occupied(Point{2, 1}) || occ.Occupied(Point{1, 1}) {
		t.Fatalf("unexpected occupancy")
	}
	cells := occ.FreeCells(nil)
	want := []Point{{1, 0}, {2, 0}, {0, 1}, {1, 1}}
	if len(cells) != len(want) {
		t.Fatalf("free cells: got %v", cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("free cells[%d]: got %v want %v", i, cells[i], want[i])
		}
	}
}
