package snake

import "math/rand"

// SpawnFood picks a cell uniformly at random among those not covered by body.
// It returns false when the board is full.
func SpawnFood(board Board, body []Point, rng *rand.Rand) (Point, bool) {
	occ := NewOccupancy(board, body)
	free := occ.Free()
	if free <= 0 {
		return Point{}, false
	}

	// Rejection sampling is cheap while the board is mostly empty.
	if free*2 >= board.Area() {
		for {
			p := Point{X: rng.Intn(board.Width), Y: rng.Intn(board.Height)}
			if !occ.Occupied(p) {
				return p, true
			}
		}
	}

	cells := occ.FreeCells(make([]Point, 0, free))
	return cells[rng.Intn(len(cells))], true
}
