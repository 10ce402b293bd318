package snake

// Board is the playing field. Valid cells are [0, Width) x [0, Height).
type Board struct {
	Width  int
	Height int
}

// Contains reports whether p lies inside the board.
func (b Board) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Area returns the number of cells on the board.
func (b Board) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Center returns the middle cell (rounded down).
func (b Board) Center() Point {
	return Point{X: b.Width / 2, Y: b.Height / 2}
}

// Occupancy is a flat per-cell bitmap over a Board, indexed as y*Width+x.
// It is rebuilt from a body slice when a cell lookup would otherwise scan.
type Occupancy struct {
	board Board
	cells []bool
	count int
}

// NewOccupancy marks every in-bounds point of body as occupied.
func NewOccupancy(board Board, body []Point) *Occupancy {
	o := &Occupancy{
		board: board,
		cells: make([]bool, board.Area()),
	}
	for _, p := range body {
		o.Mark(p)
	}
	return o
}

// Mark flags p as occupied. Out-of-bounds points are ignored.
func (o *Occupancy) Mark(p Point) {
	if !o.board.Contains(p) {
		return
	}
	idx := p.Y*o.board.Width + p.X
	if !o.cells[idx] {
		o.cells[idx] = true
		o.count++
	}
}

// Occupied reports whether p is flagged.
func (o *Occupancy) Occupied(p Point) bool {
	if !o.board.Contains(p) {
		return false
	}
	return o.cells[p.Y*o.board.Width+p.X]
}

// Free returns the number of unflagged cells.
func (o *Occupancy) Free() int {
	return len(o.cells) - o.count
}

// FreeCells appends every unflagged cell, in row-major order, to dst.
func (o *Occupancy) FreeCells(dst []Point) []Point {
	for idx, taken := range o.cells {
		if taken {
			continue
		}
		dst = append(dst, Point{X: idx % o.board.Width, Y: idx / o.board.Width})
	}
	return dst
}
