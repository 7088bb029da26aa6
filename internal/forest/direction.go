package forest

import "iter"

type Direction int8

const (
	North Direction = iota
	South
	West
	East
)

// Directions in the order their view distances are multiplied.
var Directions = [...]Direction{North, South, West, East}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case West:
		return "west"
	case East:
		return "east"
	default:
		return "unknown"
	}
}

// Delta returns the unit step for d.
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case West:
		return 0, -1
	case East:
		return 0, 1
	default:
		return 0, 0
	}
}

// Walk yields the heights strictly between row:col and the edge in direction
// d, nearest first.
func (g *Grid) Walk(row, col int, d Direction) iter.Seq[uint8] {
	g.mustContain(row, col)
	dRow, dCol := d.Delta()
	return func(yield func(uint8) bool) {
		if dRow == 0 && dCol == 0 {
			return
		}
		for r, c := row+dRow, col+dCol; g.Contains(r, c); r, c = r+dRow, c+dCol {
			if !yield(g.cells[r*g.width+c]) {
				return
			}
		}
	}
}
