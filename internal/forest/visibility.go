package forest

import "context"

// IsVisible reports whether the tree at row:col can be seen from outside the
// grid along at least one direction. A tree of equal height blocks the view.
func (g *Grid) IsVisible(row, col int) bool {
	h := g.At(row, col)
	for _, d := range Directions {
		if g.clearTo(row, col, d, h) {
			return true
		}
	}
	return false
}

func (g *Grid) clearTo(row, col int, d Direction, h uint8) bool {
	for other := range g.Walk(row, col, d) {
		if other >= h {
			return false
		}
	}
	return true
}

// PerimeterCount is the number of cells on the border. Grids with a side of
// at most 2 have no interior, so every cell counts.
func (g *Grid) PerimeterCount() int {
	if g.width <= 2 || g.height <= 2 {
		return g.width * g.height
	}
	return 2*g.width + 2*(g.height-2)
}

// VisibleCount answers part 1: visible interior trees plus the whole perimeter.
func (g *Grid) VisibleCount() int {
	count, _ := g.countVisible(context.Background())
	return count
}

func (g *Grid) countVisible(ctx context.Context) (int, error) {
	count := g.PerimeterCount()
	for row := 1; row < g.height-1; row++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for col := 1; col < g.width-1; col++ {
			if g.IsVisible(row, col) {
				count++
			}
		}
	}
	return count, nil
}
