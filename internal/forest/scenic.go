package forest

import "context"

// ViewDistance counts the trees seen from row:col looking in direction d. The
// first tree at least as tall as the viewer is counted and ends the view.
func (g *Grid) ViewDistance(row, col int, d Direction) int {
	h := g.At(row, col)
	n := 0
	for other := range g.Walk(row, col, d) {
		n++
		if other >= h {
			break
		}
	}
	return n
}

// ScenicScore multiplies the four view distances. Border cells score 0.
func (g *Grid) ScenicScore(row, col int) int {
	score := 1
	for _, d := range Directions {
		score *= g.ViewDistance(row, col, d)
		if score == 0 {
			return 0
		}
	}
	return score
}

// MaxScenicScore answers part 2. It returns the best score over interior
// cells with the first cell (row-major) reaching it, or 0, -1, -1 when the
// grid has no interior.
func (g *Grid) MaxScenicScore() (score, row, col int) {
	score, row, col, _ = g.bestView(context.Background())
	return score, row, col
}

func (g *Grid) bestView(ctx context.Context) (score, row, col int, err error) {
	score, row, col = 0, -1, -1
	for r := 1; r < g.height-1; r++ {
		if err := ctx.Err(); err != nil {
			return 0, -1, -1, err
		}
		for c := 1; c < g.width-1; c++ {
			if s := g.ScenicScore(r, c); row < 0 || s > score {
				score, row, col = s, r, c
			}
		}
	}
	return score, row, col, nil
}
