package forest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

type Survey struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	Visible int `json:"visible"`

	// ScenicScore is a product of four view distances and outgrows 32 bits
	// on grids of a few hundred cells per side.
	ScenicScore int64 `json:"scenic_score"`
	BestRow     int   `json:"best_row"`
	BestCol     int   `json:"best_col"`
}

// Analyze runs the visibility and scenic passes over g concurrently. The grid
// is read-only, so the passes share it without locking.
func Analyze(ctx context.Context, g *Grid) (Survey, error) {
	start := time.Now()
	s := Survey{Width: g.width, Height: g.height}

	var (
		visible         int
		score, row, col int
		grp, gCtx       = errgroup.WithContext(ctx)
	)
	grp.Go(func() (err error) {
		visible, err = g.countVisible(gCtx)
		return err
	})
	grp.Go(func() (err error) {
		score, row, col, err = g.bestView(gCtx)
		return err
	})
	if err := grp.Wait(); err != nil {
		return Survey{}, err
	}

	s.Visible = visible
	s.ScenicScore, s.BestRow, s.BestCol = int64(score), row, col

	Log.Debug(
		"surveyed grid",
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Int("visible", s.Visible),
		slog.Int64("scenicScore", s.ScenicScore),
		slog.Duration("took", time.Since(start)),
	)
	return s, nil
}
