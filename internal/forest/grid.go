package forest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var Log *slog.Logger = slog.Default()

// MaxRowBytes caps a single input line, line ending included.
const MaxRowBytes = 1 << 20

// Grid is a rectangular field of tree heights in [0,9]. It is never mutated
// after Parse returns it.
type Grid struct {
	width, height int
	cells         []uint8
}

func Parse(text string) (*Grid, error) {
	return Read(strings.NewReader(text))
}

func Read(r io.Reader) (*Grid, error) {
	var (
		g    Grid
		line int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxRowBytes)
	for scanner.Scan() {
		line++
		row := strings.TrimSuffix(scanner.Text(), "\r")
		if len(row) == 0 {
			return nil, &ParseError{Line: line, Err: ErrEmptyRow}
		}
		if g.height == 0 {
			g.width = len(row)
		} else if len(row) != g.width {
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("%w: have %d columns, want %d", ErrRaggedRow, len(row), g.width),
			}
		}
		for i := range len(row) {
			c := row[i]
			if c < '0' || c > '9' {
				return nil, &ParseError{
					Line:   line,
					Column: i + 1,
					Err:    fmt.Errorf("%w: %q", ErrInvalidHeight, c),
				}
			}
			g.cells = append(g.cells, c-'0')
		}
		g.height++
	}
	if err := scanner.Err(); errors.Is(err, bufio.ErrTooLong) {
		return nil, &ParseError{
			Line: line + 1,
			Err:  fmt.Errorf("%w: longer than %d bytes", ErrRowTooLong, MaxRowBytes),
		}
	} else if err != nil {
		return nil, fmt.Errorf("unable to read grid: %w", err)
	}
	if g.height == 0 {
		return nil, &ParseError{Err: ErrEmptyInput}
	}
	Log.Debug("parsed grid", slog.Int("width", g.width), slog.Int("height", g.height))
	return &g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// At panics with a BoundsError if row or col is outside the grid.
func (g *Grid) At(row, col int) uint8 {
	g.mustContain(row, col)
	return g.cells[row*g.width+col]
}

func (g *Grid) Contains(row, col int) bool {
	return 0 <= row && row < g.height && 0 <= col && col < g.width
}

func (g *Grid) Interior(row, col int) bool {
	return 0 < row && row < g.height-1 && 0 < col && col < g.width-1
}

// Cells returns a copy of the heights in row-major order.
func (g *Grid) Cells() []uint8 {
	cells := make([]uint8, len(g.cells))
	copy(cells, g.cells)
	return cells
}

func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(len(g.cells) + g.height)
	for i, h := range g.cells {
		b.WriteByte('0' + h)
		if (i+1)%g.width == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Fingerprint is a BLAKE2b-256 digest of the dimensions and heights.
func (g *Grid) Fingerprint() []byte {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%dx%d:", g.width, g.height)
	h.Write(g.cells)
	return h.Sum(nil)
}

func (g *Grid) mustContain(row, col int) {
	if !g.Contains(row, col) {
		panic(BoundsError{Row: row, Col: col, Width: g.width, Height: g.height})
	}
}
