package forest

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput    = errors.New("empty input")
	ErrEmptyRow      = errors.New("empty row")
	ErrRaggedRow     = errors.New("ragged row")
	ErrInvalidHeight = errors.New("invalid height")
	ErrRowTooLong    = errors.New("row too long")
)

// ParseError reports where the loader gave up. Line and Column are 1-based;
// zero means the error is not tied to that position.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// [ParseError] implements [error]
func (e *ParseError) Error() string {
	switch {
	case e.Line == 0:
		return "parse grid: " + e.Err.Error()
	case e.Column == 0:
		return fmt.Sprintf("parse grid: line %d: %s", e.Line, e.Err)
	default:
		return fmt.Sprintf("parse grid: line %d, column %d: %s", e.Line, e.Column, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// BoundsError is the panic value for coordinates outside the grid.
type BoundsError struct {
	Row, Col      int
	Width, Height int
}

// [BoundsError] implements [error]
func (e BoundsError) Error() string {
	return fmt.Sprintf(
		"cell %d:%d out of bounds for %dx%d grid", e.Row, e.Col, e.Width, e.Height,
	)
}
