package layout

import "fmt"

// Layout describes an LED strip folded into vertical columns, pixel 0 at the
// bottom of the first column.
type Layout struct {
	Pixels  int
	Columns int
	// Serpentine columns alternate direction: odd columns run top to bottom.
	Serpentine bool
}

func (l Layout) Validate() error {
	if l.Pixels <= 0 {
		return fmt.Errorf("layout: pixel count must be positive, got %d", l.Pixels)
	}
	if l.Columns <= 0 || l.Columns > l.Pixels {
		return fmt.Errorf("layout: columns must be in [1,%d], got %d", l.Pixels, l.Columns)
	}
	return nil
}

// Rows is the height of the tallest column.
func (l Layout) Rows() int {
	if l.Columns <= 0 {
		return l.Pixels
	}
	return (l.Pixels + l.Columns - 1) / l.Columns
}

// Index maps col,row (row 0 at the bottom) -> linear LED index, or -1 when
// the position is past the end of the strip.
func (l Layout) Index(col, row int) int {
	rows := l.Rows()
	rr := row
	if l.Serpentine && col%2 == 1 {
		rr = rows - 1 - row
	}
	i := col*rows + rr
	if i < 0 || i >= l.Pixels {
		return -1
	}
	return i
}

// Height returns the vertical position of LED i in [0,1], 0 at the bottom.
func (l Layout) Height(i int) float64 {
	rows := l.Rows()
	if rows <= 1 {
		return 0.5
	}
	col, row := i/rows, i%rows
	if l.Serpentine && col%2 == 1 {
		row = rows - 1 - row
	}
	return float64(row) / float64(rows-1)
}

func (l Layout) Count() int {
	return l.Pixels
}
