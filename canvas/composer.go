// Package canvas turns a laid-out board into text.
package canvas

import (
	"bufio"
	"io"
	"strings"

	"asciibox/diagram"
	"asciibox/layout"
)

// Envelope is the space one grid column or row needs: a gutter before the
// box, the box body and a gutter after it.
type Envelope struct {
	Before, Body, After int
}

// Total returns the full size of the envelope.
func (e Envelope) Total() int {
	return e.Before + e.Body + e.After
}

func (e *Envelope) fit(before, body, after int) {
	e.Before = max(e.Before, before)
	e.Body = max(e.Body, body)
	e.After = max(e.After, after)
}

// Composer renders the boxes of a board row by row.
type Composer struct {
	board  *layout.Board
	expand bool
	cols   []Envelope
	rows   []Envelope
}

// NewComposer sizes every row and column of board's grid. In expand mode
// boxes stretch to the full width of their column.
func NewComposer(board *layout.Board, expand bool) *Composer {
	c := &Composer{board: board, expand: expand}
	grid := board.Grid()
	c.rows = make([]Envelope, len(grid))
	if len(grid) > 0 {
		c.cols = make([]Envelope, len(grid[0]))
	}

	for r, line := range grid {
		for col, index := range line {
			n := board.Node(index)
			if n == nil {
				continue
			}
			c.cols[col].fit(n.Reserve.Left, n.BoxWidth(), n.Reserve.Right)
			c.rows[r].fit(n.Reserve.Up, n.BoxHeight(), n.Reserve.Down)
		}
	}
	return c
}

// Columns returns the envelope of every grid column.
func (c *Composer) Columns() []Envelope {
	return c.cols
}

// Rows returns the envelope of every grid row.
func (c *Composer) Rows() []Envelope {
	return c.rows
}

// cell combines the envelopes at (r, col) into what a box renders into.
func (c *Composer) cell(r, col int) diagram.Cell {
	return diagram.Cell{
		Left:   c.cols[col].Before,
		Width:  c.cols[col].Body,
		Right:  c.cols[col].After,
		Up:     c.rows[r].Before,
		Height: c.rows[r].Body,
		Down:   c.rows[r].After,
	}
}

// line renders sub-line i of grid row r, trailing spaces removed.
func (c *Composer) line(r, i int) string {
	var sb strings.Builder
	env := c.rows[r]
	for col, index := range c.board.Grid()[r] {
		n := c.board.Node(index)
		if n == nil {
			sb.WriteString(strings.Repeat(" ", c.cols[col].Total()))
			continue
		}
		cell := c.cell(r, col)
		switch {
		case i < env.Before:
			sb.WriteString(n.RenderUp(i, cell, c.expand))
		case i < env.Before+env.Body:
			sb.WriteString(n.Render(i-env.Before, cell, c.expand))
		default:
			sb.WriteString(n.RenderDown(i-env.Before-env.Body, cell, c.expand))
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// WriteTo streams the diagram to w, one newline-terminated line at a time.
// An empty row between two drawn rows is written as one blank line; empty
// rows before the first box or after the last produce no output.
func (c *Composer) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	first, last := c.drawnRows()
	for r := first; r <= last; r++ {
		lines := make([]string, 0, c.rows[r].Total())
		for i := 0; i < c.rows[r].Total(); i++ {
			lines = append(lines, c.line(r, i))
		}
		if len(lines) == 0 {
			lines = append(lines, "")
		}
		for _, line := range lines {
			n, err := bw.WriteString(line + "\n")
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
	}
	return written, bw.Flush()
}

// drawnRows returns the first and last grid row holding a box, or an empty
// range when there is none.
func (c *Composer) drawnRows() (first, last int) {
	first, last = len(c.rows), -1
	for r, env := range c.rows {
		if env.Total() == 0 {
			continue
		}
		first = min(first, r)
		last = r
	}
	return first, last
}

// String returns the whole diagram.
func (c *Composer) String() string {
	var sb strings.Builder
	c.WriteTo(&sb)
	return sb.String()
}
