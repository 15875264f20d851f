package diagram

import (
	"asciibox/core"
)

// Cell is the space the composer hands a box at one grid position: the
// column envelope (gutters and body width) and the row envelope (gutters and
// body height). Every line a box renders is exactly TotalWidth cells wide.
type Cell struct {
	Left, Width, Right int
	Up, Height, Down   int
}

// TotalWidth returns the width of the cell including both gutters.
func (c Cell) TotalWidth() int {
	return c.Left + c.Width + c.Right
}

// TotalHeight returns the height of the cell including both gutters.
func (c Cell) TotalHeight() int {
	return c.Up + c.Height + c.Down
}

// frame splits the cell width into the region left of the box, the box
// itself and the region right of it. Outside expand mode the box keeps its
// natural width and the spare space is split with a left bias.
func (n *Node) frame(c Cell, expand bool) (left, box, right int) {
	if expand {
		return c.Left, max(c.Width, n.BoxWidth()), c.Right
	}
	box = n.BoxWidth()
	spare := max(c.Width-box, 0)
	lb := (spare + 1) / 2
	return c.Left + lb, box, c.Right + spare - lb
}

// MiddleRow is the body row that carries horizontal connector glyphs.
func (n *Node) MiddleRow() int {
	return (n.Height + 1) / 2
}

// Render returns body row i of the box. Row 0 is the top border and row
// Height+1 the bottom border; rows past the box are padding.
func (n *Node) Render(i int, c Cell, expand bool) string {
	left, box, right := n.frame(c, expand)
	top, bottom := n.Shape.Corners()

	switch {
	case i == 0 || i == n.Height+1:
		corner := top
		if i != 0 {
			corner = bottom
		}
		return n.leftPad(i, left) + corner + core.Run("-", box-2) + corner + core.Pad(right)
	case i > n.Height+1:
		return n.descenders(left, box, right, false)
	}

	line := ""
	if i-1 < len(n.Lines) {
		line = n.Lines[i-1]
	}
	budget := box - 2 - core.StringWidth(line)
	lbank := (budget + 1) / 2
	body := "|" + core.Pad(lbank) + line + core.Pad(budget-lbank) + "|"

	if i != n.MiddleRow() {
		return n.leftPad(i, left) + body + core.Pad(right)
	}
	return n.leftGlyph(left) + body + n.rightGlyph(right)
}

// RenderUp returns row i of the gutter above the box. The box's own
// reservation sits at the bottom of the row's up envelope.
func (n *Node) RenderUp(i int, c Cell, expand bool) string {
	left, box, right := n.frame(c, expand)
	j := i - (c.Up - n.Reserve.Up)
	if _, ok := n.arrow(Up); !ok || j < 0 {
		return core.Pad(left + box + right)
	}
	glyph := byte('|')
	if j == 0 {
		glyph = '^'
	}
	return markLine(left+box+right, mark{left + box/2, glyph})
}

// RenderDown returns row i of the gutter below the box.
func (n *Node) RenderDown(i int, c Cell, expand bool) string {
	left, box, right := n.frame(c, expand)
	if i >= n.Reserve.Down {
		return core.Pad(left + box + right)
	}
	return n.descenders(left, box, right, i == n.Reserve.Down-1)
}

// descenders draws the vertical strokes of Down and LeftDown connectors,
// ending in an arrow head when tip is set.
func (n *Node) descenders(left, box, right int, tip bool) string {
	glyph := byte('|')
	if tip {
		glyph = 'v'
	}
	var marks []mark
	if _, ok := n.arrow(Down); ok {
		marks = append(marks, mark{left + box/2, glyph})
	}
	if _, ok := n.arrow(LeftDown); ok && left > 0 {
		marks = append(marks, mark{0, glyph})
	}
	return markLine(left+box+right, marks...)
}

// leftPad is the space left of the box on body row i. Below the middle row a
// LeftDown connector keeps its stroke in the first column.
func (n *Node) leftPad(i, width int) string {
	if _, ok := n.arrow(LeftDown); ok && width > 0 && i > n.MiddleRow() {
		return markLine(width, mark{0, '|'})
	}
	return core.Pad(width)
}

func (n *Node) leftGlyph(width int) string {
	a, ok := n.arrow(Left, LeftDown)
	if !ok || width <= 0 {
		return core.Pad(width)
	}
	if a.Direction == LeftDown {
		return "." + core.Run("-", width-1)
	}
	return arrowRun(a.Edge.Direction, width)
}

func (n *Node) rightGlyph(width int) string {
	a, ok := n.arrow(Right, Double)
	if !ok || width <= 0 {
		return core.Pad(width)
	}
	return arrowRun(a.Edge.Direction, width)
}

// arrowRun draws a horizontal connector of the given width, heads placed
// according to the edge direction.
func arrowRun(d Direction, width int) string {
	switch {
	case width <= 0:
		return ""
	case d == Double && width >= 2:
		return "<" + core.Run("-", width-2) + ">"
	case d == Left:
		return "<" + core.Run("-", width-1)
	case d == Right:
		return core.Run("-", width-1) + ">"
	}
	return core.Run("-", width)
}

type mark struct {
	at    int
	glyph byte
}

func markLine(width int, marks ...mark) string {
	b := []byte(core.Pad(width))
	for _, m := range marks {
		if m.at >= 0 && m.at < width {
			b[m.at] = m.glyph
		}
	}
	return string(b)
}
