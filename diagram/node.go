package diagram

import (
	"fmt"
	"strings"

	"asciibox/core"
)

// Glyph budgets for connectors drawn in a box's gutters.
const (
	singleArrowWidth  = 3
	doubleArrowWidth  = 4
	verticalArrowRows = 2
)

// Attachment is an edge hooked onto a box, with the direction it has from
// the box's point of view.
type Attachment struct {
	Edge      Edge      `json:"edge" yaml:"edge"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Node is a labeled box placed on the board.
type Node struct {
	ID     string   `json:"id" yaml:"id"`
	Label  string   `json:"label" yaml:"label"`
	Lines  []string `json:"-" yaml:"-"`
	Width  int      `json:"width" yaml:"width"`   // widest label line in cells
	Height int      `json:"height" yaml:"height"` // number of label lines
	Shape  Shape    `json:"shape" yaml:"shape"`
	Row    int      `json:"row" yaml:"row"`
	Col    int      `json:"col" yaml:"col"`
	Index  int      `json:"index" yaml:"index"` // set by the board, 0 means unplaced

	Arrows  []Attachment `json:"arrows,omitempty" yaml:"arrows,omitempty"`
	Hidden  []Attachment `json:"-" yaml:"-"`
	Reserve Reserve      `json:"reserve" yaml:"reserve"`
}

// NewNode creates a box. The id falls back to the label when empty.
func NewNode(id, label string, shape Shape, row, col int) *Node {
	id = strings.TrimSpace(id)
	label = strings.TrimSpace(label)
	if id == "" {
		id = label
	}
	n := &Node{
		ID:    id,
		Label: label,
		Shape: shape,
		Row:   row,
		Col:   col,
	}
	n.setLines(core.SplitLabel(label))
	return n
}

func (n *Node) setLines(lines []string) {
	n.Lines = lines
	n.Height = len(lines)
	n.Width = core.MaxWidth(lines)
}

// Wrap re-flows every label line to at most width cells.
func (n *Node) Wrap(width int) {
	if width <= 0 {
		return
	}
	n.setLines(core.WrapLines(core.SplitLabel(n.Label), width))
}

// ContentWidth is the inner width of the box: the label plus one space of
// padding on each side.
func (n *Node) ContentWidth() int {
	return n.Width + 2
}

// BoxWidth is the full width of the box including both side borders.
func (n *Node) BoxWidth() int {
	return n.ContentWidth() + 2
}

// BoxHeight is the full height of the box including top and bottom borders.
func (n *Node) BoxHeight() int {
	return n.Height + 2
}

// TotalWidth is the box width plus the reserved horizontal gutters.
func (n *Node) TotalWidth() int {
	return n.Reserve.Left + n.BoxWidth() + n.Reserve.Right
}

// TotalHeight is the box height plus the reserved vertical gutters.
func (n *Node) TotalHeight() int {
	return n.Reserve.Up + n.BoxHeight() + n.Reserve.Down
}

// AddArrow hooks an edge onto the box. dir is the edge's direction from the
// box's point of view. Edges that are not rendered are remembered but never
// change the box's reserved space.
func (n *Node) AddArrow(e Edge, dir Direction, render bool) {
	a := Attachment{Edge: e, Direction: dir}
	if !render {
		n.Hidden = append(n.Hidden, a)
		return
	}
	n.Arrows = append(n.Arrows, a)

	horizontal := singleArrowWidth
	if e.Direction == Double {
		horizontal = doubleArrowWidth
	}
	switch dir {
	case Left:
		n.Reserve.Left = max(n.Reserve.Left, horizontal)
	case Right:
		n.Reserve.Right = max(n.Reserve.Right, horizontal)
	case Double:
		n.Reserve.Right = max(n.Reserve.Right, doubleArrowWidth)
	case Up:
		n.Reserve.Up = max(n.Reserve.Up, verticalArrowRows)
	case Down:
		n.Reserve.Down = max(n.Reserve.Down, verticalArrowRows)
	case LeftDown:
		n.Reserve.Left = max(n.Reserve.Left, singleArrowWidth)
		n.Reserve.Down = max(n.Reserve.Down, verticalArrowRows)
	}
}

// arrow returns the first rendered attachment matching one of dirs.
func (n *Node) arrow(dirs ...Direction) (Attachment, bool) {
	for _, a := range n.Arrows {
		for _, d := range dirs {
			if a.Direction == d {
				return a, true
			}
		}
	}
	return Attachment{}, false
}

// String returns a short description of the node.
func (n *Node) String() string {
	return fmt.Sprintf("Node(%s @%d,%d)", n.ID, n.Row, n.Col)
}
