// Package diagram contains the box and connector model used throughout the
// asciibox renderer.
package diagram

import (
	"fmt"
	"strings"
)

// Shape is the border style of a box.
type Shape int

const (
	Round Shape = iota
	Square
	Circle
)

// String returns the string representation of a Shape.
func (s Shape) String() string {
	switch s {
	case Round:
		return "round"
	case Square:
		return "square"
	case Circle:
		return "circle"
	default:
		return "unknown"
	}
}

// Corners returns the corner glyphs for the top and bottom border.
func (s Shape) Corners() (top, bottom string) {
	if s == Square {
		return "+", "+"
	}
	return ".", "'"
}

// Brackets returns the opening and closing bracket that declare the shape.
func (s Shape) Brackets() (open, close string) {
	switch s {
	case Square:
		return "[", "]"
	case Circle:
		return "{", "}"
	default:
		return "(", ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "round", "":
		*s = Round
	case "square":
		*s = Square
	case "circle":
		*s = Circle
	default:
		return fmt.Errorf("unknown shape: %s", text)
	}
	return nil
}

// Direction is the orientation of a connector.
type Direction int

const (
	None Direction = iota
	Double
	Left
	Right
	Up
	Down
	LeftUp
	LeftDown
	RightUp
	RightDown
)

var directionNames = [...]string{
	None:      "none",
	Double:    "double",
	Left:      "left",
	Right:     "right",
	Up:        "up",
	Down:      "down",
	LeftUp:    "leftup",
	LeftDown:  "leftdown",
	RightUp:   "rightup",
	RightDown: "rightdown",
}

// String returns the string representation of a Direction.
func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// Invert returns the direction seen from the other end of the connector.
func (d Direction) Invert() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	case Down:
		return Up
	case LeftUp:
		return RightDown
	case RightDown:
		return LeftUp
	case LeftDown:
		return RightUp
	case RightUp:
		return LeftDown
	default:
		return d
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range directionNames {
		if n == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction: %s", text)
}

// Edge is a directed connector between two boxes, referenced by id.
type Edge struct {
	Direction Direction `json:"direction" yaml:"direction"`
	From      string    `json:"from" yaml:"from"`
	To        string    `json:"to" yaml:"to"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
}

// IsSelf reports whether the edge starts and ends at the same box.
func (e Edge) IsSelf() bool {
	return e.From == e.To
}

// String returns a short description of the edge.
func (e Edge) String() string {
	return fmt.Sprintf("Edge(%s -%s- %s)", e.From, e.Direction, e.To)
}

// Reserve is the extra space a box keeps around itself for connector glyphs.
type Reserve struct {
	Left  int `json:"left,omitempty" yaml:"left,omitempty"`
	Right int `json:"right,omitempty" yaml:"right,omitempty"`
	Up    int `json:"up,omitempty" yaml:"up,omitempty"`
	Down  int `json:"down,omitempty" yaml:"down,omitempty"`
}

// Diagram is a set of boxes and the connectors between them.
type Diagram struct {
	Nodes []*Node `json:"nodes" yaml:"nodes"`
	Edges []Edge  `json:"edges" yaml:"edges"`
}

// Node returns the first node with the given id, or nil.
func (d *Diagram) Node(id string) *Node {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Clone returns a copy of d whose nodes keep their label, shape and
// coordinates but carry no attachments, ready to be laid out again.
func (d *Diagram) Clone() *Diagram {
	out := &Diagram{
		Nodes: make([]*Node, len(d.Nodes)),
		Edges: make([]Edge, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		out.Nodes[i] = NewNode(n.ID, n.Label, n.Shape, n.Row, n.Col)
	}
	copy(out.Edges, d.Edges)
	return out
}
