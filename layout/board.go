// Package layout places boxes on a grid and moves them to honor horizontal
// connectors.
package layout

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"asciibox/diagram"
)

// GridMargin is the number of spare rows and columns kept past the furthest
// node.
const GridMargin = 9

// ErrUnresolvedEdge is returned by LoadEdges when an edge names a box that
// was never added and the board is configured to abort.
var ErrUnresolvedEdge = errors.New("edge refers to an unknown node")

// AddResult reports what AddNode did with a node.
type AddResult int

const (
	Inserted AddResult = iota
	Duplicate
)

func (r AddResult) String() string {
	if r == Duplicate {
		return "duplicate"
	}
	return "inserted"
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger used for skipped edges and collisions.
func WithLogger(logger *log.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithAbortOnUnresolved makes LoadEdges stop at the first edge whose source
// is unknown instead of skipping it.
func WithAbortOnUnresolved(abort bool) Option {
	return func(b *Board) {
		b.abortOnUnresolved = abort
	}
}

// Board owns every node of a diagram. Nodes live in an arena addressed by
// insertion order; ids resolve through an index into that arena.
type Board struct {
	nodes []*diagram.Node
	index map[string]int
	edges []diagram.Edge
	grid  [][]int

	abortOnUnresolved bool
	logger            *log.Logger
}

// NewBoard creates an empty board.
func NewBoard(opts ...Option) *Board {
	b := &Board{
		index:  make(map[string]int),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddNode registers n. A node whose id is already known is rejected and the
// first registration is left untouched.
func (b *Board) AddNode(n *diagram.Node) AddResult {
	if _, ok := b.index[n.ID]; ok {
		b.logger.Debug("duplicate node", "id", n.ID, "row", n.Row, "col", n.Col)
		return Duplicate
	}
	b.index[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
	n.Index = len(b.nodes)
	return Inserted
}

// Lookup returns the node registered under id, or nil.
func (b *Board) Lookup(id string) *diagram.Node {
	if i, ok := b.index[id]; ok {
		return b.nodes[i]
	}
	return nil
}

// Node returns the node with the given 1-based insertion index, or nil for
// an empty cell.
func (b *Board) Node(index int) *diagram.Node {
	if index < 1 || index > len(b.nodes) {
		return nil
	}
	return b.nodes[index-1]
}

// Nodes returns the registered nodes in insertion order.
func (b *Board) Nodes() []*diagram.Node {
	out := make([]*diagram.Node, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// Edges returns every edge passed to LoadEdges, self edges included.
func (b *Board) Edges() []diagram.Edge {
	out := make([]diagram.Edge, len(b.edges))
	copy(out, b.edges)
	return out
}

// Grid returns the index grid built by the last LoadEdges call. Cells hold a
// node's insertion index, 0 when empty.
func (b *Board) Grid() [][]int {
	return b.grid
}

// Diagram returns a snapshot of the board's nodes and edges.
func (b *Board) Diagram() *diagram.Diagram {
	return &diagram.Diagram{Nodes: b.Nodes(), Edges: b.Edges()}
}

// extent returns one past the furthest occupied row and column.
func (b *Board) extent() (rows, cols int) {
	for _, n := range b.nodes {
		rows = max(rows, n.Row+1)
		cols = max(cols, n.Col+1)
	}
	return rows, cols
}

func newGrid(rows, cols int) [][]int {
	grid := make([][]int, rows)
	for i := range grid {
		grid[i] = make([]int, cols)
	}
	return grid
}

// LoadEdges replays edges against the board: Left and Right connectors move
// their destination next to their source, every connector is attached to its
// endpoints, and the grid is rebuilt from the final coordinates.
func (b *Board) LoadEdges(edges []diagram.Edge) error {
	b.edges = append(b.edges, edges...)

	rows, cols := b.extent()
	b.grid = newGrid(rows+GridMargin, cols+GridMargin)

	for _, e := range edges {
		if e.IsSelf() {
			continue
		}
		src, dst := b.Lookup(e.From), b.Lookup(e.To)
		if src == nil || dst == nil {
			missing := e.From
			if src != nil {
				missing = e.To
			}
			if b.abortOnUnresolved {
				b.populate()
				return fmt.Errorf("%w: %q in %s", ErrUnresolvedEdge, missing, e)
			}
			b.logger.Warn("skipping edge", "edge", e, "missing", missing)
			continue
		}
		b.connect(e, src, dst)
	}

	b.populate()
	return nil
}

// connect relocates and attaches one resolved edge.
func (b *Board) connect(e diagram.Edge, src, dst *diagram.Node) {
	switch e.Direction {
	case diagram.Left:
		b.relocate(dst, src.Row, max(1, src.Col)-1)
		src.AddArrow(e, diagram.Left, true)
		dst.AddArrow(e, diagram.Right, false)
	case diagram.Right:
		b.relocate(dst, src.Row, src.Col+1)
		src.AddArrow(e, diagram.Right, true)
		dst.AddArrow(e, diagram.Left, false)
	case diagram.Double:
		src.AddArrow(e, diagram.Double, true)
		dst.AddArrow(e, diagram.Double, false)
	case diagram.Up, diagram.Down, diagram.LeftDown:
		src.AddArrow(e, e.Direction, true)
		dst.AddArrow(e, e.Direction.Invert(), false)
	default:
		src.AddArrow(e, e.Direction, false)
		dst.AddArrow(e, e.Direction.Invert(), false)
	}
}

// relocate moves n to (row, col). Every other node on that row at or right
// of col is shifted one column right first, so the target cell is free.
func (b *Board) relocate(n *diagram.Node, row, col int) {
	var shift []int
	for i, other := range b.nodes {
		if other != n && other.Row == row && other.Col >= col {
			shift = append(shift, i)
		}
	}
	for _, i := range shift {
		b.nodes[i].Col++
	}
	b.logger.Debug("relocate", "id", n.ID, "from", fmt.Sprintf("%d,%d", n.Row, n.Col),
		"to", fmt.Sprintf("%d,%d", row, col), "shifted", len(shift))
	n.Row, n.Col = row, col
}

// populate writes every node's index at its final coordinates, growing the
// grid when relocation pushed a node past the margin.
func (b *Board) populate() {
	rows, cols := b.extent()
	if rows > len(b.grid) || cols > len(b.grid[0]) {
		b.grid = newGrid(max(rows+GridMargin, len(b.grid)), max(cols+GridMargin, len(b.grid[0])))
	}
	for _, n := range b.nodes {
		if prev := b.grid[n.Row][n.Col]; prev != 0 && prev != n.Index {
			b.logger.Warn("cell already taken", "id", n.ID, "row", n.Row, "col", n.Col,
				"by", b.nodes[prev-1].ID)
		}
		b.grid[n.Row][n.Col] = n.Index
	}
}
