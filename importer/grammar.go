package importer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"asciibox/diagram"
)

// Errors reported for lines that do not match the grammar.
var (
	ErrEmptyNode    = errors.New("expected a node")
	ErrMissingArrow = errors.New("expected an arrow between nodes")
	ErrBracketOrder = errors.New("closing bracket before opening bracket")
	ErrStrayBar     = errors.New("'|' outside an arrow label")
)

// LineError describes a source line that was skipped.
type LineError struct {
	Line int    // 1-based source line number
	Text string // the offending line
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseErrors lists every line skipped while importing. It is returned next
// to a usable diagram: the remaining lines were imported.
type ParseErrors []*LineError

func (p ParseErrors) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", p[0], len(p)-1)
}

// brackets lists the node delimiters in priority order.
var brackets = []struct {
	open, close byte
	shape       diagram.Shape
}{
	{'(', ')', diagram.Round},
	{'[', ']', diagram.Square},
	{'{', '}', diagram.Circle},
}

// isNodeBoundary reports whether r starts an arrow after a bare node.
func isNodeBoundary(r rune) bool {
	return r == '-' || r == '<' || r == '>' || r == '^'
}

// ParseNode splits the leading node token off text. A bracketed token yields
// the text before the bracket as id, the text inside as label and the text
// after the closing bracket as rest, all trimmed. A bare token runs up to the
// first arrow character and is used as both id and label.
//
// Only a bracket that opens before the first arrow character belongs to this
// token; among those, the earliest one wins, ties broken by (), [], {}.
func ParseNode(text string) (id, label string, shape diagram.Shape, rest string) {
	boundary := strings.IndexFunc(text, isNodeBoundary)
	if boundary < 0 {
		boundary = len(text)
	}

	open := -1
	var closer byte
	for _, b := range brackets {
		at := strings.IndexByte(text[:boundary], b.open)
		if at >= 0 && (open < 0 || at < open) {
			open, closer, shape = at, b.close, b.shape
		}
	}

	if open >= 0 {
		id = strings.TrimSpace(text[:open])
		inner := text[open+1:]
		end := strings.IndexByte(inner, closer)
		if end < 0 {
			return id, strings.TrimSpace(inner), shape, ""
		}
		return id, strings.TrimSpace(inner[:end]), shape, strings.TrimSpace(inner[end+1:])
	}

	id = strings.TrimSpace(text[:boundary])
	return id, id, diagram.Round, text[boundary:]
}

// Scanner states while reading an arrow.
const (
	stateNormal = iota
	stateLabel
	stateLabelClosed
)

// isConnector reports whether r continues an arrow run. A 'v' only counts
// right after '-' or '<', so node names starting with v are left alone.
func isConnector(r, prev rune) bool {
	switch r {
	case '-', '<', '>', '^', ' ':
		return true
	case 'v':
		return prev == '-' || prev == '<'
	}
	return false
}

// ParseEdge splits the leading arrow off text and returns its direction,
// its inline |label| and the remaining text. When text holds no arrow at
// all, everything is consumed and the direction is None.
func ParseEdge(text string) (dir diagram.Direction, label, rest string) {
	dir, label, rest, ok := ScanEdge(text)
	if !ok {
		return diagram.None, "", ""
	}
	return dir, label, rest
}

// ScanEdge is ParseEdge with an explicit flag telling whether any arrow
// character was found.
func ScanEdge(text string) (dir diagram.Direction, label, rest string, ok bool) {
	state := stateNormal
	end := 0
	labelStart, labelEnd := -1, -1
	var prev rune

	for i, r := range text {
		switch {
		case r == '|' && state == stateLabelClosed:
			// one label per arrow; the bar is left to the next node
			return classify(text[:end], labelStart, labelEnd), labelText(text, labelStart, labelEnd), text[end:], ok
		case r == '|':
			if state == stateLabel {
				state = stateLabelClosed
				labelEnd = i
			} else {
				state = stateLabel
				labelStart = i
			}
			end = i + 1
		case isConnector(r, prev):
			if r != ' ' {
				ok = true
			}
			end = i + utf8.RuneLen(r)
		case state != stateLabel:
			return classify(text[:end], labelStart, labelEnd), labelText(text, labelStart, labelEnd), text[end:], ok
		}
		prev = r
	}
	return classify(text[:end], labelStart, labelEnd), labelText(text, labelStart, labelEnd), text[end:], ok
}

func labelText(text string, start, end int) string {
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start+1 : end])
}

// classify names the direction of an arrow run, ignoring its label.
func classify(run string, labelStart, labelEnd int) diagram.Direction {
	if labelStart >= 0 {
		if labelEnd > labelStart {
			run = run[:labelStart] + run[labelEnd+1:]
		} else {
			run = run[:labelStart]
		}
	}
	return ArrowDirection(strings.TrimSpace(run))
}

// ArrowDirection maps an arrow literal to its direction, most specific
// pattern first.
func ArrowDirection(arrow string) diagram.Direction {
	switch {
	case strings.HasPrefix(arrow, "<-") && strings.HasSuffix(arrow, "->"):
		return diagram.Double
	case strings.HasPrefix(arrow, "<-"):
		return diagram.Left
	case strings.HasSuffix(arrow, "->"):
		return diagram.Right
	case strings.HasSuffix(arrow, "-^"):
		return diagram.Up
	case strings.HasSuffix(arrow, "-v"):
		return diagram.Down
	case strings.HasPrefix(arrow, "<^-"):
		return diagram.LeftUp
	case strings.HasPrefix(arrow, "<v-"):
		return diagram.LeftDown
	case strings.HasPrefix(arrow, "-^>"):
		return diagram.RightUp
	case strings.HasPrefix(arrow, "-v>"):
		return diagram.RightDown
	}
	return diagram.None
}

// Line is one successfully parsed source line: a chain of nodes and the
// edges between consecutive nodes.
type Line struct {
	Row   int
	Nodes []*diagram.Node
	Edges []diagram.Edge
}

// minArrowLen is the shortest remainder that can still hold an arrow and a
// node.
const minArrowLen = 3

func checkNode(id, label string) error {
	if id == "" && label == "" {
		return ErrEmptyNode
	}
	if strings.ContainsAny(id, ")]}") {
		return ErrBracketOrder
	}
	if strings.ContainsRune(id, '|') {
		return ErrStrayBar
	}
	return nil
}

// ParseLine parses one line into a chain of nodes placed on row. Columns
// advance once per node and once per arrow.
func ParseLine(text string, row int) (*Line, error) {
	id, label, shape, rest := ParseNode(text)
	if err := checkNode(id, label); err != nil {
		return nil, err
	}

	col := 0
	node := diagram.NewNode(id, label, shape, row, col)
	line := &Line{Row: row, Nodes: []*diagram.Node{node}}
	prev := node.ID

	for {
		col++
		if len(rest) < minArrowLen {
			break
		}

		dir, edgeLabel, after, ok := ScanEdge(rest)
		if !ok {
			return nil, ErrMissingArrow
		}
		if strings.TrimSpace(after) == "" {
			break
		}
		col++

		id, label, shape, rest = ParseNode(after)
		if err := checkNode(id, label); err != nil {
			return nil, err
		}
		node = diagram.NewNode(id, label, shape, row, col)
		line.Nodes = append(line.Nodes, node)
		line.Edges = append(line.Edges, diagram.Edge{
			Direction: dir,
			From:      prev,
			To:        node.ID,
			Label:     edgeLabel,
		})
		prev = node.ID
	}

	return line, nil
}
