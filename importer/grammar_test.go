package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asciibox/diagram"
)

func TestParseNode(t *testing.T) {
	tests := []struct {
		input string
		id    string
		label string
		shape diagram.Shape
		rest  string
	}{
		{"a", "a", "a", diagram.Round, ""},
		{"a1(bb)", "a1", "bb", diagram.Round, ""},
		{"a2[bb ]", "a2", "bb", diagram.Square, ""},
		{"a3[你好]", "a3", "你好", diagram.Square, ""},
		{"a4[你好] cc", "a4", "你好", diagram.Square, "cc"},
		{"天下[天下神一舞]", "天下", "天下神一舞", diagram.Square, ""},
		{"c{circle}", "c", "circle", diagram.Circle, ""},
		{"(just label)", "", "just label", diagram.Round, ""},
		{" x ( spaced ) -->y", "x", "spaced", diagram.Round, "-->y"},
		{"a-->b", "a", "a", diagram.Round, "-->b"},
		{"a --> b", "a", "a", diagram.Round, "--> b"},
		{"a[x]-->b(y)", "a", "x", diagram.Square, "-->b(y)"},
		{"a-->b(y)", "a", "a", diagram.Round, "-->b(y)"},
		{"n(a-b)", "n", "a-b", diagram.Round, ""},
		{"open(no close", "open", "no close", diagram.Round, ""},
		{"-->b", "", "", diagram.Round, "-->b"},
		{"", "", "", diagram.Round, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, label, shape, rest := ParseNode(tt.input)
			assert.Equal(t, tt.id, id, "id")
			assert.Equal(t, tt.label, label, "label")
			assert.Equal(t, tt.shape, shape, "shape")
			assert.Equal(t, tt.rest, rest, "rest")
		})
	}
}

func TestParseEdgeDirections(t *testing.T) {
	tests := []struct {
		input    string
		expected diagram.Direction
	}{
		{"-->", diagram.Right},
		{"->", diagram.Right},
		{"<--", diagram.Left},
		{"<-->", diagram.Double},
		{"--^", diagram.Up},
		{"--v", diagram.Down},
		{"-^>", diagram.RightUp},
		{"-v>", diagram.RightDown},
		{"<^-", diagram.LeftUp},
		{"<v-", diagram.LeftDown},
		{"---", diagram.None},
		{" --> ", diagram.Right},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dir, _, _ := ParseEdge(tt.input)
			assert.Equal(t, tt.expected, dir)
		})
	}
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		name  string
		input string
		dir   diagram.Direction
		label string
		rest  string
	}{
		{"labeled", "--|aaa|-->bb", diagram.Right, "aaa", "bb"},
		{"label after arrow", "-->|yes| B", diagram.Right, "yes", "B"},
		{"label with arrow characters", "--|a->b|-->c", diagram.Right, "a->b", "c"},
		{"remainder", "--> b(x) --> c", diagram.Right, "", "b(x) --> c"},
		{"node starting with v", "-->v1", diagram.Right, "", "v1"},
		{"left", "<-- b", diagram.Left, "", "b"},
		{"no arrow consumes everything", "b(y)", diagram.None, "", ""},
		{"second label is left over", "--|a|--|b --> c", diagram.None, "a", "|b --> c"},
		{"unclosed label", "--|a", diagram.None, "", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, label, rest := ParseEdge(tt.input)
			assert.Equal(t, tt.dir, dir, "direction")
			assert.Equal(t, tt.label, label, "label")
			assert.Equal(t, tt.rest, rest, "rest")
		})
	}
}

func TestScanEdge(t *testing.T) {
	_, _, _, ok := ScanEdge("b(y)")
	assert.False(t, ok)

	dir, label, rest, ok := ScanEdge("--- b")
	assert.True(t, ok)
	assert.Equal(t, diagram.None, dir)
	assert.Empty(t, label)
	assert.Equal(t, "b", rest)
}

func TestArrowDirection(t *testing.T) {
	assert.Equal(t, diagram.Double, ArrowDirection("<->"))
	assert.Equal(t, diagram.None, ArrowDirection(""))
	assert.Equal(t, diagram.None, ArrowDirection("^^"))
}

func TestParseLine(t *testing.T) {
	t.Run("chain", func(t *testing.T) {
		line, err := ParseLine("a --> b[B] --|go|--> c{C}", 3)
		require.NoError(t, err)
		require.Len(t, line.Nodes, 3)
		require.Len(t, line.Edges, 2)

		cols := []int{line.Nodes[0].Col, line.Nodes[1].Col, line.Nodes[2].Col}
		assert.Equal(t, []int{0, 2, 4}, cols)
		for _, n := range line.Nodes {
			assert.Equal(t, 3, n.Row)
		}
		assert.Equal(t, diagram.Square, line.Nodes[1].Shape)
		assert.Equal(t, "C", line.Nodes[2].Label)

		assert.Equal(t, diagram.Edge{Direction: diagram.Right, From: "a", To: "b"}, line.Edges[0])
		assert.Equal(t, diagram.Edge{Direction: diagram.Right, From: "b", To: "c", Label: "go"}, line.Edges[1])
	})

	t.Run("single node", func(t *testing.T) {
		line, err := ParseLine("solo[Only me]", 0)
		require.NoError(t, err)
		require.Len(t, line.Nodes, 1)
		assert.Empty(t, line.Edges)
		assert.Equal(t, "solo", line.Nodes[0].ID)
	})

	t.Run("id defaults to label", func(t *testing.T) {
		line, err := ParseLine("(x) --> [y]", 0)
		require.NoError(t, err)
		assert.Equal(t, "x", line.Edges[0].From)
		assert.Equal(t, "y", line.Edges[0].To)
	})

	t.Run("trailing arrow is dropped", func(t *testing.T) {
		line, err := ParseLine("a -->", 0)
		require.NoError(t, err)
		assert.Len(t, line.Nodes, 1)
		assert.Empty(t, line.Edges)
	})

	t.Run("short remainder stops the chain", func(t *testing.T) {
		line, err := ParseLine("a-b", 0)
		require.NoError(t, err)
		assert.Len(t, line.Nodes, 1)
	})

	t.Run("leading arrow", func(t *testing.T) {
		_, err := ParseLine("--> b", 0)
		assert.ErrorIs(t, err, ErrEmptyNode)
	})

	t.Run("missing arrow", func(t *testing.T) {
		_, err := ParseLine("a(x) b(y)", 0)
		assert.ErrorIs(t, err, ErrMissingArrow)
	})

	t.Run("closer before opener", func(t *testing.T) {
		_, err := ParseLine("a)b(c) --> d", 0)
		assert.ErrorIs(t, err, ErrBracketOrder)
	})

	t.Run("second label on one arrow", func(t *testing.T) {
		_, err := ParseLine("x --|a|--|b --> c", 0)
		assert.ErrorIs(t, err, ErrStrayBar)
	})

	t.Run("empty node after arrow", func(t *testing.T) {
		_, err := ParseLine("a --> -^ ()", 0)
		assert.ErrorIs(t, err, ErrEmptyNode)
	})
}

func TestParseErrors(t *testing.T) {
	var errs ParseErrors
	assert.Equal(t, "no errors", errs.Error())

	errs = append(errs, &LineError{Line: 2, Text: "--> b", Err: ErrEmptyNode})
	assert.Equal(t, `line 2: expected a node: "--> b"`, errs.Error())

	errs = append(errs, &LineError{Line: 5, Text: "a b(", Err: ErrMissingArrow})
	assert.Contains(t, errs.Error(), "and 1 more errors")
	assert.ErrorIs(t, errs[1], ErrMissingArrow)
}
