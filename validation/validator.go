// Package validation checks rendered diagrams for broken boxes and dangling
// connector glyphs.
package validation

import (
	"fmt"
	"strings"

	"asciibox/core"
)

// continuation marks the second cell of a wide character.
const continuation = '\x00'

// LineValidator validates that rendered diagrams are well formed: every box
// is closed and every arrow glyph outside a box is attached to a stroke.
type LineValidator struct {
	errors     []ValidationError
	strictMode bool // Report text found outside of boxes
}

// ValidationError represents a validation error with location information.
type ValidationError struct {
	X, Y    int
	Char    rune
	Context string
	Message string
}

// NewLineValidator creates a new validator with default settings.
func NewLineValidator() *LineValidator {
	return &LineValidator{}
}

// SetStrictMode enables or disables strict validation.
func (v *LineValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// Validate checks a rendered diagram. Columns are display cells, so a wide
// character occupies two of them.
func (v *LineValidator) Validate(diagram string) []ValidationError {
	v.errors = nil

	grid := cells(diagram)
	claimed := make([][]bool, len(grid))
	for y := range grid {
		claimed[y] = make([]bool, len(grid[y]))
	}

	for y := 0; y < len(grid); y++ {
		for x := 0; x < len(grid[y]); x++ {
			if claimed[y][x] {
				continue
			}
			if right, ok := topBorder(grid[y], x); ok {
				v.checkBox(grid, claimed, x, y, right)
				x = right
			}
		}
	}

	for y := 0; y < len(grid); y++ {
		for x := 0; x < len(grid[y]); x++ {
			char := grid[y][x]
			if claimed[y][x] || char == ' ' || char == continuation {
				continue
			}
			v.checkCharacter(grid, x, y, char)
		}
	}

	return v.errors
}

// cells expands diagram into a grid of display cells.
func cells(diagram string) [][]rune {
	lines := strings.Split(strings.TrimRight(diagram, "\n"), "\n")
	grid := make([][]rune, len(lines))
	for i, line := range lines {
		for _, r := range line {
			grid[i] = append(grid[i], r)
			for w := core.RuneWidth(r); w > 1; w-- {
				grid[i] = append(grid[i], continuation)
			}
		}
	}
	return grid
}

// topBorder reports whether a top border starts at x, returning the column
// of its closing corner.
func topBorder(row []rune, x int) (int, bool) {
	corner := row[x]
	if corner != '.' && corner != '+' {
		return 0, false
	}
	end := x + 1
	for end < len(row) && row[end] == '-' {
		end++
	}
	if end == x+1 || end >= len(row) || row[end] != corner {
		return 0, false
	}
	return end, true
}

// checkBox follows the sides of the box whose top border spans left..right
// on row top, claiming every cell of it.
func (v *LineValidator) checkBox(grid [][]rune, claimed [][]bool, left, top, right int) {
	bottom := '\''
	if grid[top][left] == '+' {
		bottom = '+'
	}
	for x := left; x <= right; x++ {
		claimed[top][x] = true
	}

	for y := top + 1; y < len(grid); y++ {
		l, r := v.getChar(grid, left, y), v.getChar(grid, right, y)
		if l == bottom && r == bottom && v.isRun(grid[y], left+1, right, '-') {
			for x := left; x <= right; x++ {
				claimed[y][x] = true
			}
			return
		}
		if l != '|' || r != '|' {
			v.addError(left, top, grid[top][left], fmt.Sprintf("row=%d", y),
				"Box side is broken at (%d,%d)", left, y)
			return
		}
		for x := left; x <= right; x++ {
			claimed[y][x] = true
		}
	}
	v.addError(left, top, grid[top][left], "bottom", "Box is not closed")
}

func (v *LineValidator) isRun(row []rune, from, to int, char rune) bool {
	if to > len(row) {
		return false
	}
	for x := from; x < to; x++ {
		if row[x] != char {
			return false
		}
	}
	return true
}

// checkCharacter validates a glyph outside of any box.
func (v *LineValidator) checkCharacter(grid [][]rune, x, y int, char rune) {
	north := v.getChar(grid, x, y-1)
	south := v.getChar(grid, x, y+1)
	east := v.getChar(grid, x+1, y)
	west := v.getChar(grid, x-1, y)

	switch char {
	case '-':
		if !canConnectHorizontal(west) && !canConnectHorizontal(east) {
			v.addError(x, y, char, fmt.Sprintf("west=%c east=%c", west, east),
				"Horizontal line is not connected")
		}

	case '|':
		if !canConnectVertical(north) && !canConnectVertical(south) {
			v.addError(x, y, char, fmt.Sprintf("north=%c south=%c", north, south),
				"Vertical line is not connected")
		}

	case '>':
		if west != '-' {
			v.addError(x, y, char, fmt.Sprintf("west=%c", west),
				"Right arrow should have horizontal line to the west")
		}

	case '<':
		if east != '-' {
			v.addError(x, y, char, fmt.Sprintf("east=%c", east),
				"Left arrow should have horizontal line to the east")
		}

	case '^':
		if south != '|' {
			v.addError(x, y, char, fmt.Sprintf("south=%c", south),
				"Up arrow should have vertical line to the south")
		}

	case '.':
		// corner of a connector that turns down
		if east == '-' && canConnectVertical(south) {
			return
		}
		v.addError(x, y, char, fmt.Sprintf("east=%c south=%c", east, south),
			"Corner is not connected")

	case 'v':
		if north == '|' {
			return
		}
		fallthrough

	default:
		if v.strictMode {
			v.addError(x, y, char, "", "Text outside of a box")
		}
	}
}

// canConnectHorizontal checks if a character can continue a horizontal run.
func canConnectHorizontal(char rune) bool {
	switch char {
	case '-', '<', '>', '.', '|', '+', '\'':
		return true
	}
	return false
}

// canConnectVertical checks if a character can continue a vertical run.
func canConnectVertical(char rune) bool {
	switch char {
	case '|', '^', 'v', '.', '\'', '+', '-':
		return true
	}
	return false
}

// getChar safely gets a character from the grid.
func (v *LineValidator) getChar(grid [][]rune, x, y int) rune {
	if y < 0 || y >= len(grid) {
		return ' '
	}
	if x < 0 || x >= len(grid[y]) {
		return ' '
	}
	return grid[y][x]
}

// addError adds a validation error.
func (v *LineValidator) addError(x, y int, char rune, context, format string, args ...interface{}) {
	v.errors = append(v.errors, ValidationError{
		X:       x,
		Y:       y,
		Char:    char,
		Context: context,
		Message: fmt.Sprintf(format, args...),
	})
}

// String formats validation errors as a string.
func (e ValidationError) String() string {
	return fmt.Sprintf("(%d,%d) '%c' [%s]: %s", e.X, e.Y, e.Char, e.Context, e.Message)
}
