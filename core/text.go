// Package core holds the text measurement helpers shared by the diagram model,
// the composer and the exporters.
package core

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the display width of s in terminal cells. East Asian
// wide and fullwidth characters count as two cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// RuneWidth returns the display width of a single rune.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// MaxWidth returns the widest display width across lines.
func MaxWidth(lines []string) int {
	width := 0
	for _, line := range lines {
		if w := StringWidth(line); w > width {
			width = w
		}
	}
	return width
}

// labelBreaks are the in-line spellings of a line break inside a label.
var labelBreaks = strings.NewReplacer(`\n`, "\n", "<br>", "\n", "<br/>", "\n")

// SplitLabel expands in-line break markers and splits the label into lines.
// An empty label still yields one (empty) line.
func SplitLabel(label string) []string {
	return strings.Split(labelBreaks.Replace(label), "\n")
}

// WrapText wraps text to fit within maxWidth using word boundaries. A word
// longer than maxWidth is placed on its own line and may overflow.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	for _, word := range words {
		wordWidth := StringWidth(word)

		// Word fits on current line
		if currentWidth == 0 || currentWidth+1+wordWidth <= maxWidth {
			if currentLine.Len() > 0 {
				currentLine.WriteRune(' ')
				currentWidth++
			}
			currentLine.WriteString(word)
			currentWidth += wordWidth
			continue
		}

		lines = append(lines, currentLine.String())
		currentLine.Reset()
		currentLine.WriteString(word)
		currentWidth = wordWidth
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return lines
}

// WrapLines wraps every line independently and flattens the result.
func WrapLines(lines []string, maxWidth int) []string {
	if maxWidth <= 0 {
		return lines
	}
	var out []string
	for _, line := range lines {
		out = append(out, WrapText(line, maxWidth)...)
	}
	return out
}

// Pad returns n spaces, or the empty string when n is not positive.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// Run returns s repeated n times, or the empty string when n is not positive.
func Run(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
