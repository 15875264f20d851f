package canvas

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Palette holds the colors used to highlight rendered diagrams.
type Palette struct {
	Border *color.Color
	Arrow  *color.Color
}

// DefaultPalette colors borders cyan and connectors yellow.
func DefaultPalette() Palette {
	return Palette{
		Border: color.New(color.FgCyan),
		Arrow:  color.New(color.FgYellow, color.Bold),
	}
}

// GetColor returns a foreground color by name, or nil for an unknown name.
func GetColor(name string) *color.Color {
	switch strings.ToLower(name) {
	case "red":
		return color.New(color.FgRed)
	case "green":
		return color.New(color.FgGreen)
	case "yellow":
		return color.New(color.FgYellow)
	case "blue":
		return color.New(color.FgBlue)
	case "magenta":
		return color.New(color.FgMagenta)
	case "cyan":
		return color.New(color.FgCyan)
	case "white":
		return color.New(color.FgWhite)
	default:
		return nil
	}
}

var (
	arrowPattern  = regexp.MustCompile(`<-+>|<-+|-+>|\.-+|[\^v]`)
	borderPattern = regexp.MustCompile(`[.+']-+[.+']|\|`)
)

// Highlight colors the box borders and connector glyphs of a rendered
// diagram. Whether escape codes are emitted follows color.NoColor.
func Highlight(text string, p Palette) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = highlightLine(line, p)
	}
	return strings.Join(lines, "\n")
}

func highlightLine(line string, p Palette) string {
	spans := Glyphs(line)
	if len(spans) == 0 {
		return line
	}

	var sb strings.Builder
	last := 0
	for _, g := range spans {
		c := p.Border
		if g.Kind == ArrowGlyph {
			c = p.Arrow
		}
		if c == nil {
			continue
		}
		sb.WriteString(line[last:g.Start])
		sb.WriteString(c.Sprint(line[g.Start:g.End]))
		last = g.End
	}
	sb.WriteString(line[last:])
	return sb.String()
}

// GlyphKind tells box borders from connector strokes.
type GlyphKind int

const (
	BorderGlyph GlyphKind = iota
	ArrowGlyph
)

// Glyph is a run of drawing characters in one rendered line. Start and End
// are byte offsets.
type Glyph struct {
	Start, End int
	Kind       GlyphKind
}

// Glyphs finds the border and connector runs of line, ordered by offset.
// Borders win where the two overlap.
func Glyphs(line string) []Glyph {
	var spans []Glyph
	taken := make([]bool, len(line))
	claim := func(re *regexp.Regexp, kind GlyphKind) {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			if loc[1]-loc[0] == 1 && !standalone(line, loc[0]) {
				continue
			}
			free := true
			for j := loc[0]; j < loc[1]; j++ {
				free = free && !taken[j]
			}
			if !free {
				continue
			}
			for j := loc[0]; j < loc[1]; j++ {
				taken[j] = true
			}
			spans = append(spans, Glyph{loc[0], loc[1], kind})
		}
	}
	claim(borderPattern, BorderGlyph)
	claim(arrowPattern, ArrowGlyph)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// standalone reports whether the single glyph at i stands apart from label
// text, so a lone 'v' or '|' inside a word is left alone.
func standalone(line string, i int) bool {
	isWord := func(j int) bool {
		if j < 0 || j >= len(line) {
			return false
		}
		b := line[j]
		return !strings.ContainsRune(" |-.'+<>", rune(b))
	}
	return !isWord(i-1) && !isWord(i+1)
}
