package importer

import (
	"strings"

	"asciibox/diagram"
)

// commentPrefix starts a line that is ignored entirely.
const commentPrefix = "%%"

// AsciiboxImporter reads the native line grammar: one chain of nodes and
// arrows per line.
type AsciiboxImporter struct {
	// KeepSkippedRows gives lines that fail to parse their own (empty) row.
	// By default only successfully parsed lines advance the row counter.
	KeepSkippedRows bool
}

// NewAsciiboxImporter creates a native importer with default settings.
func NewAsciiboxImporter() *AsciiboxImporter {
	return &AsciiboxImporter{}
}

// CanImport accepts any content; the grammar has no header.
func (a *AsciiboxImporter) CanImport(content string) bool {
	return true
}

// Import parses every non-blank line. A line is only added to the diagram
// once it parsed completely.
func (a *AsciiboxImporter) Import(content string) (*diagram.Diagram, error) {
	return importLines(splitLines(content), a.KeepSkippedRows, nil)
}

// GetFormatName returns the format name
func (a *AsciiboxImporter) GetFormatName() string {
	return "asciibox"
}

// GetFileExtensions returns common file extensions
func (a *AsciiboxImporter) GetFileExtensions() []string {
	return []string{".abox", ".asciibox", ".txt"}
}

// sourceLine is a statement together with the 1-based line it came from.
type sourceLine struct {
	num  int
	text string
}

func splitLines(content string) []sourceLine {
	var lines []sourceLine
	for i, text := range strings.Split(content, "\n") {
		lines = append(lines, sourceLine{num: i + 1, text: strings.TrimRight(text, "\r")})
	}
	return lines
}

// importLines runs the line grammar over lines. rewrite, when set, turns a
// source line into grammar text; returning false skips the line silently.
func importLines(lines []sourceLine, keepSkippedRows bool, rewrite func(string) (string, bool)) (*diagram.Diagram, error) {
	d := &diagram.Diagram{}
	var errs ParseErrors
	row := 0

	for _, src := range lines {
		text := src.text
		if strings.TrimSpace(text) == "" || strings.HasPrefix(strings.TrimSpace(text), commentPrefix) {
			continue
		}
		if rewrite != nil {
			var keep bool
			if text, keep = rewrite(text); !keep {
				continue
			}
		}

		line, err := ParseLine(text, row)
		if err != nil {
			errs = append(errs, &LineError{Line: src.num, Text: src.text, Err: err})
			if keepSkippedRows {
				row++
			}
			continue
		}
		row++
		d.Nodes = append(d.Nodes, line.Nodes...)
		d.Edges = append(d.Edges, line.Edges...)
	}

	if len(errs) > 0 {
		return d, errs
	}
	return d, nil
}
