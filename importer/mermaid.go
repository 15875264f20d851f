package importer

import (
	"regexp"
	"strings"

	"asciibox/diagram"
)

// MermaidImporter imports Mermaid flowcharts. Every statement becomes one
// row of the native grammar, so "A --> B" followed by "B --> C" lays out as
// a single chain.
type MermaidImporter struct {
	keepSkippedRows bool
}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter(keepSkippedRows bool) *MermaidImporter {
	return &MermaidImporter{keepSkippedRows: keepSkippedRows}
}

// CanImport checks if the content is a Mermaid flowchart
func (m *MermaidImporter) CanImport(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		return isMermaidHeader(line)
	}
	return false
}

func isMermaidHeader(line string) bool {
	first, _, _ := strings.Cut(line, ";")
	fields := strings.Fields(first)
	if len(fields) == 0 || len(fields) > 2 {
		return false
	}
	return fields[0] == "graph" || fields[0] == "flowchart"
}

// Import converts Mermaid content to a diagram
func (m *MermaidImporter) Import(content string) (*diagram.Diagram, error) {
	var statements []sourceLine
	for _, line := range splitLines(content) {
		for _, stmt := range strings.Split(line.text, ";") {
			statements = append(statements, sourceLine{num: line.num, text: stmt})
		}
	}
	return importLines(statements, m.keepSkippedRows, rewriteMermaid)
}

// GetFormatName returns the format name
func (m *MermaidImporter) GetFormatName() string {
	return "Mermaid"
}

// GetFileExtensions returns common file extensions
func (m *MermaidImporter) GetFileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}

// mermaidSkipped are statement keywords with no counterpart in the grammar.
var mermaidSkipped = []string{
	"graph", "flowchart", "subgraph", "end", "direction",
	"classDef", "class", "style", "linkStyle", "click",
}

// mermaidShapes folds Mermaid's node shapes onto the three box shapes. Only
// the bracket pair right after a node id is folded, so labels keep their
// text.
var mermaidShapes = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{nodeShape(`\(\(`, `\)\)`), "${1}{${2}}"},
	{nodeShape(`\{\{`, `\}\}`), "${1}{${2}}"},
	{nodeShape(`\[\[`, `\]\]`), "${1}[${2}]"},
	{nodeShape(`\(\[`, `\]\)`), "${1}(${2})"},
	{nodeShape(`\[\(`, `\)\]`), "${1}[${2}]"},
}

// nodeShape matches a node id at the start of a statement or after an arrow,
// followed by the open and close delimiters of one shape.
func nodeShape(opener, closer string) *regexp.Regexp {
	return regexp.MustCompile(`((?:^|[-|>])\s*[^\s()\[\]{}|<>\-]+\s*)` + opener + `(.*?)` + closer)
}

// mermaidArrows maps arrow variants onto the grammar's literals.
var mermaidArrows = strings.NewReplacer(
	"-.->", "-->",
	"==>", "-->",
	"--o", "---",
	"--x", "---",
)

// linkText matches "-- text -->", Mermaid's other way of labeling a link.
var linkText = regexp.MustCompile(`--\s+([^|<>-][^|<>]*?)\s+-->`)

func rewriteMermaid(stmt string) (string, bool) {
	trimmed := strings.TrimSpace(stmt)
	if trimmed == "" {
		return "", false
	}
	keyword := strings.Fields(trimmed)[0]
	for _, skip := range mermaidSkipped {
		if keyword == skip {
			return "", false
		}
	}

	out := strings.ReplaceAll(trimmed, `"`, "")
	for _, shape := range mermaidShapes {
		out = shape.pattern.ReplaceAllString(out, shape.repl)
	}
	out = linkText.ReplaceAllString(out, "--|$1|-->")
	out = mermaidArrows.Replace(out)
	return out, true
}
