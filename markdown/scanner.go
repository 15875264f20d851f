// Package markdown finds diagram code blocks in Markdown documents and
// writes their rendered output back next to them.
package markdown

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"asciibox/core"
)

// DiagramBlock is one fenced diagram block.
type DiagramBlock struct {
	Type        string // fence language: asciibox, abox or mermaid
	Content     string // block body with the fence indent removed
	StartLine   int    // 0-based line of the opening fence
	EndLine     int    // 0-based line of the closing fence
	Indent      string // whitespace before the opening fence
	ContentHash string // sha256 of Content when the block was found
}

// Scanner finds diagram blocks in a Markdown document and edits it line by
// line.
type Scanner struct {
	content string
	lines   []string
}

// NewScanner creates a scanner over content.
func NewScanner(content string) *Scanner {
	s := &Scanner{}
	s.UpdateContent(content)
	return s
}

// UpdateContent replaces the document, typically with the result of a
// previous edit.
func (s *Scanner) UpdateContent(newContent string) {
	s.content = newContent
	s.lines = strings.Split(newContent, "\n")
}

// GetContent returns the current document.
func (s *Scanner) GetContent() string {
	return s.content
}

// fence splits a line into its indent and, when it opens or closes a code
// block, the fence language.
func fence(line string) (indent, lang string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "```") {
		return "", "", false
	}
	return line[:len(line)-len(trimmed)], strings.TrimSpace(trimmed[3:]), true
}

// FindDiagramBlocks returns every diagram block in document order. Fences of
// other languages are ignored.
func (s *Scanner) FindDiagramBlocks() []DiagramBlock {
	var blocks []DiagramBlock
	for i := 0; i < len(s.lines); i++ {
		indent, lang, ok := fence(s.lines[i])
		if !ok || !isDiagramLanguage(lang) {
			continue
		}
		end := i + 1
		for end < len(s.lines) {
			if _, _, closing := fence(s.lines[end]); closing {
				break
			}
			end++
		}
		if end == len(s.lines) {
			break // unterminated
		}

		b := DiagramBlock{Type: lang, StartLine: i, EndLine: end, Indent: indent}
		b.Content = s.body(b)
		b.ContentHash = hash(b.Content)
		blocks = append(blocks, b)
		i = end
	}
	return blocks
}

// body joins the lines between the fences of b, indent removed.
func (s *Scanner) body(b DiagramBlock) string {
	lines := make([]string, 0, b.EndLine-b.StartLine-1)
	for _, line := range s.lines[b.StartLine+1 : b.EndLine] {
		lines = append(lines, strings.TrimPrefix(line, b.Indent))
	}
	return strings.Join(lines, "\n")
}

func hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (s *Scanner) checkBounds(b DiagramBlock) error {
	if b.StartLine < 0 || b.EndLine >= len(s.lines) || b.StartLine >= b.EndLine {
		return fmt.Errorf("invalid block boundaries: start=%d, end=%d, total lines=%d",
			b.StartLine, b.EndLine, len(s.lines))
	}
	return nil
}

// ValidateBlockUnchanged reports an error when the body of block no longer
// matches the hash taken when it was found.
func (s *Scanner) ValidateBlockUnchanged(block DiagramBlock) error {
	if err := s.checkBounds(block); err != nil {
		return err
	}
	if hash(s.body(block)) != block.ContentHash {
		return fmt.Errorf("block content has been modified externally (hash mismatch)")
	}
	return nil
}

// ReplaceBlock returns the document with the body of block replaced by
// newContent. The fences must still be where they were found.
func (s *Scanner) ReplaceBlock(block DiagramBlock, newContent string) (string, error) {
	if err := s.checkBounds(block); err != nil {
		return "", err
	}

	start := strings.TrimLeft(s.lines[block.StartLine], " \t")
	if !strings.HasPrefix(start, "```"+block.Type) {
		return "", fmt.Errorf("block start marker has changed at line %d: expected '```%s', found '%s'",
			block.StartLine+1, block.Type, start)
	}
	if _, _, ok := fence(s.lines[block.EndLine]); !ok {
		return "", fmt.Errorf("block end marker has changed at line %d: expected '```', found '%s'",
			block.EndLine+1, strings.TrimLeft(s.lines[block.EndLine], " \t"))
	}

	var body []string
	for _, line := range strings.Split(newContent, "\n") {
		body = append(body, block.Indent+line)
	}
	return s.splice(block.StartLine+1, block.EndLine, body), nil
}

// splice returns the document with lines [from, to) replaced by repl.
func (s *Scanner) splice(from, to int, repl []string) string {
	out := make([]string, 0, len(s.lines)-(to-from)+len(repl))
	out = append(out, s.lines[:from]...)
	out = append(out, repl...)
	out = append(out, s.lines[to:]...)
	return strings.Join(out, "\n")
}

func isDiagramLanguage(lang string) bool {
	switch strings.ToLower(lang) {
	case "asciibox", "abox", "mermaid":
		return true
	default:
		return false
	}
}

// FormatBlockInfo describes a block in one line for listings: its 1-based
// position, language, line and first statement.
func FormatBlockInfo(block DiagramBlock, index int) string {
	preview := ""
	for _, line := range strings.Split(block.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "%%") {
			continue
		}
		preview = trimmed
		if core.StringWidth(preview) > 50 {
			preview = truncate(preview, 47) + "..."
		}
		break
	}
	return fmt.Sprintf("%d. %s (line %d): %s", index+1, block.Type, block.StartLine+1, preview)
}

// truncate cuts s to at most width display cells.
func truncate(s string, width int) string {
	w := 0
	for i, r := range s {
		w += core.RuneWidth(r)
		if w > width {
			return s[:i]
		}
	}
	return s
}
