package markdown

import (
	"fmt"
	"strings"
)

// OutputLanguage is the fence language of the block holding a rendered
// diagram.
const OutputLanguage = "text"

// RenderFunc renders the content of one diagram block.
type RenderFunc func(block DiagramBlock) (string, error)

// FindOutputBlock locates the rendered-output block directly following
// block, allowing one blank line in between. It returns the line numbers of
// its opening and closing fences.
func (s *Scanner) FindOutputBlock(block DiagramBlock) (start, end int, ok bool) {
	i := block.EndLine + 1
	if i < len(s.lines) && strings.TrimSpace(s.lines[i]) == "" {
		i++
	}
	if i >= len(s.lines) || strings.TrimSpace(s.lines[i]) != "```"+OutputLanguage {
		return 0, 0, false
	}
	for j := i + 1; j < len(s.lines); j++ {
		if strings.HasPrefix(strings.TrimLeft(s.lines[j], " \t"), "```") {
			return i, j, true
		}
	}
	return 0, 0, false
}

// WriteOutput places rendered after block: an existing output block is
// refreshed, otherwise a new one is inserted. The scanner is not modified;
// call UpdateContent with the result to keep working on it.
func (s *Scanner) WriteOutput(block DiagramBlock, rendered string) (string, error) {
	if err := s.ValidateBlockUnchanged(block); err != nil {
		return "", err
	}

	var body []string
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		body = append(body, strings.TrimRight(block.Indent+line, " "))
	}

	if start, end, ok := s.FindOutputBlock(block); ok {
		return s.splice(start+1, end, body), nil
	}
	insert := append([]string{"", block.Indent + "```" + OutputLanguage}, body...)
	insert = append(insert, block.Indent+"```")
	return s.splice(block.EndLine+1, block.EndLine+1, insert), nil
}

// RenderAll renders every diagram block of content and writes the output
// after each one. Blocks are processed from the bottom up so earlier line
// numbers stay valid. It returns the new content and the number of blocks
// rendered.
func RenderAll(content string, render RenderFunc) (string, int, error) {
	s := NewScanner(content)
	blocks := s.FindDiagramBlocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		out, err := render(blocks[i])
		if err != nil {
			return "", 0, fmt.Errorf("block %d (line %d): %w", i+1, blocks[i].StartLine+1, err)
		}
		updated, err := s.WriteOutput(blocks[i], out)
		if err != nil {
			return "", 0, fmt.Errorf("block %d (line %d): %w", i+1, blocks[i].StartLine+1, err)
		}
		s.UpdateContent(updated)
	}
	return s.GetContent(), len(blocks), nil
}
