package export

import (
	"fmt"
	"regexp"
	"strings"

	"asciibox/diagram"
)

// MermaidExporter exports diagrams to Mermaid flowchart syntax
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// plainID matches ids Mermaid accepts without rewriting.
var plainID = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Export converts the diagram to Mermaid syntax
func (e *MermaidExporter) Export(d *diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	if len(d.Nodes) == 0 {
		return "", fmt.Errorf("diagram has no nodes")
	}

	var sb strings.Builder
	sb.WriteString("flowchart LR\n")

	// Create node declarations
	nodeMap := make(map[string]string)
	for i, node := range d.Nodes {
		if _, seen := nodeMap[node.ID]; seen {
			continue
		}
		nodeID := node.ID
		if !plainID.MatchString(nodeID) {
			nodeID = fmt.Sprintf("N%d", i+1)
		}
		nodeMap[node.ID] = nodeID
		sb.WriteString(fmt.Sprintf("    %s%s\n", nodeID, e.formatNodeWithShape(node.Label, node.Shape)))
	}

	// Add a blank line between nodes and connections
	if len(d.Edges) > 0 {
		sb.WriteString("\n")
	}

	for _, edge := range d.Edges {
		fromID, ok := nodeMap[edge.From]
		if !ok {
			continue
		}
		toID, ok := nodeMap[edge.To]
		if !ok {
			continue
		}

		connStyle := "-->"
		switch edge.Direction {
		case diagram.Left:
			fromID, toID = toID, fromID
		case diagram.Double:
			connStyle = "<-->"
		case diagram.None:
			connStyle = "---"
		}

		if edge.Label != "" {
			sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", fromID, connStyle, e.escapeLabel(edge.Label), toID))
		} else {
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", fromID, connStyle, toID))
		}
	}

	return sb.String(), nil
}

// escapeLabel replaces characters Mermaid treats as syntax inside labels
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, `|`, "#124;")
	return label
}

// needsQuotes reports whether a label must be quoted to survive Mermaid's
// shape syntax.
func needsQuotes(label string) bool {
	return strings.ContainsAny(label, `()[]{}<>|`)
}

// formatNodeWithShape formats a node with its shape for Mermaid
func (e *MermaidExporter) formatNodeWithShape(label string, shape diagram.Shape) string {
	label = e.escapeLabel(label)
	if needsQuotes(label) {
		label = `"` + label + `"`
	}
	switch shape {
	case diagram.Round:
		return fmt.Sprintf("(%s)", label)
	case diagram.Circle:
		return fmt.Sprintf("((%s))", label)
	default:
		return fmt.Sprintf("[%s]", label)
	}
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
