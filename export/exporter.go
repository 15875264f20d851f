// Package export writes diagrams out in text-based formats.
package export

import (
	"fmt"
	"strings"

	"asciibox/diagram"
)

// Format represents an export format
type Format string

const (
	// FormatASCII exports the rendered box diagram
	FormatASCII Format = "ascii"
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
	// FormatJSON exports the laid out model as JSON
	FormatJSON Format = "json"
	// FormatYAML exports the laid out model as YAML
	FormatYAML Format = "yaml"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a diagram to the target format
	Export(d *diagram.Diagram) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatMermaid,
		FormatJSON,
		FormatYAML,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:   "ASCII box diagram (asciibox native output)",
		FormatMermaid: "Mermaid flowchart syntax (for Markdown)",
		FormatJSON:    "Laid out boxes and edges as JSON",
		FormatYAML:    "Laid out boxes and edges as YAML",
	}
}
