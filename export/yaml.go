package export

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"asciibox/diagram"
)

// YAMLExporter exports diagrams to YAML format
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Export converts a diagram to YAML
func (e *YAMLExporter) Export(d *diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal diagram: %w", err)
	}
	return string(data), nil
}

// GetFileExtension returns the file extension for YAML
func (e *YAMLExporter) GetFileExtension() string {
	return ".yaml"
}

// GetFormatName returns the format name
func (e *YAMLExporter) GetFormatName() string {
	return "YAML"
}
