package export

import (
	"fmt"

	"asciibox/diagram"
	"asciibox/render"
)

// ASCIIExporter exports diagrams as rendered box diagrams
type ASCIIExporter struct {
	renderer *render.Renderer
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return NewASCIIExporterWithRenderer(render.NewRenderer(render.Options{}))
}

// NewASCIIExporterWithRenderer creates an ASCII exporter drawing with r.
func NewASCIIExporterWithRenderer(r *render.Renderer) *ASCIIExporter {
	return &ASCIIExporter{renderer: r}
}

// Export lays out a copy of d and draws it. d is left untouched, so it may
// be exported again.
func (e *ASCIIExporter) Export(d *diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	res := e.renderer.RenderModel(d.Clone())
	if len(res.Diagnostics) > 0 {
		return res.Text, fmt.Errorf("failed to render diagram: %w", res.Diagnostics[0])
	}
	return res.Text, nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII"
}
