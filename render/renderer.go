// Package render runs the whole pipeline: source text in, box diagram out.
package render

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"asciibox/canvas"
	"asciibox/diagram"
	"asciibox/importer"
	"asciibox/layout"
	"asciibox/validation"
)

// Options controls how a diagram is laid out and drawn.
type Options struct {
	// ExpandMode stretches every box to the full width of its column.
	ExpandMode bool
	// WrapWidth wraps label lines longer than this many cells. 0 disables.
	WrapWidth int
	// KeepSkippedRows gives every line that failed to parse its own row.
	KeepSkippedRows bool
	// AbortOnUnresolved stops relocation at the first edge naming an
	// unknown box instead of skipping that edge.
	AbortOnUnresolved bool
	// Format forces an input format by name ("asciibox", "mermaid").
	// Empty means detect.
	Format string
}

// Result is the outcome of one render.
type Result struct {
	Text    string
	Diagram *diagram.Diagram
	// Diagnostics holds every recoverable problem: skipped lines
	// (*importer.LineError) and relocation errors.
	Diagnostics []error
	// Problems lists validation findings when validation is enabled.
	Problems []validation.ValidationError
}

// Renderer turns source text into a box diagram. It keeps no state between
// calls and may be shared.
type Renderer struct {
	opts     Options
	logger   *log.Logger
	registry *importer.ImporterRegistry
	validate bool
	strict   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger receiving diagnostics. Renderers are silent by
// default.
func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer creates a renderer for opts.
func NewRenderer(opts Options, options ...Option) *Renderer {
	r := &Renderer{
		opts:   opts,
		logger: log.New(io.Discard),
		registry: importer.NewImporterRegistry(&importer.AsciiboxImporter{
			KeepSkippedRows: opts.KeepSkippedRows,
		}),
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// EnableValidation checks every rendered diagram with a LineValidator.
func (r *Renderer) EnableValidation(strict bool) {
	r.validate = true
	r.strict = strict
}

// Options returns the options the renderer was created with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render parses source and draws it. Lines that do not parse are skipped and
// reported in the result's diagnostics.
func (r *Renderer) Render(source string) *Result {
	d, err := r.parse(source)
	var diags []error
	if err != nil {
		var lineErrs importer.ParseErrors
		if errors.As(err, &lineErrs) {
			for _, le := range lineErrs {
				r.logger.Warn("skipping line", "line", le.Line, "err", le.Err, "text", le.Text)
				diags = append(diags, le)
			}
		} else {
			r.logger.Error("import failed", "err", err)
			diags = append(diags, err)
		}
	}
	if d == nil {
		d = &diagram.Diagram{}
	}

	res := r.RenderModel(d)
	res.Diagnostics = append(diags, res.Diagnostics...)
	return res
}

func (r *Renderer) parse(source string) (*diagram.Diagram, error) {
	if r.opts.Format != "" {
		return r.registry.ImportWithFormat(source, r.opts.Format)
	}
	return r.registry.Import(source)
}

// RenderModel lays out and draws an already parsed diagram. The nodes of d
// are placed in place.
func (r *Renderer) RenderModel(d *diagram.Diagram) *Result {
	res := &Result{}
	board := layout.NewBoard(
		layout.WithLogger(r.logger),
		layout.WithAbortOnUnresolved(r.opts.AbortOnUnresolved),
	)
	for _, n := range d.Nodes {
		n.Wrap(r.opts.WrapWidth)
		board.AddNode(n)
	}
	if err := board.LoadEdges(d.Edges); err != nil {
		r.logger.Warn("relocation stopped", "err", err)
		res.Diagnostics = append(res.Diagnostics, err)
	}

	res.Text = canvas.NewComposer(board, r.opts.ExpandMode).String()
	res.Diagram = board.Diagram()
	r.logger.Debug("rendered", "nodes", len(res.Diagram.Nodes), "edges", len(d.Edges),
		"lines", strings.Count(res.Text, "\n"))

	if r.validate {
		v := validation.NewLineValidator()
		v.SetStrictMode(r.strict)
		res.Problems = v.Validate(res.Text)
		for _, p := range res.Problems {
			r.logger.Warn("validation", "problem", p.String())
		}
	}
	return res
}

// RenderDiagram renders source with opts and returns the diagram text.
func RenderDiagram(source string, opts Options) string {
	return NewRenderer(opts).Render(source).Text
}
