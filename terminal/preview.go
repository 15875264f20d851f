// Package terminal provides the full-screen preview of a rendered diagram.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"asciibox/canvas"
	"asciibox/core"
	"asciibox/importer"
	"asciibox/render"
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	arrowStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// Preview shows a rendered diagram on a tcell screen. The diagram can be
// scrolled, re-rendered in expand mode and edited in $EDITOR.
type Preview struct {
	screen tcell.Screen
	name   string
	source string
	opts   render.Options
	logger *log.Logger

	lines    []string
	skipped  int
	problems int
	message  string
	help     bool

	x, y int
}

// NewPreview creates a preview of source on screen. The screen must already
// be initialized.
func NewPreview(screen tcell.Screen, name, source string, opts render.Options, logger *log.Logger) *Preview {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	p := &Preview{screen: screen, name: name, source: source, opts: opts, logger: logger}
	p.rerender()
	return p
}

// RunPreview opens the terminal and shows source until the user quits.
func RunPreview(name, source string, opts render.Options, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to setup terminal: %w", err)
	}
	defer screen.Fini()

	return NewPreview(screen, name, source, opts, logger).Run()
}

// Run draws the preview and handles events until q, Esc or Ctrl+C.
func (p *Preview) Run() error {
	for {
		p.Draw()
		switch ev := p.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			p.screen.Sync()
			p.clamp()
		case *tcell.EventKey:
			if p.HandleKey(ev) {
				return nil
			}
		}
	}
}

// Text returns the diagram currently shown.
func (p *Preview) Text() string {
	return strings.Join(p.lines, "\n")
}

// Offset returns the scroll position as column and line.
func (p *Preview) Offset() (int, int) {
	return p.x, p.y
}

// Options returns the render options in effect.
func (p *Preview) Options() render.Options {
	return p.opts
}

func (p *Preview) rerender() {
	r := render.NewRenderer(p.opts, render.WithLogger(p.logger))
	r.EnableValidation(false)
	res := r.Render(p.source)

	p.lines = strings.Split(strings.TrimRight(res.Text, "\n"), "\n")
	p.skipped = skippedLines(res.Diagnostics)
	p.problems = len(res.Problems)
	p.clamp()
}

// skippedLines counts the diagnostics that stand for a source line left out.
func skippedLines(diags []error) int {
	n := 0
	for _, d := range diags {
		var le *importer.LineError
		if errors.As(d, &le) {
			n++
		}
	}
	return n
}

// HandleKey applies one key press and reports whether the preview should
// close.
func (p *Preview) HandleKey(ev *tcell.EventKey) bool {
	_, h := p.screen.Size()
	page := max(1, (h-1)/2)

	if p.help && (ev.Key() == tcell.KeyEscape || ev.Rune() == '?') {
		p.help = false
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		p.y--
	case tcell.KeyDown:
		p.y++
	case tcell.KeyLeft:
		p.x--
	case tcell.KeyRight:
		p.x++
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		p.y -= page
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		p.y += page
	case tcell.KeyHome:
		p.x, p.y = 0, 0
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '?':
			p.help = true
		case 'k':
			p.y--
		case 'j':
			p.y++
		case 'h':
			p.x--
		case 'l':
			p.x++
		case 'g':
			p.y = 0
		case 'G':
			p.y = len(p.lines)
		case 'e':
			p.opts.ExpandMode = !p.opts.ExpandMode
			p.rerender()
		case 'E':
			if err := p.editSource(); err != nil {
				p.message = "Error: " + err.Error()
				p.logger.Error("edit failed", "err", err)
			}
		}
	}
	p.clamp()
	return false
}

func (p *Preview) clamp() {
	w, h := p.screen.Size()
	width := 0
	for _, line := range p.lines {
		width = max(width, core.StringWidth(line))
	}
	p.x = max(0, min(p.x, width-w))
	p.y = max(0, min(p.y, len(p.lines)-(h-1)))
}

// Draw paints the visible part of the diagram and the status line.
func (p *Preview) Draw() {
	p.screen.Clear()
	w, h := p.screen.Size()
	if p.help {
		for row, line := range strings.Split(HelpText(), "\n") {
			if row >= h-1 {
				break
			}
			p.drawText(row, line, tcell.StyleDefault)
		}
	} else {
		for row := 0; row < h-1 && p.y+row < len(p.lines); row++ {
			p.drawLine(row, p.lines[p.y+row])
		}
	}
	p.drawStatus(w, h-1)
	p.screen.Show()
}

func (p *Preview) drawLine(row int, line string) {
	glyphs := canvas.Glyphs(line)
	col := 0
	for i, r := range line {
		style := tcell.StyleDefault
		for _, g := range glyphs {
			if i >= g.Start && i < g.End {
				style = borderStyle
				if g.Kind == canvas.ArrowGlyph {
					style = arrowStyle
				}
				break
			}
		}
		if col >= p.x {
			p.screen.SetContent(col-p.x, row, r, nil, style)
		}
		col += core.RuneWidth(r)
	}
}

func (p *Preview) drawStatus(w, row int) {
	expand := "off"
	if p.opts.ExpandMode {
		expand = "on"
	}
	status := p.message
	if status == "" {
		status = fmt.Sprintf(" %s | expand %s | skipped %d | problems %d | %s",
			p.name, expand, p.skipped, p.problems, CompactHelp())
	}
	col := p.drawText(row, status, statusStyle)
	for ; col < w; col++ {
		p.screen.SetContent(col, row, ' ', nil, statusStyle)
	}
}

// drawText writes text from the first column and returns the column after
// it.
func (p *Preview) drawText(row int, text string, style tcell.Style) int {
	col := 0
	for _, r := range text {
		p.screen.SetContent(col, row, r, nil, style)
		col += core.RuneWidth(r)
	}
	return col
}

// editSource suspends the screen, opens the source in the user's editor and
// re-renders whatever was saved.
func (p *Preview) editSource() error {
	editorCmd := os.Getenv("EDITOR")
	if editorCmd == "" {
		editorCmd = os.Getenv("VISUAL")
	}
	if editorCmd == "" {
		for _, candidate := range []string{"vim", "nano", "vi"} {
			if _, err := exec.LookPath(candidate); err == nil {
				editorCmd = candidate
				break
			}
		}
	}
	if editorCmd == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	tmpFile, err := os.CreateTemp("", "asciibox-edit-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpFileName := tmpFile.Name()
	defer os.Remove(tmpFileName)

	if _, err := tmpFile.WriteString(p.source + "\n"); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	if err := p.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend terminal: %w", err)
	}
	cmd := exec.Command(editorCmd, tmpFileName)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	runErr := cmd.Run()
	if err := p.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume terminal: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("editor failed: %w", runErr)
	}

	data, err := os.ReadFile(tmpFileName)
	if err != nil {
		return fmt.Errorf("failed to read edited file: %w", err)
	}
	p.source = strings.TrimRight(string(data), "\n")
	p.message = ""
	p.rerender()
	return nil
}
