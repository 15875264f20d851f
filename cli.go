package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"asciibox/canvas"
	"asciibox/config"
	"asciibox/export"
	"asciibox/layout"
	"asciibox/markdown"
	"asciibox/render"
	"asciibox/terminal"
)

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "asciibox",
		Short: "asciibox draws box diagrams from one-line arrow statements",
		Long: `asciibox turns lines such as "a[Start] --> b(Stop)" into ASCII box
diagrams. Each line is a row; each box on a line is a column.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(versionText())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newMarkdownCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func versionText() string {
	return fmt.Sprintf("asciibox %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}

// addSettingsFlags registers the flags that override config file values.
func addSettingsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "config file (default $"+config.EnvVar+" or ./.asciibox.toml)")
	f.Bool("expand", false, "stretch every box to the width of its column")
	f.Int("wrap", 0, "wrap label lines wider than N cells (0 disables)")
	f.Bool("keep-skipped-rows", false, "keep a row for every line that failed to parse")
	f.Bool("strict-edges", false, "stop at the first edge naming an unknown box")
	f.String("input-format", "", "input format: asciibox or mermaid (detected when empty)")
}

// loadSettings reads the config file and applies the flags the user set.
func loadSettings(cmd *cobra.Command, inputPath string) (*config.File, render.Options, error) {
	logger := loggerFromContext(cmd.Context())
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	var (
		f   *config.File
		err error
	)
	if path != "" {
		f, err = config.Load(path)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, render.Options{}, wdErr
		}
		f, path, err = config.LoadDefault(wd)
	}
	if err != nil {
		return nil, render.Options{}, err
	}
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}

	if flags.Changed("expand") {
		f.Expand, _ = flags.GetBool("expand")
	}
	if flags.Changed("wrap") {
		f.Wrap, _ = flags.GetInt("wrap")
	}
	if flags.Changed("keep-skipped-rows") {
		f.KeepSkippedRows, _ = flags.GetBool("keep-skipped-rows")
	}
	if flags.Changed("strict-edges") {
		f.StrictEdges, _ = flags.GetBool("strict-edges")
	}
	if flags.Lookup("color") != nil && flags.Changed("color") {
		f.Color, _ = flags.GetString("color")
	}
	if err := f.Validate(); err != nil {
		return nil, render.Options{}, err
	}

	opts := f.Options()
	opts.Format, _ = flags.GetString("input-format")
	if opts.Format == "" {
		opts.Format = inputFormatFor(inputPath)
	}
	return f, opts, nil
}

// inputFormatFor picks the input format from a file extension. An empty
// result means detect from content.
func inputFormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mmd", ".mermaid":
		return "mermaid"
	default:
		return ""
	}
}

func readInput(cmd *cobra.Command, args []string) (name, source string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "stdin", string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(data), nil
}

// useColor resolves a --color mode for output written to w.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type renderOpts struct {
	format   string
	output   string
	color    string
	validate bool
	strict   bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram source to stdout or a file",
		Long: `Render reads diagram statements from a file, or stdin when no file is
given, and writes the box diagram. With --format the laid out model is
exported as mermaid, json or yaml instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}

	addSettingsFlags(cmd)
	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "ascii", "output format: ascii, mermaid, json, yaml")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&opts.color, "color", "auto", "highlight output: auto, always, never")
	f.BoolVar(&opts.validate, "validate", false, "check the drawn boxes and connectors")
	f.BoolVar(&opts.strict, "strict", false, "with --validate, also report text outside boxes")
	return cmd
}

func runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	logger := loggerFromContext(cmd.Context())

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	name, source, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	settings, ropts, err := loadSettings(cmd, name)
	if err != nil {
		return err
	}

	r := render.NewRenderer(ropts, render.WithLogger(logger))
	if opts.validate {
		r.EnableValidation(opts.strict)
	}
	res := r.Render(source)

	out := res.Text
	if format != export.FormatASCII {
		exp, err := export.NewExporter(format)
		if err != nil {
			return err
		}
		if out, err = exp.Export(res.Diagram); err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(out), 0o644); err != nil {
			return err
		}
		logger.Info("wrote diagram", "path", opts.output, "format", format)
	} else {
		w := cmd.OutOrStdout()
		if format == export.FormatASCII && useColor(settings.Color, w) {
			p := settings.HighlightPalette()
			p.Border.EnableColor()
			p.Arrow.EnableColor()
			out = canvas.Highlight(out, p)
		}
		fmt.Fprint(w, out)
	}

	for _, d := range res.Diagnostics {
		if errors.Is(d, layout.ErrUnresolvedEdge) {
			return d
		}
	}
	if len(res.Problems) > 0 {
		return fmt.Errorf("validation found %d problems", len(res.Problems))
	}
	return nil
}

type markdownOpts struct {
	block int
	write bool
	list  bool
}

func newMarkdownCmd() *cobra.Command {
	var opts markdownOpts

	cmd := &cobra.Command{
		Use:   "markdown FILE",
		Short: "Render the diagram blocks of a Markdown file",
		Long: "Markdown finds ```asciibox and ```mermaid blocks and renders them. With\n" +
			"--write the output goes into a ```text block after each source block.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarkdown(cmd, args[0], opts)
		},
	}

	addSettingsFlags(cmd)
	f := cmd.Flags()
	f.IntVar(&opts.block, "block", 0, "render only this block (1-based, 0 = all)")
	f.BoolVar(&opts.write, "write", false, "write rendered blocks back into the file")
	f.BoolVar(&opts.list, "list", false, "list the diagram blocks and exit")
	return cmd
}

func runMarkdown(cmd *cobra.Command, path string, opts markdownOpts) error {
	logger := loggerFromContext(cmd.Context())

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(data)

	scanner := markdown.NewScanner(content)
	blocks := scanner.FindDiagramBlocks()
	if len(blocks) == 0 {
		return fmt.Errorf("no diagram blocks found in %s", path)
	}
	w := cmd.OutOrStdout()
	if opts.list {
		for i, b := range blocks {
			fmt.Fprintln(w, markdown.FormatBlockInfo(b, i))
		}
		return nil
	}
	if opts.block < 0 || opts.block > len(blocks) {
		return fmt.Errorf("block %d out of range (found %d blocks)", opts.block, len(blocks))
	}

	_, ropts, err := loadSettings(cmd, "")
	if err != nil {
		return err
	}
	r := render.NewRenderer(ropts, render.WithLogger(logger))
	renderBlock := func(b markdown.DiagramBlock) (string, error) {
		res := r.Render(b.Content)
		for _, d := range res.Diagnostics {
			if errors.Is(d, layout.ErrUnresolvedEdge) {
				return "", d
			}
		}
		return res.Text, nil
	}

	if !opts.write {
		for i, b := range blocks {
			if opts.block != 0 && i != opts.block-1 {
				continue
			}
			out, err := renderBlock(b)
			if err != nil {
				return fmt.Errorf("block %d: %w", i+1, err)
			}
			fmt.Fprintln(w, markdown.FormatBlockInfo(b, i))
			fmt.Fprint(w, out)
		}
		return nil
	}

	var (
		updated string
		count   = 1
	)
	if opts.block == 0 {
		updated, count, err = markdown.RenderAll(content, renderBlock)
	} else {
		b := blocks[opts.block-1]
		var out string
		if out, err = renderBlock(b); err == nil {
			updated, err = scanner.WriteOutput(b, out)
		}
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return err
	}
	logger.Info("updated markdown", "path", path, "blocks", count)
	return nil
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show a diagram full screen",
		Long: `Preview renders a diagram in the terminal. Arrows or hjkl scroll, e toggles
expand mode, E edits the source in $EDITOR, q or Esc quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			_, ropts, err := loadSettings(cmd, name)
			if err != nil {
				return err
			}
			// The screen owns the terminal until the preview closes.
			return terminal.RunPreview(name, source, ropts, log.New(io.Discard))
		},
	}
	addSettingsFlags(cmd)
	return cmd
}
