// Package config loads default render settings from a TOML or YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"asciibox/canvas"
	"asciibox/render"
)

// EnvVar names the environment variable pointing at a config file.
const EnvVar = "ASCIIBOX_CONFIG"

// DefaultNames are looked up in the working directory, in order.
var DefaultNames = []string{".asciibox.toml", ".asciibox.yaml", ".asciibox.yml"}

var ErrUnsupportedFormat = errors.New("unsupported config format")

// File is the content of a config file. Command-line flags override it.
type File struct {
	Expand          bool   `toml:"expand" yaml:"expand"`
	Wrap            int    `toml:"wrap" yaml:"wrap"`
	KeepSkippedRows bool   `toml:"keep_skipped_rows" yaml:"keep_skipped_rows"`
	StrictEdges     bool   `toml:"strict_edges" yaml:"strict_edges"`
	Color           string `toml:"color" yaml:"color"`
	Palette         struct {
		Border string `toml:"border" yaml:"border"`
		Arrow  string `toml:"arrow" yaml:"arrow"`
	} `toml:"palette" yaml:"palette"`
}

// Default returns the settings used when no file is found.
func Default() *File {
	return &File{Color: "auto"}
}

// Load reads the file at path. The format follows the extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	f := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		// an empty or comment-only document decodes as null and zeroes
		// its target, so defaults are filled in afterwards
		var loaded File
		dec := yaml.NewDecoder(bytes.NewReader(data), yaml.DisallowUnknownField())
		if err := dec.Decode(&loaded); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if loaded.Color == "" {
			loaded.Color = f.Color
		}
		f = &loaded
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Find returns the config file to use: $ASCIIBOX_CONFIG when set, else the
// first of DefaultNames present in dir. It returns "" when there is none.
func Find(dir string) string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	for _, name := range DefaultNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadDefault loads the file Find picks in dir, or Default when none exists.
func LoadDefault(dir string) (*File, string, error) {
	path := Find(dir)
	if path == "" {
		return Default(), "", nil
	}
	f, err := Load(path)
	return f, path, err
}

// Validate checks the values that have a fixed set of choices.
func (f *File) Validate() error {
	switch f.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", f.Color)
	}
	if f.Wrap < 0 {
		return fmt.Errorf("wrap must not be negative, got %d", f.Wrap)
	}
	for _, name := range []string{f.Palette.Border, f.Palette.Arrow} {
		if name != "" && canvas.GetColor(name) == nil {
			return fmt.Errorf("unknown color %q", name)
		}
	}
	return nil
}

// Options converts the file into render options.
func (f *File) Options() render.Options {
	return render.Options{
		ExpandMode:        f.Expand,
		WrapWidth:         f.Wrap,
		KeepSkippedRows:   f.KeepSkippedRows,
		AbortOnUnresolved: f.StrictEdges,
	}
}

// HighlightPalette returns the highlight colors, falling back to the defaults.
func (f *File) HighlightPalette() canvas.Palette {
	p := canvas.DefaultPalette()
	if c := canvas.GetColor(f.Palette.Border); c != nil {
		p.Border = c
	}
	if c := canvas.GetColor(f.Palette.Arrow); c != nil {
		p.Arrow = c
	}
	return p
}
