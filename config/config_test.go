package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asciibox/render"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "c.toml", `
expand = true
wrap = 12
strict_edges = true
color = "never"

[palette]
border = "green"
`)
	f, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, render.Options{ExpandMode: true, WrapWidth: 12, AbortOnUnresolved: true}, f.Options())
	assert.Equal(t, "never", f.Color)
	assert.Equal(t, "green", f.Palette.Border)
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "c.yml", "keep_skipped_rows: true\npalette:\n  arrow: red\n")
	f, err := Load(p)
	require.NoError(t, err)
	assert.True(t, f.KeepSkippedRows)
	assert.Equal(t, "auto", f.Color, "unset keys keep their defaults")
	assert.Equal(t, "red", f.Palette.Arrow)
}

func TestLoadEmptyYAML(t *testing.T) {
	for _, content := range []string{"", "\n", "# nothing set\n"} {
		f, err := Load(writeFile(t, t.TempDir(), "c.yaml", content))
		require.NoError(t, err)
		assert.Equal(t, Default(), f, "%q", content)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown toml key", "a.toml", "colour = \"auto\"\n"},
		{"unknown yaml key", "a.yaml", "colour: auto\n"},
		{"bad toml", "b.toml", "expand = \n"},
		{"bad color mode", "c.toml", "color = \"sometimes\"\n"},
		{"negative wrap", "d.yaml", "wrap: -1\n"},
		{"unknown palette color", "e.toml", "[palette]\narrow = \"plaid\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeFile(t, dir, "c.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFind(t *testing.T) {
	t.Setenv(EnvVar, "")
	dir := t.TempDir()
	assert.Equal(t, "", Find(dir))

	f, path, err := LoadDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, Default(), f)

	yml := writeFile(t, dir, ".asciibox.yaml", "wrap: 3\n")
	assert.Equal(t, yml, Find(dir))

	tml := writeFile(t, dir, ".asciibox.toml", "wrap = 4\n")
	assert.Equal(t, tml, Find(dir), "toml is preferred")

	f, path, err = LoadDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, tml, path)
	assert.Equal(t, 4, f.Wrap)

	t.Setenv(EnvVar, yml)
	assert.Equal(t, yml, Find(dir))
}

func TestHighlightPalette(t *testing.T) {
	f := Default()
	f.Palette.Border = "magenta"
	p := f.HighlightPalette()
	assert.NotNil(t, p.Border)
	assert.NotNil(t, p.Arrow)
}
