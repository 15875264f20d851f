package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asciibox/config"
)

const simple = ".---.   .---.\n| a |-->| b |\n'---'   '---'\n"

// execute runs the CLI in a clean working directory.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	t.Setenv("NO_COLOR", "")

	var out, errb bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out, &errb)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errb.String(), err
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestRenderStdin(t *testing.T) {
	inTempDir(t)
	out, _, err := execute(t, "a-->b\n", "render")
	require.NoError(t, err)
	assert.Equal(t, simple, out)
}

func TestRenderFileAndOutput(t *testing.T) {
	dir := inTempDir(t)
	src := filepath.Join(dir, "d.txt")
	require.NoError(t, os.WriteFile(src, []byte("a\nccc\n"), 0o644))
	dst := filepath.Join(dir, "out.txt")

	out, stderr, err := execute(t, "", "render", "--expand", "-o", dst, src)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "wrote diagram")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "|  a  |")
}

func TestRenderColor(t *testing.T) {
	inTempDir(t)
	out, _, err := execute(t, "a-->b", "render", "--color", "always")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")

	out, _, err = execute(t, "a-->b", "render", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, simple, out)

	_, _, err = execute(t, "a-->b", "render", "--color", "sometimes")
	assert.Error(t, err)
}

func TestRenderFormats(t *testing.T) {
	inTempDir(t)
	out, _, err := execute(t, "a-->b", "render", "--format", "mermaid")
	require.NoError(t, err)
	assert.Equal(t, "flowchart LR\n    a(a)\n    b(b)\n\n    a --> b\n", out)

	out, _, err = execute(t, "a-->b", "render", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "a"`)

	out, _, err = execute(t, "a-->b", "render", "-f", "yml")
	require.NoError(t, err)
	assert.Contains(t, out, "direction: right")

	_, _, err = execute(t, "a-->b", "render", "-f", "svg")
	assert.Error(t, err)
}

func TestRenderMermaidInput(t *testing.T) {
	dir := inTempDir(t)
	src := filepath.Join(dir, "flow.mmd")
	require.NoError(t, os.WriteFile(src, []byte("A --> B\n"), 0o644))

	out, _, err := execute(t, "", "render", src)
	require.NoError(t, err)
	assert.Contains(t, out, "| A |-->| B |")
}

func TestRenderConfig(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".asciibox.toml"), []byte("expand = true\n"), 0o644))

	out, _, err := execute(t, "a\nccc", "render")
	require.NoError(t, err)
	assert.Contains(t, out, "|  a  |")

	out, _, err = execute(t, "a\nccc", "render", "--expand=false")
	require.NoError(t, err)
	assert.Contains(t, out, "| a |\n")

	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("colour: never\n"), 0o644))
	_, _, err = execute(t, "a", "render", "--config", other)
	assert.Error(t, err)
}

func TestRenderDiagnostics(t *testing.T) {
	inTempDir(t)
	out, stderr, err := execute(t, "a-->b\n--> x\n", "render")
	require.NoError(t, err)
	assert.Equal(t, simple, out)
	assert.Contains(t, stderr, "skipping line")
	assert.NotContains(t, stderr, "rendered")

	_, stderr, err = execute(t, "a-->b", "-v", "render")
	require.NoError(t, err)
	assert.Contains(t, stderr, "rendered")
}

func TestRenderValidate(t *testing.T) {
	inTempDir(t)
	_, _, err := execute(t, "a --> b --v c\nd <-- e\nf <--> g\nh --^ i\nj <v- k", "render", "--validate")
	assert.NoError(t, err)
}

const readme = "# Doc\n\n```asciibox\na-->b\n```\n\n```asciibox\nx\n```\n"

func TestMarkdownPrint(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte(readme), 0o644))

	out, _, err := execute(t, "", "markdown", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1. asciibox (line 3): a-->b\n"+simple)
	assert.Contains(t, out, "2. asciibox (line 7): x\n")

	out, _, err = execute(t, "", "markdown", "--block", "2", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "a-->b")
	assert.Contains(t, out, "| x |")

	out, _, err = execute(t, "", "markdown", "--list", path)
	require.NoError(t, err)
	assert.Equal(t, "1. asciibox (line 3): a-->b\n2. asciibox (line 7): x\n", out)

	_, _, err = execute(t, "", "markdown", "--block", "3", path)
	assert.Error(t, err)
}

func TestMarkdownWrite(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte(readme), 0o600))

	_, stderr, err := execute(t, "", "markdown", "--write", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "updated markdown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "```asciibox\na-->b\n```\n\n```text\n"+simple+"```\n")
	assert.Equal(t, 2, strings.Count(string(data), "```text"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, _, err = execute(t, "", "markdown", "--write", path)
	require.NoError(t, err)
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestMarkdownNoBlocks(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "empty.md")
	require.NoError(t, os.WriteFile(path, []byte("# nothing\n"), 0o644))

	_, _, err := execute(t, "", "markdown", path)
	assert.ErrorContains(t, err, "no diagram blocks")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "asciibox dev\ncommit: none\nbuilt: unknown\n", out)

	out, _, err = execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, versionText(), out)
}

func TestInputFormatFor(t *testing.T) {
	assert.Equal(t, "mermaid", inputFormatFor("a/flow.MMD"))
	assert.Equal(t, "mermaid", inputFormatFor("x.mermaid"))
	assert.Equal(t, "", inputFormatFor("x.txt"))
	assert.Equal(t, "", inputFormatFor("stdin"))
}

func TestUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	assert.True(t, useColor("always", &buf))
	assert.False(t, useColor("never", &buf))
	assert.False(t, useColor("auto", &buf))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, useColor("auto", os.Stdout))
}
