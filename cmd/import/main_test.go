package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errb bytes.Buffer
	cmd := newCmd(strings.NewReader(stdin), &out, &errb)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errb.String(), err
}

func TestImportJSON(t *testing.T) {
	out, _, err := run(t, "a[Start] --> b")
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "Start"`)
	assert.Contains(t, out, `"shape": "square"`)
	assert.Contains(t, out, `"index": 0`, "nothing is laid out")
}

func TestImportYAMLToFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.yaml")
	_, stderr, err := run(t, "graph LR\nA --> B", "--yaml", "-o", dst)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Successfully imported diagram")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: A")
}

func TestImportSkippedLines(t *testing.T) {
	out, stderr, err := run(t, "a\n--> x\n")
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipped line 2")
	assert.Contains(t, out, `"id": "a"`)

	_, _, err = run(t, "a\n--> x\n", "--strict")
	assert.Error(t, err)
}

func TestImportUnknownFormat(t *testing.T) {
	_, _, err := run(t, "a", "-f", "d2")
	assert.ErrorContains(t, err, "unknown format")
}
