package validation

import (
	"strings"
	"testing"
)

func validate(t *testing.T, v *LineValidator, diagram string, wantErr bool, errMsg string) {
	t.Helper()
	errors := v.Validate(strings.Trim(diagram, "\n"))

	if wantErr && len(errors) == 0 {
		t.Errorf("expected errors but got none")
	}
	if !wantErr && len(errors) > 0 {
		t.Errorf("unexpected errors: %v", errors)
	}
	if wantErr && errMsg != "" {
		found := false
		for _, err := range errors {
			if strings.Contains(err.Message, errMsg) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected error containing %q, got %v", errMsg, errors)
		}
	}
}

func TestLineValidator_Boxes(t *testing.T) {
	tests := []struct {
		name    string
		diagram string
		wantErr bool
		errMsg  string
	}{
		{
			name: "round box",
			diagram: `
.---.
| a |
'---'
`,
		},
		{
			name: "square box",
			diagram: `
+---+
|   |
+---+
`,
		},
		{
			name: "wide label",
			diagram: `
+------+
| 你好 |
|  abc |
+------+
`,
		},
		{
			name: "adjacent boxes",
			diagram: `
.---..---.
| a || b |
'---''---'
`,
		},
		{
			name: "box not closed",
			diagram: `
.---.
| a |
`,
			wantErr: true,
			errMsg:  "Box is not closed",
		},
		{
			name: "broken side",
			diagram: `
.---.
| a
'---'
`,
			wantErr: true,
			errMsg:  "Box side is broken",
		},
		{
			name: "mismatched corners",
			diagram: `
.---.
| a |
+---+
`,
			wantErr: true,
			errMsg:  "Box side is broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validate(t, NewLineValidator(), tt.diagram, tt.wantErr, tt.errMsg)
		})
	}
}

func TestLineValidator_Arrows(t *testing.T) {
	tests := []struct {
		name    string
		diagram string
		wantErr bool
		errMsg  string
	}{
		{
			name: "right arrow",
			diagram: `
.---.   .---.
| a |-->| b |
'---'   '---'
`,
		},
		{
			name: "double arrow",
			diagram: `
.---.    .---.
| a |<-->| b |
'---'    '---'
`,
		},
		{
			name: "down arrow",
			diagram: `
.---.
| a |
'---'
  |
  v
`,
		},
		{
			name: "up arrow",
			diagram: `
  ^
  |
.---.
| a |
'---'
`,
		},
		{
			name: "left down connector",
			diagram: `
   .---.
.--| a |
|  '---'
|
v
`,
		},
		{
			name:    "dangling right arrow",
			diagram: "  >",
			wantErr: true,
			errMsg:  "Right arrow should have horizontal line",
		},
		{
			name:    "dangling left arrow",
			diagram: "<  ",
			wantErr: true,
			errMsg:  "Left arrow should have horizontal line",
		},
		{
			name: "up arrow on a dash",
			diagram: `
^
-
`,
			wantErr: true,
			errMsg:  "Up arrow should have vertical line",
		},
		{
			name:    "lone dash",
			diagram: "a - b",
			wantErr: true,
			errMsg:  "Horizontal line is not connected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validate(t, NewLineValidator(), tt.diagram, tt.wantErr, tt.errMsg)
		})
	}
}

func TestLineValidator_StrictMode(t *testing.T) {
	diagram := `
note
.---.
| a |
'---'
`

	// Normal mode should pass
	validate(t, NewLineValidator(), diagram, false, "")

	// Strict mode reports the stray text
	v := NewLineValidator()
	v.SetStrictMode(true)
	validate(t, v, diagram, true, "Text outside of a box")
}

func TestValidationError_String(t *testing.T) {
	e := ValidationError{X: 1, Y: 2, Char: '>', Context: "west= ", Message: "dangling"}
	if got, want := e.String(), "(1,2) '>' [west= ]: dangling"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
