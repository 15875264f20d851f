package terminal

import (
	"fmt"
	"strings"
)

// HelpCategory groups related preview keys.
type HelpCategory struct {
	Name     string
	Commands []HelpCommand
}

type HelpCommand struct {
	Key         string
	Description string
}

var helpCategories = []HelpCategory{
	{
		Name: "Navigation",
		Commands: []HelpCommand{
			{"arrows", "Scroll one line or column"},
			{"h/j/k/l", "Scroll left/down/up/right"},
			{"Ctrl+D/U", "Scroll down/up (half page)"},
			{"g/G", "Go to top/bottom"},
			{"Home", "Back to the top left corner"},
		},
	},
	{
		Name: "View",
		Commands: []HelpCommand{
			{"e", "Toggle expand mode"},
			{"E", "Edit source in external editor"},
			{"?", "Show this help"},
		},
	},
	{
		Name: "System",
		Commands: []HelpCommand{
			{"q/ESC", "Quit"},
			{"Ctrl+C", "Force quit"},
		},
	},
}

// HelpText returns the key reference drawn as a box.
func HelpText() string {
	const inner = 44
	rule := strings.Repeat("-", inner+2)

	var b strings.Builder
	b.WriteString("." + rule + ".\n")
	b.WriteString(fmt.Sprintf("| %-*s |\n", inner, "ASCIIBOX PREVIEW"))
	b.WriteString("+" + rule + "+\n")
	for i, cat := range helpCategories {
		b.WriteString(fmt.Sprintf("| %-*s |\n", inner, cat.Name+":"))
		for _, cmd := range cat.Commands {
			b.WriteString(fmt.Sprintf("|   %-9s %-*s |\n", cmd.Key, inner-12, cmd.Description))
		}
		if i < len(helpCategories)-1 {
			b.WriteString(fmt.Sprintf("| %-*s |\n", inner, ""))
		}
	}
	b.WriteString("'" + rule + "'\n")
	return b.String()
}

// CompactHelp returns the one-line key hint shown in the status line.
func CompactHelp() string {
	return "arrows/hjkl:scroll e:expand E:edit ?:help q:quit"
}
