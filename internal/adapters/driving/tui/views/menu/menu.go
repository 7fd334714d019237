// Package menu provides the start screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/messages"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
)

// Item is one entry on the start screen. Entries with Quit set end the
// program instead of switching view.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	Quit        bool
}

func defaultItems() []Item {
	return []Item{
		{Label: "Ask a question", Description: "Type a question about the API", View: messages.ViewConsole},
		{Label: "Example questions", Description: "Pick from common questions", View: messages.ViewExamples},
		{Label: "Documents", Description: "Browse the indexed pages", View: messages.ViewDocuments},
		{Label: "Help", Description: "Key bindings", View: messages.ViewHelp},
		{Label: "Quit", Quit: true},
	}
}

// View is the start screen.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the start screen.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, items: defaultItems(), width: 80, height: 24}
}

// Init implements the view contract; the menu has nothing to load.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and activates entries. Digits 1-9 activate the
// matching entry directly.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		k := msg.String()
		switch k {
		case "up", "k":
			v.selected = max(v.selected-1, 0)
		case "down", "j":
			v.selected = min(v.selected+1, len(v.items)-1)
		case "enter":
			return v, v.activate(v.selected)
		case "q":
			return v, tea.Quit
		default:
			if len(k) == 1 && k[0] >= '1' && int(k[0]-'1') < len(v.items) {
				v.selected = int(k[0] - '1')
				return v, v.activate(v.selected)
			}
		}
	}
	return v, nil
}

func (v *View) activate(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the title and the entries.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	lines := []string{
		v.styles.Title.Render("fsquery"),
		"",
		v.styles.Muted.Render("Answers from the Freshservice API documentation"),
		"",
	}
	for i, item := range v.items {
		label := fmt.Sprintf("%d. %s", i+1, item.Label)
		line := "  " + v.styles.Normal.Render(label)
		if i == v.selected {
			line = "> " + v.styles.Subtitle.Render(label)
		}
		if item.Description != "" && v.width >= 60 {
			line += "  " + v.styles.Muted.Render(item.Description)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", v.styles.Help.Render("[j/k] navigate  [1-5/enter] select  [q] quit"))

	return strings.Join(lines, "\n")
}

// SetDimensions records the terminal size and marks the view ready.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.selected
}
