// Package examples lists suggested questions grouped by category.
package examples

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/messages"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// View is the example question picker.
type View struct {
	styles   *styles.Styles
	examples []domain.ExampleQuery
	selected int
	width    int
	height   int
}

// NewView creates the picker over examples. Nil means the built-in list.
func NewView(s *styles.Styles, examples []domain.ExampleQuery) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if examples == nil {
		examples = domain.ExampleQueries()
	}
	return &View{styles: s, examples: examples, width: 80, height: 24}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.examples)-1 {
				v.selected++
			}
		case "enter":
			if len(v.examples) == 0 {
				return v, nil
			}
			text := v.examples[v.selected].Text
			return v, func() tea.Msg {
				return messages.QuestionAsked{Text: text}
			}
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
	}
	return v, nil
}

// View renders the examples under their category headings.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Example questions"))
	b.WriteString("\n")

	category := ""
	for i, ex := range v.examples {
		if ex.Category != category {
			category = ex.Category
			b.WriteString("\n")
			b.WriteString(v.styles.Subtitle.Render(category))
			b.WriteString("\n")
		}
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + ex.Text))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + ex.Text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] ask  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the highlighted index.
func (v *View) Selected() int {
	return v.selected
}

// SelectedExample returns the highlighted example.
func (v *View) SelectedExample() *domain.ExampleQuery {
	if v.selected < 0 || v.selected >= len(v.examples) {
		return nil
	}
	return &v.examples[v.selected]
}
