// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// CitationList displays the sources behind an answer in a navigable list.
// Entries are numbered to match the [n] markers in the answer text.
type CitationList struct {
	citations []domain.Citation
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewCitationList creates a new citation list component.
func NewCitationList(s *styles.Styles) *CitationList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CitationList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (c *CitationList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *CitationList) Update(msg tea.Msg) (*CitationList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the list.
func (c *CitationList) View() string {
	if len(c.citations) == 0 {
		return c.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(c.citations)*2+2)
	lines = append(lines, c.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(c.citations))))

	// Each citation takes two lines.
	visible := max((c.height-1)/2, 1)
	start := 0
	if c.selected >= visible {
		start = c.selected - visible + 1
	}
	end := min(start+visible, len(c.citations))

	for i := start; i < end; i++ {
		lines = append(lines, c.renderCitation(i, &c.citations[i]))
	}

	return strings.Join(lines, "\n")
}

func (c *CitationList) renderCitation(index int, citation *domain.Citation) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	title := citation.Title
	if title == "" {
		title = "(Untitled)"
	}
	title = Truncate(title, max(c.width-16, 10))
	label := fmt.Sprintf("%s[%d] %s", indicator, index+1, title)
	score := Percent(citation.RelevanceScore)

	var titleLine string
	if index == c.selected {
		titleLine = c.styles.Selected.Render(label + "  " + score)
	} else {
		titleLine = c.styles.Normal.Render(label+"  ") + c.styles.Muted.Render(score)
	}

	url := citation.URL
	if url == "" {
		return titleLine + "\n"
	}
	return titleLine + "\n" + "      " + c.styles.Link.Render(Truncate(url, max(c.width-8, 20)))
}

// SetCitations replaces the list and selects the first entry.
func (c *CitationList) SetCitations(citations []domain.Citation) {
	c.citations = citations
	c.selected = 0
}

// Citations returns the current citations.
func (c *CitationList) Citations() []domain.Citation {
	return c.citations
}

// Selected returns the index of the selected citation.
func (c *CitationList) Selected() int {
	return c.selected
}

// SetSelected sets the selected index.
func (c *CitationList) SetSelected(index int) {
	if index >= 0 && index < len(c.citations) {
		c.selected = index
	}
}

// SelectedCitation returns the selected citation, or nil if the list is empty.
func (c *CitationList) SelectedCitation() *domain.Citation {
	if c.selected < 0 || c.selected >= len(c.citations) {
		return nil
	}
	return &c.citations[c.selected]
}

// MoveUp moves selection up.
func (c *CitationList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *CitationList) MoveDown() {
	if c.selected < len(c.citations)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *CitationList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of citations.
func (c *CitationList) Count() int {
	return len(c.citations)
}

// IsEmpty returns whether the list is empty.
func (c *CitationList) IsEmpty() bool {
	return len(c.citations) == 0
}

// Percent formats a score in [0,1] as a whole percentage.
func Percent(score float64) string {
	score = math.Max(0, math.Min(1, score))
	return fmt.Sprintf("%d%%", int(math.Round(score*100)))
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
