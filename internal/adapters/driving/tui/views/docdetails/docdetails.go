// Package docdetails provides the document details view for the TUI.
package docdetails

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/messages"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

const (
	timeLayout     = "2006-01-02 15:04:05"
	maxValueLength = 60
)

type lineKind int

const (
	lineField lineKind = iota
	lineHeading
	lineMeta
	lineBlank
)

type line struct {
	kind  lineKind
	label string
	value string
}

// View is the document details view.
type View struct {
	styles *styles.Styles

	document     *domain.Document
	chunks       int
	lines        []line
	scrollOffset int
	width        int
	height       int
	err          error
}

// NewView creates a new document details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetDetails sets the document and its chunk count.
func (v *View) SetDetails(doc *domain.Document, chunks int) {
	v.document = doc
	v.chunks = chunks
	v.scrollOffset = 0
	v.err = nil
	v.lines = buildLines(doc, chunks)
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.scrollOffset > 0 {
				v.scrollOffset--
			}
		case "down", "j":
			if v.scrollOffset < v.maxScrollOffset() {
				v.scrollOffset++
			}
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewDocuments}
			}
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func buildLines(doc *domain.Document, chunks int) []line {
	if doc == nil {
		return nil
	}

	lines := []line{
		{label: "ID", value: doc.ID},
		{label: "Title", value: doc.Title},
		{label: "URL", value: doc.URL},
		{label: "Chunks", value: strconv.Itoa(chunks)},
	}
	if t := formatTime(doc.UpdatedAt); t != "" {
		lines = append(lines, line{label: "Updated", value: t})
	}
	if t := formatTime(doc.IndexedAt); t != "" {
		lines = append(lines, line{label: "Indexed", value: t})
	}

	if len(doc.Metadata) > 0 {
		lines = append(lines, line{kind: lineBlank}, line{kind: lineHeading, label: "Metadata"})

		keys := make([]string, 0, len(doc.Metadata))
		for k := range doc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			lines = append(lines, line{
				kind:  lineMeta,
				label: k,
				value: truncate(fmt.Sprint(doc.Metadata[k]), maxValueLength),
			})
		}
	}

	return lines
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

func (v *View) renderLine(l line) string {
	switch l.kind {
	case lineHeading:
		return v.styles.Subtitle.Render(l.label + ":")
	case lineMeta:
		return v.styles.Muted.Render("  "+l.label+":") + v.styles.Normal.Render(" "+l.value)
	case lineBlank:
		return ""
	default:
		return v.styles.Subtitle.Render(fmt.Sprintf("%-9s", l.label+":")) + v.styles.Normal.Render(" "+l.value)
	}
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Document Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 1)))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.document == nil:
		b.WriteString(v.styles.Muted.Render("No document details available"))
	default:
		visible := v.visibleLines()
		end := min(v.scrollOffset+visible, len(v.lines))
		rendered := make([]string, 0, end-v.scrollOffset)
		for _, l := range v.lines[v.scrollOffset:end] {
			rendered = append(rendered, v.renderLine(l))
		}
		b.WriteString(strings.Join(rendered, "\n"))
		if len(v.lines) > visible {
			b.WriteString("\n\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
				v.scrollOffset+1, end, len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Chunks returns the chunk count shown.
func (v *View) Chunks() int {
	return v.chunks
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
