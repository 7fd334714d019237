// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
)

// MaxQuestionLength caps how much a user can type.
const MaxQuestionLength = 512

// QuestionInput wraps a bubbles textinput with the question prompt and
// shell-style history recall.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	history   *History
	width     int
}

// NewQuestionInput creates a new question input component.
func NewQuestionInput(s *styles.Styles, history *History) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if history == nil {
		history = NewHistory(DefaultHistorySize)
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about the Freshservice API..."
	ti.Focus()
	ti.CharLimit = MaxQuestionLength
	ti.Width = 60

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		history:   history,
		width:     60,
	}
}

// Init initialises the input.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input.
func (q *QuestionInput) View() string {
	label := q.styles.Title.Render("Ask: ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value and moves the cursor to the end.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
	q.textinput.CursorEnd()
}

// Focus sets focus on the input.
func (q *QuestionInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QuestionInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// Submit records the current question in the history and clears the input.
// It returns the question, or "" when the input is blank.
func (q *QuestionInput) Submit() string {
	question := q.history.Add(q.textinput.Value())
	if question == "" {
		return ""
	}
	q.textinput.Reset()
	return question
}

// RecallPrevious replaces the input with the next older question.
func (q *QuestionInput) RecallPrevious() {
	if question, ok := q.history.Older(); ok {
		q.SetValue(question)
	}
}

// RecallNext replaces the input with the next newer question, or clears it
// once past the newest.
func (q *QuestionInput) RecallNext() {
	question, _ := q.history.Newer()
	q.SetValue(question)
}

// History returns the question history.
func (q *QuestionInput) History() *History {
	return q.history
}

// SetWidth sets the width of the input.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	// label and border
	q.textinput.Width = max(width-12, 20)
}

// Width returns the current width.
func (q *QuestionInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
	q.history.ResetCursor()
}
