// Package console provides the question and answer view for the TUI.
package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/loader"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/components/input"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/components/list"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/components/markdown"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/components/meter"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/components/status"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/keymap"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/messages"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
)

const (
	// citationRows is the height reserved for the source list.
	citationRows = 7

	// chromeRows covers the title, header, input, meter, status bar and spacing.
	chromeRows = 14

	minAnswerRows = 3
)

// Services are the ports the console talks to. Only Query is required.
type Services struct {
	Query    driving.QueryService
	Status   driving.StatusService
	Document driving.DocumentService
}

// View is the console: a question input, the rendered answer with its
// sources and confidence, and the recent question history.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	spinner    spinner.Model
	answer     viewport.Model
	citations  *list.CitationList
	confidence *meter.Confidence
	header     *status.Header
	statusbar  *status.Bar
	markdown   *markdown.Renderer

	services  Services
	ctx       context.Context
	opts      domain.QueryOptions
	clipboard func(string) error

	pending  string
	thinking bool
	result   *domain.QueryResult
	err      error
	copyNext int

	width      int
	height     int
	ready      bool
	focusInput bool
}

// NewView creates a new console view.
func NewView(s *styles.Styles, km *keymap.KeyMap, services Services) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s, nil),
		spinner:    sp,
		answer:     viewport.New(80, minAnswerRows),
		citations:  list.NewCitationList(s),
		confidence: meter.NewConfidence(s, 20),
		header:     status.NewHeader(s),
		statusbar:  status.NewBar(s, km),
		markdown:   markdown.NewRenderer(""),
		services:   services,
		ctx:        context.Background(),
		clipboard:  clipboard.WriteAll,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context queries run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithOptions sets the options passed with every question.
func (v *View) WithOptions(opts domain.QueryOptions) *View {
	v.opts = opts
	return v
}

// WithClipboard replaces the system clipboard writer.
func (v *View) WithClipboard(write func(string) error) *View {
	v.clipboard = write
	return v
}

// Init starts the cursor blink and fetches the index status.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadStatus())
}

// Update handles messages for the console.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.QueryCompleted:
		v.handleQueryCompleted(msg)
		return v, nil

	case messages.StatusLoaded:
		v.header.SetStatus(msg.Status, msg.Err)
		return v, nil

	case messages.DocumentOpened:
		if msg.Err != nil {
			v.statusbar.SetMessage("Open: " + msg.Err.Error())
		} else {
			v.statusbar.SetMessage("Opened in browser")
		}
		return v, nil

	case messages.AnswerCopied:
		if msg.Err != nil {
			v.statusbar.SetMessage("Copy: " + msg.Err.Error())
		} else {
			v.statusbar.SetMessage("Copied " + msg.Label)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleAnswerKey(msg)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case msg.Type == tea.KeyEnter:
		if v.thinking {
			return v, nil
		}
		question := v.input.Submit()
		if question == "" {
			return v, nil
		}
		return v, v.start(question)
	case keymap.Matches(k, v.keymap.PrevQuestion):
		v.input.RecallPrevious()
		return v, nil
	case keymap.Matches(k, v.keymap.NextQuestion):
		v.input.RecallNext()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleAnswerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.NewQuestion):
		v.focusInput = true
		return v, v.input.Focus()
	case keymap.Matches(k, v.keymap.Up):
		v.citations.MoveUp()
	case keymap.Matches(k, v.keymap.Down):
		v.citations.MoveDown()
	case keymap.Matches(k, v.keymap.ScrollUp):
		v.answer.ScrollUp(max(v.answer.Height/2, 1))
	case keymap.Matches(k, v.keymap.ScrollDown):
		v.answer.ScrollDown(max(v.answer.Height/2, 1))
	case keymap.Matches(k, v.keymap.Open):
		return v, v.openCitation()
	case keymap.Matches(k, v.keymap.Copy):
		return v, v.copyCode()
	}
	return v, nil
}

// copyCode copies the answer's code blocks one per call, wrapping around.
// An answer without code is copied whole.
func (v *View) copyCode() tea.Cmd {
	if v.result == nil || v.clipboard == nil {
		return nil
	}
	content, label := v.result.Answer, "answer"
	if blocks := markdown.CodeBlocks(v.result.Answer); len(blocks) > 0 {
		i := v.copyNext % len(blocks)
		v.copyNext = i + 1
		content = blocks[i]
		label = fmt.Sprintf("code block %d/%d", i+1, len(blocks))
	}
	write := v.clipboard
	return func() tea.Msg {
		return messages.AnswerCopied{Label: label, Err: write(content)}
	}
}

// Ask submits question as if it had been typed.
func (v *View) Ask(question string) tea.Cmd {
	if v.thinking {
		return nil
	}
	v.input.SetValue(question)
	question = v.input.Submit()
	if question == "" {
		return nil
	}
	return v.start(question)
}

func (v *View) start(question string) tea.Cmd {
	v.pending = question
	v.thinking = true
	v.err = nil
	v.focusInput = false
	v.input.Blur()
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateThinking)
	return tea.Batch(v.spinner.Tick, v.performQuery(question))
}

func (v *View) performQuery(question string) tea.Cmd {
	svc, ctx, opts := v.services.Query, v.ctx, v.opts
	return func() tea.Msg {
		if svc == nil {
			return messages.QueryCompleted{Question: question, Err: ErrNoQueryService}
		}
		result, err := svc.Query(ctx, question, opts)
		return messages.QueryCompleted{Question: question, Result: result, Err: err}
	}
}

func (v *View) loadStatus() tea.Cmd {
	svc, ctx := v.services.Status, v.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		s, err := svc.Status(ctx)
		return messages.StatusLoaded{Status: s, Err: err}
	}
}

func (v *View) openCitation() tea.Cmd {
	c := v.citations.SelectedCitation()
	if c == nil || c.URL == "" {
		return nil
	}
	if v.services.Document == nil {
		v.statusbar.SetMessage("Open not available")
		return nil
	}
	svc, ctx := v.services.Document, v.ctx
	id := loader.DocumentID(c.URL)
	v.statusbar.SetMessage("Opening " + c.Title + "...")
	return func() tea.Msg {
		return messages.DocumentOpened{DocumentID: id, Err: svc.Open(ctx, id)}
	}
}

func (v *View) handleQueryCompleted(msg messages.QueryCompleted) {
	// A reply to a question that has since been replaced.
	if msg.Question != v.pending {
		return
	}
	v.thinking = false
	v.pending = ""

	if msg.Err == nil && msg.Result == nil {
		msg.Err = errEmptyResult
	}
	if msg.Err != nil {
		v.setError(msg.Err)
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.result = msg.Result
	v.copyNext = 0
	v.citations.SetCitations(msg.Result.Sources)
	v.answer.SetContent(v.renderAnswer())
	v.answer.GotoTop()

	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetSourceCount(len(msg.Result.Sources))
	if msg.Result.Degraded {
		v.statusbar.SetMessage("no generated answer")
	}
}

func (v *View) setError(err error) {
	v.thinking = false
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(domain.ErrorKind(err))
}

func (v *View) renderAnswer() string {
	if v.result == nil {
		return ""
	}
	text := v.markdown.Render(v.result.Answer, v.answer.Width-2)
	if v.result.Degraded {
		text += "\n\n" + v.styles.Warning.Render("No generated answer; showing the closest documentation excerpts.")
	}
	return text
}

// View renders the console.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("fsquery")+"  "+v.styles.Muted.Render("Freshservice API documentation"),
		v.header.View(),
		"",
		v.input.View(),
		"",
	)

	switch {
	case v.thinking:
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Searching the documentation..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render(fmt.Sprintf("Error: %s: %v", domain.ErrorKind(v.err), v.err)))
	case v.result != nil:
		sections = append(sections,
			v.styles.Answer.Render(v.answer.View()),
			"",
			v.confidence.View(v.result.Confidence),
			"",
			v.citations.View(),
		)
	default:
		sections = append(sections, v.renderHistory())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderHistory() string {
	entries := v.input.History().Entries()
	if len(entries) == 0 {
		return v.styles.Muted.Render("Try one of the example questions from the menu, or type your own.")
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, v.styles.Subtitle.Render("Recent questions"))
	for _, q := range entries {
		lines = append(lines, v.styles.Muted.Render("  "+list.Truncate(q, max(v.width-4, 20))))
	}
	lines = append(lines, v.styles.Help.Render("  ↑ to recall"))
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions and lays out the components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.citations.SetDimensions(width, citationRows)
	v.confidence.SetWidth(min(max(width/4, 10), 30))

	v.answer.Width = max(width-2, 20)
	v.answer.Height = max(height-chromeRows-citationRows, minAnswerRows)
	if v.result != nil {
		v.answer.SetContent(v.renderAnswer())
	}
}

// Reset returns the console to input mode, keeping the history.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Reset()
	v.input.Focus()
	v.result = nil
	v.err = nil
	v.citations.SetCitations(nil)
	v.statusbar.Clear()
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Result returns the last answer.
func (v *View) Result() *domain.QueryResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Thinking reports whether a question is being answered.
func (v *View) Thinking() bool {
	return v.thinking
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// History returns recent questions, newest first.
func (v *View) History() []string {
	return v.input.History().Entries()
}

// Question returns the text in the input.
func (v *View) Question() string {
	return v.input.Value()
}

// SelectedCitation returns the highlighted source of the current answer.
func (v *View) SelectedCitation() *domain.Citation {
	return v.citations.SelectedCitation()
}
