package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/keymap"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/messages"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/views/console"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/views/doccontent"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/views/docdetails"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/views/documents"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/views/examples"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/views/menu"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView       *menu.View
	consoleView    *console.View
	examplesView   *examples.View
	documentsView  *documents.View
	docContentView *doccontent.View
	docDetailsView *docdetails.View

	// selectedDocument is the document whose content or details are shown.
	selectedDocument *domain.Document

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,

		menuView: menu.NewView(s),
		consoleView: console.NewView(s, km, console.Services{
			Query:    ports.Query,
			Status:   ports.Status,
			Document: ports.Document,
		}),
		examplesView:   examples.NewView(s, nil),
		documentsView:  documents.NewView(s, ports.Document),
		docContentView: doccontent.NewView(s, ports.Document),
		docDetailsView: docdetails.NewView(s),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context service calls run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.consoleView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("fsquery")
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewConsole:
			return a, a.consoleView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewMenu, messages.ViewExamples, messages.ViewHelp,
			messages.ViewDocContent, messages.ViewDocDetails:
		}
		return a, nil

	case messages.QuestionAsked:
		a.currentView = messages.ViewConsole
		return a, tea.Batch(a.consoleView.Init(), a.consoleView.Ask(msg.Text))

	case messages.QueryCompleted, messages.StatusLoaded, spinner.TickMsg:
		a.consoleView, cmd = a.consoleView.Update(msg)
		return a, cmd

	case messages.DocumentOpened:
		if a.currentView == messages.ViewDocuments {
			a.documentsView, cmd = a.documentsView.Update(msg)
		} else {
			a.consoleView, cmd = a.consoleView.Update(msg)
		}
		return a, cmd

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		doc := msg.Document
		a.selectedDocument = &doc
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(&doc)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.DocumentDetailsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.docDetailsView.SetError(msg.Err)
		} else {
			a.err = nil
			a.selectedDocument = msg.Document
			a.docDetailsView.SetDetails(msg.Document, msg.Chunks)
		}
		a.currentView = messages.ViewDocDetails
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.updateCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewConsole:
		a.consoleView, cmd = a.consoleView.Update(msg)
	case messages.ViewExamples:
		a.examplesView, cmd = a.examplesView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyEsc || k.String() == "q") {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewConsole:
		return a.consoleView.View()
	case messages.ViewExamples:
		return a.examplesView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the key bindings grouped as in the full help.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	groups := []string{"Console", "Answer", "Scrolling", "General"}
	for i, group := range a.keymap.FullHelp() {
		if i < len(groups) {
			b.WriteString(a.styles.Subtitle.Render(groups[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Console returns the console view.
func (a *App) Console() *console.View {
	return a.consoleView
}

// SelectedDocument returns the document being viewed, if any.
func (a *App) SelectedDocument() *domain.Document {
	return a.selectedDocument
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.consoleView.SetDimensions(width, height)
	a.examplesView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
	a.docDetailsView.SetDimensions(width, height)
}
