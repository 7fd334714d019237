// Package documents provides the indexed documents list view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/keymap"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/messages"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// ActionOption represents a document action.
type ActionOption int

const (
	ActionShowContent ActionOption = iota
	ActionShowDetails
	ActionOpenDocument
	ActionCancel
)

func (a ActionOption) String() string {
	switch a {
	case ActionShowContent:
		return "Show Content"
	case ActionShowDetails:
		return "Show Details"
	case ActionOpenDocument:
		return "Open in Browser"
	default:
		return "Cancel"
	}
}

// View is the documents list view.
type View struct {
	styles          *styles.Styles
	keys            *keymap.KeyMap
	documentService driving.DocumentService
	ctx             context.Context

	documents    []domain.Document
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	notice       string
	showingMenu  bool
	menuSelected ActionOption
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		keys:            keymap.DefaultKeyMap(),
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.showingMenu = false
	v.notice = ""
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	svc, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := svc.List(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingMenu {
			return v.handleMenuKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		v.err = nil
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.DocumentOpened:
		if msg.Err != nil {
			v.notice = "Open: " + msg.Err.Error()
		} else {
			v.notice = "Opened in browser"
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Up) && v.selected > 0:
		v.selected--
		v.adjustScroll()
	case keymap.Matches(k, v.keys.Down) && v.selected < len(v.documents)-1:
		v.selected++
		v.adjustScroll()
	case keymap.Matches(k, v.keys.Select) && len(v.documents) > 0:
		v.showingMenu = true
		v.menuSelected = ActionShowContent
	case keymap.Matches(k, v.keys.Reload):
		return v, v.Init()
	case keymap.Matches(k, v.keys.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Up):
		v.menuSelected = max(v.menuSelected-1, ActionShowContent)
	case keymap.Matches(k, v.keys.Down):
		v.menuSelected = min(v.menuSelected+1, ActionCancel)
	case keymap.Matches(k, v.keys.Select):
		v.showingMenu = false
		if doc := v.SelectedDocument(); doc != nil {
			return v, v.runAction(v.menuSelected, *doc)
		}
	case keymap.Matches(k, v.keys.Back):
		v.showingMenu = false
	}
	return v, nil
}

// runAction returns the command for a menu action on doc; Cancel has none.
func (v *View) runAction(action ActionOption, doc domain.Document) tea.Cmd {
	switch action {
	case ActionShowContent:
		return func() tea.Msg { return messages.DocumentSelected{Document: doc} }
	case ActionShowDetails:
		return v.loadDocDetails(doc.ID)
	case ActionOpenDocument:
		return v.openDocument(doc.ID)
	default:
		return nil
	}
}

func (v *View) loadDocDetails(docID string) tea.Cmd {
	svc, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDetailsLoaded{Err: ErrNoDocumentService}
		}
		doc, err := svc.Get(ctx, docID)
		if err != nil {
			return messages.DocumentDetailsLoaded{Err: err}
		}
		chunks, err := svc.Chunks(ctx, docID)
		if err != nil {
			return messages.DocumentDetailsLoaded{Document: doc, Err: err}
		}
		return messages.DocumentDetailsLoaded{Document: doc, Chunks: len(chunks)}
	}
}

func (v *View) openDocument(docID string) tea.Cmd {
	svc, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentOpened{DocumentID: docID, Err: ErrNoDocumentService}
		}
		return messages.DocumentOpened{DocumentID: docID, Err: svc.Open(ctx, docID)}
	}
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, notice, scroll indicator and help
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Indexed documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("Nothing indexed yet. Run 'fsquery ingest <docs dir>'."))
	case v.showingMenu:
		b.WriteString(v.renderActionMenu())
		return b.String()
	default:
		b.WriteString(v.renderList())
	}

	if v.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render(v.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderList() string {
	visible := v.visibleItemCount()
	end := min(v.scrollOffset+visible, len(v.documents))

	lines := make([]string, 0, end-v.scrollOffset+2)
	for i := v.scrollOffset; i < end; i++ {
		lines = append(lines, v.renderDocument(i, &v.documents[i]))
	}
	if len(v.documents) > visible {
		lines = append(lines, "", v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, end, len(v.documents))))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	column := max(v.width/2-4, 10)
	title := truncate(displayTitle(doc), column)
	url := truncateLeft(doc.URL, column)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, column, title, url))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, column, title)) +
		v.styles.Muted.Render(url)
}

func (v *View) renderActionMenu() string {
	var b strings.Builder

	if doc := v.SelectedDocument(); doc != nil {
		b.WriteString(v.styles.Subtitle.Render("Actions for: " + displayTitle(doc)))
		b.WriteString("\n\n")
	}

	for a := ActionShowContent; a <= ActionCancel; a++ {
		if a == v.menuSelected {
			b.WriteString(v.styles.Selected.Render("> " + a.String()))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + a.String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
	return b.String()
}

func displayTitle(doc *domain.Document) string {
	if doc.Title == "" {
		return doc.ID
	}
	return doc.Title
}

// truncateLeft keeps the tail of s, where URLs differ.
func truncateLeft(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "..." + string(r[len(r)-n+3:])
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.adjustScroll()
}

// Documents returns the loaded documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the selected document, or nil.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < 0 || v.selected >= len(v.documents) {
		return nil
	}
	return &v.documents[v.selected]
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
