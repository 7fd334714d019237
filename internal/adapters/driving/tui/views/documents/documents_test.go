package documents

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/messages"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc   func(ctx context.Context) ([]domain.Document, error)
	GetFunc    func(ctx context.Context, documentID string) (*domain.Document, error)
	ChunksFunc func(ctx context.Context, documentID string) ([]domain.Chunk, error)
	OpenFunc   func(ctx context.Context, documentID string) error
}

func (m *MockDocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Document{}, nil
}

func (m *MockDocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, documentID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if m.ChunksFunc != nil {
		return m.ChunksFunc(ctx, documentID)
	}
	return nil, nil
}

func (m *MockDocumentService) Open(ctx context.Context, documentID string) error {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, documentID)
	}
	return nil
}

func testDocuments() []domain.Document {
	return []domain.Document{
		{ID: "doc-1", Title: "Create a Ticket", URL: "https://api.freshservice.com/#create_ticket"},
		{ID: "doc-2", Title: "Update a Ticket", URL: "https://api.freshservice.com/#update_ticket"},
		{ID: "doc-3", Title: "Authentication", URL: "https://api.freshservice.com/#authentication"},
	}
}

func loadedView(t *testing.T, svc *MockDocumentService) *View {
	t.Helper()
	view := NewView(styles.DefaultStyles(), svc)
	view, _ = view.Update(messages.DocumentsLoaded{Documents: testDocuments()})
	return view
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDocumentService{})

	require.NotNil(t, view)
	assert.Empty(t, view.Documents())
	assert.Equal(t, 0, view.SelectedIndex())
	assert.Nil(t, view.SelectedDocument())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_InitLoadsDocuments(t *testing.T) {
	svc := &MockDocumentService{
		ListFunc: func(_ context.Context) ([]domain.Document, error) {
			return testDocuments(), nil
		},
	}
	view := NewView(styles.DefaultStyles(), svc)

	cmd := view.Init()
	require.NotNil(t, cmd)
	assert.Contains(t, view.View(), "Loading documents...")

	msg, ok := cmd().(messages.DocumentsLoaded)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Len(t, msg.Documents, 3)

	view, _ = view.Update(msg)
	assert.Len(t, view.Documents(), 3)
	assert.NotContains(t, view.View(), "Loading documents...")
}

func TestView_InitWithoutService(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	msg, ok := view.Init()().(messages.DocumentsLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, ErrNoDocumentService)
}

func TestView_LoadError(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDocumentService{})

	view, _ = view.Update(messages.DocumentsLoaded{Err: errors.New("store closed")})

	assert.Error(t, view.Err())
	assert.Contains(t, view.View(), "Error: store closed")
}

func TestView_EmptyCorpus(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDocumentService{})

	view, _ = view.Update(messages.DocumentsLoaded{Documents: nil})

	assert.Contains(t, view.View(), "Nothing indexed yet")
}

func TestView_Navigation(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})

	view, _ = view.Update(key("down"))
	assert.Equal(t, 1, view.SelectedIndex())

	view, _ = view.Update(key("j"))
	assert.Equal(t, 2, view.SelectedIndex())

	// Clamped at the end.
	view, _ = view.Update(key("j"))
	assert.Equal(t, 2, view.SelectedIndex())

	view, _ = view.Update(key("k"))
	view, _ = view.Update(key("up"))
	assert.Equal(t, 0, view.SelectedIndex())

	view, _ = view.Update(key("up"))
	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_ReloadClampsSelection(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})
	view, _ = view.Update(key("down"))
	view, _ = view.Update(key("down"))

	view, _ = view.Update(messages.DocumentsLoaded{Documents: testDocuments()[:1]})

	assert.Equal(t, 0, view.SelectedIndex())
	assert.Equal(t, "doc-1", view.SelectedDocument().ID)
}

func TestView_ReloadKey(t *testing.T) {
	calls := 0
	svc := &MockDocumentService{
		ListFunc: func(_ context.Context) ([]domain.Document, error) {
			calls++
			return testDocuments(), nil
		},
	}
	view := loadedView(t, svc)

	_, cmd := view.Update(key("r"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 1, calls)
}

func TestView_EscReturnsToMenu(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})

	_, cmd := view.Update(key("esc"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, msg.View)
}

func TestView_EnterShowsActionMenu(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})

	view, _ = view.Update(key("enter"))

	assert.True(t, view.IsShowingMenu())
	out := view.View()
	assert.Contains(t, out, "Actions for: Create a Ticket")
	assert.Contains(t, out, "Show Content")
	assert.Contains(t, out, "Show Details")
	assert.Contains(t, out, "Open in Browser")
	assert.Contains(t, out, "Cancel")
}

func TestView_EnterWithoutDocuments(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDocumentService{})
	view, _ = view.Update(messages.DocumentsLoaded{})

	view, _ = view.Update(key("enter"))

	assert.False(t, view.IsShowingMenu())
}

func TestView_MenuEscCloses(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})
	view, _ = view.Update(key("enter"))

	view, cmd := view.Update(key("esc"))

	assert.False(t, view.IsShowingMenu())
	assert.Nil(t, cmd)
}

func TestView_ShowContent(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})
	view, _ = view.Update(key("down"))
	view, _ = view.Update(key("enter"))

	view, cmd := view.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.False(t, view.IsShowingMenu())

	msg, ok := cmd().(messages.DocumentSelected)
	require.True(t, ok)
	assert.Equal(t, "doc-2", msg.Document.ID)
}

func TestView_ShowDetails(t *testing.T) {
	svc := &MockDocumentService{
		GetFunc: func(_ context.Context, id string) (*domain.Document, error) {
			return &domain.Document{ID: id, Title: "Create a Ticket"}, nil
		},
		ChunksFunc: func(_ context.Context, _ string) ([]domain.Chunk, error) {
			return make([]domain.Chunk, 4), nil
		},
	}
	view := loadedView(t, svc)
	view, _ = view.Update(key("enter"))
	view, _ = view.Update(key("down"))

	_, cmd := view.Update(key("enter"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.DocumentDetailsLoaded)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "doc-1", msg.Document.ID)
	assert.Equal(t, 4, msg.Chunks)
}

func TestView_ShowDetailsError(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})
	view, _ = view.Update(key("enter"))
	view, _ = view.Update(key("down"))

	_, cmd := view.Update(key("enter"))
	msg, ok := cmd().(messages.DocumentDetailsLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, domain.ErrNotFound)
}

func TestView_OpenDocument(t *testing.T) {
	var opened string
	svc := &MockDocumentService{
		OpenFunc: func(_ context.Context, id string) error {
			opened = id
			return nil
		},
	}
	view := loadedView(t, svc)
	view, _ = view.Update(key("down"))
	view, _ = view.Update(key("down"))
	view, _ = view.Update(key("enter"))
	view, _ = view.Update(key("down"))
	view, _ = view.Update(key("down"))

	view, cmd := view.Update(key("enter"))
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.DocumentOpened)
	require.True(t, ok)
	assert.Equal(t, "doc-3", opened)
	assert.Equal(t, "doc-3", msg.DocumentID)

	view, _ = view.Update(msg)
	assert.Contains(t, view.View(), "Opened in browser")
}

func TestView_OpenDocumentError(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})

	view, _ = view.Update(messages.DocumentOpened{DocumentID: "doc-1", Err: errors.New("no browser")})

	assert.Contains(t, view.View(), "Open: no browser")
}

func TestView_CancelAction(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})
	view, _ = view.Update(key("enter"))
	for range 3 {
		view, _ = view.Update(key("down"))
	}
	// Clamped at Cancel.
	view, _ = view.Update(key("down"))

	view, cmd := view.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.False(t, view.IsShowingMenu())
}

func TestView_RendersTitlesAndURLs(t *testing.T) {
	view := loadedView(t, &MockDocumentService{})
	view.SetDimensions(160, 40)

	out := view.View()
	assert.Contains(t, out, "Indexed documents (3)")
	assert.Contains(t, out, "Create a Ticket")
	assert.Contains(t, out, "https://api.freshservice.com/#authentication")
}

func TestView_ScrollIndicator(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &MockDocumentService{})
	view.SetDimensions(120, 10)
	docs := make([]domain.Document, 10)
	for i := range docs {
		docs[i] = domain.Document{ID: string(rune('a' + i)), Title: "Doc"}
	}
	view, _ = view.Update(messages.DocumentsLoaded{Documents: docs})

	assert.Contains(t, view.View(), "[1-2 of 10]")

	for range 5 {
		view, _ = view.Update(key("down"))
	}
	assert.Contains(t, view.View(), "[5-6 of 10]")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestActionOption_String(t *testing.T) {
	assert.Equal(t, "Show Content", ActionShowContent.String())
	assert.Equal(t, "Show Details", ActionShowDetails.String())
	assert.Equal(t, "Open in Browser", ActionOpenDocument.String())
	assert.Equal(t, "Cancel", ActionCancel.String())
}

func TestTruncateLeft_KeepsTail(t *testing.T) {
	assert.Equal(t, "short", truncateLeft("short", 10))
	assert.Equal(t, "...efghij", truncateLeft("abcdefghij", 9))
}
