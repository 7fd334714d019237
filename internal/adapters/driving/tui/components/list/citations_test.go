package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

func sampleCitations() []domain.Citation {
	return []domain.Citation{
		{Title: "Create a ticket", URL: "https://api.freshservice.com/#create_ticket", RelevanceScore: 0.91},
		{Title: "Update a ticket", URL: "https://api.freshservice.com/#update_ticket", RelevanceScore: 0.74},
		{Title: "Rate limits", URL: "https://api.freshservice.com/#rate_limit", RelevanceScore: 0.52},
	}
}

func TestNewCitationList(t *testing.T) {
	l := NewCitationList(styles.DefaultStyles())

	require.NotNil(t, l)
	assert.True(t, l.IsEmpty())
	assert.Equal(t, 0, l.Selected())
	assert.Nil(t, l.SelectedCitation())
	assert.Nil(t, l.Init())
}

func TestNewCitationList_NilStyles(t *testing.T) {
	l := NewCitationList(nil)

	assert.NotNil(t, l.styles)
}

func TestCitationList_SetCitationsResetsSelection(t *testing.T) {
	l := NewCitationList(nil)
	l.SetCitations(sampleCitations())
	l.SetSelected(2)

	l.SetCitations(sampleCitations()[:1])

	assert.Equal(t, 1, l.Count())
	assert.Equal(t, 0, l.Selected())
}

func TestCitationList_Navigation(t *testing.T) {
	l := NewCitationList(nil)
	l.SetCitations(sampleCitations())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, "Create a ticket", l.SelectedCitation().Title)
}

func TestCitationList_SetSelectedOutOfRange(t *testing.T) {
	l := NewCitationList(nil)
	l.SetCitations(sampleCitations())

	l.SetSelected(5)
	assert.Equal(t, 0, l.Selected())

	l.SetSelected(-1)
	assert.Equal(t, 0, l.Selected())
}

func TestCitationList_View(t *testing.T) {
	l := NewCitationList(nil)
	l.SetDimensions(100, 20)
	l.SetCitations(sampleCitations())

	view := l.View()

	assert.Contains(t, view, "Sources (3)")
	assert.Contains(t, view, "[1] Create a ticket")
	assert.Contains(t, view, "91%")
	assert.Contains(t, view, "https://api.freshservice.com/#rate_limit")
}

func TestCitationList_ViewEmpty(t *testing.T) {
	assert.Contains(t, NewCitationList(nil).View(), "No sources")
}

func TestCitationList_ViewScrollsToSelection(t *testing.T) {
	l := NewCitationList(nil)
	l.SetDimensions(100, 3)
	l.SetCitations(sampleCitations())
	l.SetSelected(2)

	view := l.View()

	assert.Contains(t, view, "Rate limits")
	assert.NotContains(t, view, "Create a ticket")
}

func TestCitationList_ViewUntitled(t *testing.T) {
	l := NewCitationList(nil)
	l.SetCitations([]domain.Citation{{RelevanceScore: 0.5}})

	assert.Contains(t, l.View(), "(Untitled)")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "79%", Percent(0.789))
	assert.Equal(t, "0%", Percent(-0.2))
	assert.Equal(t, "100%", Percent(1.7))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Create ...", Truncate("Create a ticket", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, 10, len([]rune(Truncate(strings.Repeat("é", 20), 10))))
}
