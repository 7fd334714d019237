package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for _, c := range []lipgloss.Color{
		theme.Primary, theme.Secondary, theme.Background, theme.Foreground,
		theme.Muted, theme.Success, theme.Warning, theme.Error, theme.Border,
	} {
		assert.NotEmpty(t, string(c))
	}
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate accent %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	s := NewStyles(theme)

	require.NotNil(t, s)
	assert.Same(t, theme, s.Theme())
	assert.True(t, s.Title.GetBold())
	assert.True(t, s.Link.GetUnderline())
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, DefaultTheme().Primary, s.Theme().Primary)
}

func TestStyles_Confidence(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	tests := []struct {
		score float64
		want  lipgloss.TerminalColor
	}{
		{0.95, theme.Success},
		{0.7, theme.Success},
		{0.55, theme.Warning},
		{0.4, theme.Warning},
		{0.1, theme.Error},
		{0, theme.Error},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Confidence(tt.score).GetForeground(), "score %v", tt.score)
	}
}
