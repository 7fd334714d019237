package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
)

func TestNewQuestionInput(t *testing.T) {
	in := NewQuestionInput(styles.DefaultStyles(), nil)

	require.NotNil(t, in)
	assert.Empty(t, in.Value())
	assert.True(t, in.Focused())
	assert.NotNil(t, in.History())
}

func TestNewQuestionInput_NilStyles(t *testing.T) {
	in := NewQuestionInput(nil, nil)

	assert.NotNil(t, in.styles)
}

func TestQuestionInput_Init(t *testing.T) {
	assert.NotNil(t, NewQuestionInput(nil, nil).Init())
}

func TestQuestionInput_Typing(t *testing.T) {
	in := NewQuestionInput(nil, nil)

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("sla")})

	assert.Equal(t, "sla", in.Value())
}

func TestQuestionInput_View(t *testing.T) {
	in := NewQuestionInput(nil, nil)

	assert.Contains(t, in.View(), "Ask:")
}

func TestQuestionInput_Submit(t *testing.T) {
	in := NewQuestionInput(nil, nil)
	in.SetValue(" How do I list agents? ")

	question := in.Submit()

	assert.Equal(t, "How do I list agents?", question)
	assert.Empty(t, in.Value())
	assert.Equal(t, []string{"How do I list agents?"}, in.History().Entries())
}

func TestQuestionInput_SubmitBlank(t *testing.T) {
	in := NewQuestionInput(nil, nil)
	in.SetValue("   ")

	assert.Empty(t, in.Submit())
	assert.Equal(t, 0, in.History().Len())
}

func TestQuestionInput_Recall(t *testing.T) {
	in := NewQuestionInput(nil, nil)
	in.SetValue("first")
	in.Submit()
	in.SetValue("second")
	in.Submit()

	in.RecallPrevious()
	assert.Equal(t, "second", in.Value())
	in.RecallPrevious()
	assert.Equal(t, "first", in.Value())
	in.RecallPrevious()
	assert.Equal(t, "first", in.Value())

	in.RecallNext()
	assert.Equal(t, "second", in.Value())
	in.RecallNext()
	assert.Empty(t, in.Value())
}

func TestQuestionInput_SharedHistory(t *testing.T) {
	h := NewHistory(10)
	h.Add("earlier")

	in := NewQuestionInput(nil, h)
	in.RecallPrevious()

	assert.Equal(t, "earlier", in.Value())
}

func TestQuestionInput_SetWidth(t *testing.T) {
	in := NewQuestionInput(nil, nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 88, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestQuestionInput_BlurFocus(t *testing.T) {
	in := NewQuestionInput(nil, nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}
