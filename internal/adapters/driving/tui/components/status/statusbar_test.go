package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/keymap"
	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 0, bar.SourceCount())
	assert.Nil(t, bar.Init())
}

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		sources int
		want    []string
	}{
		{"ready", StateReady, "", 0, []string{"Ready", "enter: ask"}},
		{"ready with message", StateReady, "Opening document...", 0, []string{"Opening document..."}},
		{"thinking", StateThinking, "", 0, []string{"Thinking..."}},
		{"error", StateError, "query_timeout", 0, []string{"Error: query_timeout"}},
		{"error without message", StateError, "", 0, []string{"Error"}},
		{"answered", StateAnswered, "", 3, []string{"3 sources", "n: new question", "o: open source", "c: copy code"}},
		{"answered one", StateAnswered, "", 1, []string{"1 source"}},
		{"answered with message", StateAnswered, "degraded", 2, []string{"2 sources · degraded"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetSourceCount(tt.sources)

			view := bar.View()
			for _, want := range tt.want {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateAnswered)
	bar.SetMessage("hello")
	bar.SetSourceCount(4)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 0, bar.SourceCount())
}

func TestBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}
