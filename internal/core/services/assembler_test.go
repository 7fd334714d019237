package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

func newTestAssembler(llm driven.LLMService) *AssemblerService {
	return NewAssemblerService(llm, nil, domain.DefaultAppSettings().Assembly, fastRetry())
}

func TestAssemblerService_Assemble_NoCandidates(t *testing.T) {
	llm := &mockLLMService{}
	assembler := newTestAssembler(llm)

	result, err := assembler.Assemble(context.Background(), "How do I fly?", nil)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFallbackAnswer, result.Answer)
	assert.NotNil(t, result.Sources)
	assert.Empty(t, result.Sources)
	assert.Zero(t, result.Confidence)
	assert.Equal(t, "How do I fly?", result.Query)
	assert.False(t, result.Degraded)
	assert.Zero(t, llm.calls.Load(), "nothing to ground an answer on")
}

func TestAssemblerService_Assemble_GeneratesAnswer(t *testing.T) {
	llm := &mockLLMService{
		generate: func(context.Context, string) (string, error) { return "  Send a POST request. [1]\n", nil },
	}
	assembler := NewAssemblerService(llm, &mockPromptStore{prompts: map[string]string{
		driven.PromptAnswer:       "Q={{query}}\nC={{context}}",
		driven.PromptAnswerSystem: "be brief",
	}}, domain.DefaultAppSettings().Assembly, fastRetry())
	candidates := []domain.Candidate{
		candidate("tickets", 0, 0.8, "POST /api/v2/tickets creates a ticket."),
		candidate("auth", 0, 0.5, "Use basic auth."),
	}

	result, err := assembler.Assemble(context.Background(), "create ticket", candidates)

	require.NoError(t, err)
	assert.Equal(t, "Send a POST request. [1]", result.Answer)
	assert.False(t, result.Degraded)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "Title tickets", result.Sources[0].Title)
	assert.Equal(t, "https://docs.example.com/tickets", result.Sources[0].URL)

	prompt := llm.prompt()
	assert.True(t, strings.HasPrefix(prompt, "Q=create ticket\nC=[1] Title tickets (https://docs.example.com/tickets)\n"))
	assert.Contains(t, prompt, "[2] Title auth")
	assert.Equal(t, "be brief", llm.lastOpts.System)
	assert.Equal(t, 512, llm.lastOpts.MaxTokens)
}

func TestAssemblerService_Assemble_BuiltinPrompt(t *testing.T) {
	llm := &mockLLMService{}
	assembler := newTestAssembler(llm)

	_, err := assembler.Assemble(context.Background(), "rate limits", []domain.Candidate{
		candidate("auth", 0, 0.7, "Rate limits apply per minute."),
	})

	require.NoError(t, err)
	prompt := llm.prompt()
	assert.Contains(t, prompt, "Question: rate limits")
	assert.Contains(t, prompt, "[1] Title auth")
	assert.NotContains(t, prompt, "{{")
}

func TestAssemblerService_Assemble_GenerationFailureDegrades(t *testing.T) {
	llm := &mockLLMService{err: fmt.Errorf("%w: 503", domain.ErrProviderError)}
	assembler := newTestAssembler(llm)
	long := strings.Repeat("word ", 100)
	candidates := []domain.Candidate{
		candidate("a", 0, 0.95, long),
		candidate("b", 0, 0.6, "second excerpt"),
		candidate("c", 0, 0.55, "third excerpt"),
	}

	result, err := assembler.Assemble(context.Background(), "query", candidates)

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.LessOrEqual(t, result.Confidence, 0.5)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Contains(t, result.Answer, "[1] Title a")
	assert.Contains(t, result.Answer, "[2] Title b\nsecond excerpt")
	assert.Contains(t, result.Answer, "[3] Title c\nthird excerpt")
	assert.Contains(t, result.Answer, "…")
	assert.Len(t, result.Sources, 3)
	assert.Equal(t, int32(3), llm.calls.Load(), "generation is retried before degrading")
}

func TestAssemblerService_Assemble_NoGeneratorDegrades(t *testing.T) {
	assembler := newTestAssembler(nil)

	result, err := assembler.Assemble(context.Background(), "query", []domain.Candidate{
		candidate("a", 0, 0.3, "only excerpt"),
	})

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.InDelta(t, 0.3, result.Confidence, 1e-9, "below the cap the score is unchanged")
	assert.Contains(t, result.Answer, "only excerpt")
}

func TestAssemblerService_Assemble_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llm := &mockLLMService{
		generate: func(ctx context.Context, _ string) (string, error) {
			cancel()
			return "", ctx.Err()
		},
	}
	assembler := newTestAssembler(llm)

	_, err := assembler.Assemble(ctx, "query", []domain.Candidate{candidate("a", 0, 0.9, "text")})

	require.ErrorIs(t, err, context.Canceled)
}

func TestAssemblerService_PackContext_Budget(t *testing.T) {
	settings := domain.DefaultAppSettings().Assembly
	settings.ContextTokens = 5
	assembler := NewAssemblerService(nil, nil, settings, fastRetry())

	t.Run("first block is truncated to fit", func(t *testing.T) {
		included, text := assembler.packContext([]domain.Candidate{
			candidate("a", 0, 0.9, "one two three four five six seven"),
			candidate("b", 0, 0.8, "eight"),
		})
		require.Len(t, included, 1)
		assert.True(t, strings.HasSuffix(text, "\none two three four five"))
	})

	t.Run("blocks stop at the budget", func(t *testing.T) {
		included, text := assembler.packContext([]domain.Candidate{
			candidate("a", 0, 0.9, "one two"),
			candidate("b", 0, 0.8, "three four"),
			candidate("c", 0, 0.7, "five six"),
		})
		require.Len(t, included, 2)
		assert.Contains(t, text, "[2] Title b")
		assert.NotContains(t, text, "[3]")
	})
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"no candidates", nil, 0},
		{"single candidate", []float64{0.7}, 0.7},
		{"clear winner", []float64{0.9, 0.6}, 0.9},
		{"tied top two", []float64{0.8, 0.8}, 0.48},
		{"half gap", []float64{0.8, 0.7}, 0.8 * 0.8},
		{"zero score", []float64{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := make([]domain.Candidate, len(tt.scores))
			for i, s := range tt.scores {
				candidates[i] = candidate(fmt.Sprintf("d%d", i), 0, s, "")
			}
			got := Confidence(candidates)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestConfidence_MonotonicInTopScore(t *testing.T) {
	prev := -1.0
	for top := 0.5; top <= 1.0; top += 0.05 {
		c := Confidence([]domain.Candidate{candidate("a", 0, top, ""), candidate("b", 0, 0.5, "")})
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
}

func TestCitations(t *testing.T) {
	candidates := []domain.Candidate{
		candidate("a", 0, 0.7, ""),
		candidate("b", 0, 0.9, ""),
		candidate("a", 1, 0.95, ""),
		candidate("c", 0, 0.2, ""),
	}

	citations := Citations(candidates)

	require.Len(t, citations, 3)
	assert.Equal(t, "Title a", citations[0].Title)
	assert.InDelta(t, 0.95, citations[0].RelevanceScore, 1e-9)
	assert.Equal(t, "Title b", citations[1].Title)
	assert.Equal(t, "Title c", citations[2].Title)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", excerpt("short\n\ntext", 280))
	assert.Equal(t, "abcde…", excerpt("abcdefgh", 5))
	assert.Equal(t, "héllo", excerpt("héllo", 5))
}
