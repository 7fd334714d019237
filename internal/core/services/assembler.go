package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// Ensure AssemblerService implements the interface.
var _ driving.Assembler = (*AssemblerService)(nil)

const (
	// gapScale is the top-two score gap at which separation stops adding confidence.
	gapScale = 0.2

	// degradedConfidenceCap bounds confidence when the answer is retrieval-only.
	degradedConfidenceCap = 0.5

	// degradedExcerpts and excerptRunes shape the retrieval-only answer.
	degradedExcerpts = 3
	excerptRunes     = 280
)

const builtinAnswerPrompt = `Answer the question using only the documentation excerpts below.
Cite excerpts by their [n] marker. If the excerpts do not contain the answer, say so.

Question: {{query}}

Excerpts:
{{context}}

Answer:`

// AssemblerService packs retrieved chunks into a prompt, asks the generator
// for an answer and attaches citations and a retrieval-derived confidence.
// Generation is optional: without an LLM, or when it fails, the answer is
// built from the top excerpts and marked degraded.
type AssemblerService struct {
	llm      driven.LLMService   // Optional
	prompts  driven.PromptStore  // Optional
	settings domain.AssemblySettings
	retry    RetryPolicy
}

// NewAssemblerService creates a new assembler. llm and prompts may be nil.
func NewAssemblerService(
	llm driven.LLMService,
	prompts driven.PromptStore,
	settings domain.AssemblySettings,
	retry RetryPolicy,
) *AssemblerService {
	return &AssemblerService{
		llm:      llm,
		prompts:  prompts,
		settings: settings,
		retry:    retry,
	}
}

// Assemble builds the answer for query from candidates, which must already
// be ordered by fused score descending.
func (a *AssemblerService) Assemble(
	ctx context.Context, query string, candidates []domain.Candidate,
) (*domain.QueryResult, error) {
	if len(candidates) == 0 {
		return &domain.QueryResult{
			Answer:     a.fallbackAnswer(),
			Sources:    []domain.Citation{},
			Confidence: 0,
			Query:      query,
		}, nil
	}

	confidence := Confidence(candidates)
	included, contextText := a.packContext(candidates)

	result := &domain.QueryResult{
		Sources:    Citations(included),
		Confidence: confidence,
		Query:      query,
	}

	if a.llm == nil {
		logger.Debug("no generator configured, answering from excerpts")
		a.degrade(result, included)
		return result, nil
	}

	prompt := a.renderPrompt(query, contextText)
	opts := driven.GenerateOptions{
		System:      a.loadPrompt(driven.PromptAnswerSystem, ""),
		MaxTokens:   a.settings.MaxAnswerTokens,
		Temperature: a.settings.Temperature,
	}

	answer, err := withRetry(ctx, a.retry, "generate answer", func(ctx context.Context) (string, error) {
		return a.llm.Generate(ctx, prompt, opts)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("generation failed, answering from excerpts: %v", fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err))
		a.degrade(result, included)
		return result, nil
	}

	result.Answer = strings.TrimSpace(answer)
	return result, nil
}

// Confidence derives answer confidence from retrieval scores alone:
// top * (0.6 + 0.4*g), where g = min(1, (top-second)/0.2) measures how clearly
// the best candidate stands out. A single candidate counts as fully separated.
// Candidates must be ordered by fused score descending.
func Confidence(candidates []domain.Candidate) float64 {
	if len(candidates) == 0 {
		return 0
	}
	top := candidates[0].Fused
	gap := 1.0
	if len(candidates) > 1 {
		gap = math.Min(1, math.Max(0, (top-candidates[1].Fused)/gapScale))
	}
	return clamp01(top * (0.6 + 0.4*gap))
}

// Citations returns one citation per document, scored by that document's best
// fused score, best first. Ties keep first-seen order.
func Citations(candidates []domain.Candidate) []domain.Citation {
	seen := make(map[string]int)
	citations := make([]domain.Citation, 0, len(candidates))
	for _, c := range candidates {
		if i, ok := seen[c.Chunk.DocumentID]; ok {
			if c.Fused > citations[i].RelevanceScore {
				citations[i].RelevanceScore = c.Fused
			}
			continue
		}
		seen[c.Chunk.DocumentID] = len(citations)
		citations = append(citations, domain.Citation{
			Title:          c.DocumentTitle,
			URL:            c.DocumentURL,
			RelevanceScore: c.Fused,
		})
	}
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].RelevanceScore > citations[j].RelevanceScore
	})
	return citations
}

// packContext concatenates numbered excerpts until the context token budget
// is spent. The first excerpt is always included, truncated if it alone
// exceeds the budget.
func (a *AssemblerService) packContext(candidates []domain.Candidate) ([]domain.Candidate, string) {
	budget := a.settings.ContextTokens
	var sb strings.Builder
	used := 0
	n := 0

	for i, c := range candidates {
		text := strings.TrimSpace(c.Chunk.Content)
		tokens := len(strings.Fields(text))
		if budget > 0 && used+tokens > budget {
			if i > 0 {
				break
			}
			text = truncateTokens(text, budget)
			tokens = budget
		}
		if n > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s (%s)\n%s", i+1, c.DocumentTitle, c.DocumentURL, text)
		used += tokens
		n++
	}
	return candidates[:n], sb.String()
}

func (a *AssemblerService) renderPrompt(query, contextText string) string {
	template := a.loadPrompt(driven.PromptAnswer, builtinAnswerPrompt)
	return strings.NewReplacer("{{query}}", query, "{{context}}", contextText).Replace(template)
}

func (a *AssemblerService) loadPrompt(name, fallback string) string {
	if a.prompts == nil {
		return fallback
	}
	text, err := a.prompts.Load(name)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("failed to load prompt %q: %v", name, err)
		}
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

// degrade fills result with the top excerpts in place of a generated answer.
func (a *AssemblerService) degrade(result *domain.QueryResult, included []domain.Candidate) {
	var sb strings.Builder
	sb.WriteString("I couldn't generate an answer right now. These documentation excerpts look most relevant:")
	for i, c := range included {
		if i == degradedExcerpts {
			break
		}
		fmt.Fprintf(&sb, "\n\n[%d] %s\n%s", i+1, c.DocumentTitle, excerpt(c.Chunk.Content, excerptRunes))
	}
	result.Answer = sb.String()
	result.Degraded = true
	result.Confidence = math.Min(result.Confidence, degradedConfidenceCap)
}

func (a *AssemblerService) fallbackAnswer() string {
	if a.settings.FallbackAnswer != "" {
		return a.settings.FallbackAnswer
	}
	return domain.DefaultFallbackAnswer
}

// excerpt shortens text to at most n runes, marking the cut with an ellipsis.
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}

func truncateTokens(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return text
	}
	return strings.Join(fields[:n], " ")
}
