// Package chunker splits documents into overlapping token-bounded chunks.
//
// A token is a maximal run of non-whitespace. Chunk boundaries always fall on
// a token start, so whitespace between tokens belongs to the earlier chunk.
// Boundaries are never placed inside a fenced code block unless the fence
// alone exceeds the budget, in which case the fence is kept whole.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultMaxTokens is the default token budget per chunk.
const DefaultMaxTokens = 256

// DefaultOverlap is the default number of tokens repeated from the previous chunk.
const DefaultOverlap = 32

// Processor splits document content into chunks. It is stateless and safe
// for concurrent use.
type Processor struct {
	maxTokens int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the token budget per chunk.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithOverlap sets the number of overlapping tokens between neighbours.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.maxTokens {
		p.overlap = p.maxTokens / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxTokens returns the configured token budget.
func (p *Processor) MaxTokens() int { return p.maxTokens }

// Overlap returns the configured overlap in tokens.
func (p *Processor) Overlap() int { return p.overlap }

type span struct{ start, end int }

// Chunk splits doc into ordered chunks. The result is a pure function of the
// document content, its ID and the processor configuration.
func (p *Processor) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil || strings.TrimSpace(doc.Content) == "" {
		id := ""
		if doc != nil {
			id = doc.ID
		}
		return nil, fmt.Errorf("%w: %q has no text", domain.ErrInvalidDocument, id)
	}

	content := doc.Content
	tokens := tokenize(content)
	fences := findFences(content)

	allowed := func(i int) bool {
		pos := tokens[i].start
		for _, f := range fences {
			if pos > f.start && pos < f.end {
				return false
			}
		}
		return true
	}

	// fenceAt returns the fence containing token i's start.
	fenceAt := func(i int) span {
		pos := tokens[i].start
		for _, f := range fences {
			if pos > f.start && pos < f.end {
				return f
			}
		}
		return span{}
	}

	// tokenIndex returns the first token starting at or after pos.
	tokenIndex := func(pos int) int {
		for i, t := range tokens {
			if t.start >= pos {
				return i
			}
		}
		return len(tokens)
	}

	n := len(tokens)
	var chunks []domain.Chunk
	prev := -1 // first token of the previous core
	for s := 0; s < n; {
		e := s + p.maxTokens
		if e >= n {
			e = n
		} else if !allowed(e) {
			f := fenceAt(e)
			if fa := tokenIndex(f.start); fa > s {
				e = fa
			} else {
				e = tokenIndex(f.end)
			}
		}

		o := s
		if prev >= 0 && p.overlap > 0 {
			o = max(s-p.overlap, prev)
			for o < s && !allowed(o) {
				o++
			}
		}

		start := tokens[o].start
		if len(chunks) == 0 {
			start = 0
		}
		coreStart := tokens[s].start
		if len(chunks) == 0 {
			coreStart = 0
		}
		end := len(content)
		if e < n {
			end = tokens[e].start
		}

		position := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(doc.ID, position),
			DocumentID: doc.ID,
			Position:   position,
			Start:      start,
			End:        end,
			Overlap:    coreStart - start,
			Content:    content[start:end],
			TokenCount: e - o,
		})

		prev = s
		s = e
	}

	return chunks, nil
}

// Reconstruct concatenates chunks with overlaps removed. For chunks produced
// by Chunk it returns the original document text.
func Reconstruct(chunks []domain.Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Content[c.Overlap:])
	}
	return b.String()
}

// CountTokens returns the number of whitespace-separated tokens in s.
func CountTokens(s string) int {
	return len(tokenize(s))
}

func tokenize(s string) []span {
	var tokens []span
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, span{start, len(s)})
	}
	return tokens
}

// findFences returns the byte spans of ``` and ~~~ fenced blocks, from the
// opening marker to the end of the closing marker. An unclosed fence runs to
// the end of the text.
func findFences(s string) []span {
	var fences []span
	open := -1
	marker := ""
	for lineStart := 0; lineStart < len(s); {
		lineEnd := strings.IndexByte(s[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(s)
		} else {
			lineEnd += lineStart
		}
		line := s[lineStart:lineEnd]
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)

		m := fenceMarker(trimmed)
		switch {
		case m != "" && open < 0:
			open = lineStart + indent
			marker = m
		case m == marker && open >= 0:
			closeEnd := lineStart + indent + len(strings.TrimRightFunc(trimmed, unicode.IsSpace))
			fences = append(fences, span{open, closeEnd})
			open = -1
			marker = ""
		}

		lineStart = lineEnd + 1
	}
	if open >= 0 {
		fences = append(fences, span{open, len(s)})
	}
	return fences
}

func fenceMarker(line string) string {
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, m) {
			return m
		}
	}
	return ""
}
