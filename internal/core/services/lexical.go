package services

import (
	"strings"
	"unicode"
)

// lexicalStopwords are dropped before measuring overlap; they match almost
// every chunk and would flatten the score.
var lexicalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"can": {}, "do": {}, "does": {}, "for": {}, "from": {}, "how": {}, "i": {}, "in": {},
	"is": {}, "it": {}, "me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "the": {},
	"this": {}, "to": {}, "what": {}, "when": {}, "where": {}, "which": {}, "with": {},
	"you": {}, "your": {},
}

// lexicalTokens returns the distinct lower-cased alphanumeric tokens of text,
// without stopwords.
func lexicalTokens(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if _, stop := lexicalStopwords[field]; stop {
			continue
		}
		tokens[field] = struct{}{}
	}
	return tokens
}

// lexicalScore is |query ∩ chunk| / |query|, in [0,1]. A query with no
// content tokens scores 0 against everything.
func lexicalScore(query map[string]struct{}, chunkText string) float64 {
	if len(query) == 0 {
		return 0
	}
	chunk := lexicalTokens(chunkText)
	hits := 0
	for tok := range query {
		if _, ok := chunk[tok]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

// Fuse combines vector similarity and lexical overlap:
// alpha*similarity + (1-alpha)*lexical.
func Fuse(alpha, similarity, lexical float64) float64 {
	return alpha*similarity + (1-alpha)*lexical
}
