// Package textutil provides the tokenization, similarity, decay,
// validation, and keyword-extraction primitives shared by the store,
// the retrieval engine, and the memory façade.
package textutil

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// Tokenize splits a string into lowercase alphanumeric word tokens.
// No stemming is performed.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// TokenSet returns the distinct tokens of text as a set.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
