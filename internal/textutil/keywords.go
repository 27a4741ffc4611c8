package textutil

import "sort"

// stopWords is a fixed set of ~50 common words dropped before keyword
// frequency counting.
var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "on": {}, "a": {}, "an": {},
	"as": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "should": {}, "could": {}, "may": {},
	"might": {}, "must": {}, "i": {}, "you": {}, "he": {}, "she": {},
	"it": {}, "we": {}, "they": {}, "them": {}, "their": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "and": {}, "or": {}, "but": {},
	"if": {}, "then": {}, "in": {}, "of": {}, "to": {}, "for": {}, "with": {},
	"from": {}, "by": {},
}

// ExtractKeywords tokenizes text, drops stop words and tokens of
// length <= 2, counts frequencies, and returns the top maxKeywords by
// descending count with ties broken by first occurrence.
func ExtractKeywords(text string, maxKeywords int) []string {
	if text == "" {
		return nil
	}

	tokens := Tokenize(text)

	type entry struct {
		word       string
		count      int
		firstIndex int
	}

	order := make([]string, 0, len(tokens))
	counts := make(map[string]*entry)
	for i, tok := range tokens {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if len(tok) <= 2 {
			continue
		}
		if e, ok := counts[tok]; ok {
			e.count++
			continue
		}
		counts[tok] = &entry{word: tok, count: 1, firstIndex: i}
		order = append(order, tok)
	}

	entries := make([]*entry, 0, len(order))
	for _, w := range order {
		entries = append(entries, counts[w])
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].firstIndex < entries[j].firstIndex
	})

	if maxKeywords > len(entries) {
		maxKeywords = len(entries)
	}
	if maxKeywords < 0 {
		maxKeywords = 0
	}

	result := make([]string, 0, maxKeywords)
	for _, e := range entries[:maxKeywords] {
		result = append(result, e.word)
	}
	return result
}
