package textutil

// JaccardSimilarity computes the Jaccard similarity of the token sets
// of a and b: |T(a) ∩ T(b)| / |T(a) ∪ T(b)|. Either side empty (no
// tokens) returns 0.0.
func JaccardSimilarity(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
