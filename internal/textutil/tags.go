package textutil

import "sort"

// MergeTags returns the sorted-ascending set union of every tag list
// supplied.
func MergeTags(tagLists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, tags := range tagLists {
		for _, t := range tags {
			if t == "" {
				continue
			}
			seen[t] = struct{}{}
		}
	}

	merged := make([]string, 0, len(seen))
	for t := range seen {
		merged = append(merged, t)
	}
	sort.Strings(merged)
	return merged
}
