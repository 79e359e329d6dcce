package cvalue

import (
	"sort"

	"github.com/cognicore/termex/pkg/termex/span"
)

// Order returns the processing order the nested-statistics bookkeeping relies
// on: groups of descending token length, each sorted by descending frequency.
// Frequency ties keep first-seen order.
func Order(c *Counts, maxLen int) []span.Key {
	if maxLen <= 0 {
		maxLen = c.MaxLength()
	}

	byLen := make(map[int][]span.Key)
	for _, k := range c.order {
		byLen[c.length[k]] = append(byLen[c.length[k]], k)
	}

	ordered := make([]span.Key, 0, len(c.order))
	for length := maxLen; length > 0; length-- {
		group := byLen[length]
		sort.SliceStable(group, func(i, j int) bool {
			return c.freq[group[i]] > c.freq[group[j]]
		})
		ordered = append(ordered, group...)
	}
	return ordered
}
