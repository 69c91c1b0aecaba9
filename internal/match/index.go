// Package match scores catalog rows against the reference list by weighted
// keyword overlap.
package match

import "github.com/davosmed/fb2sqlite/internal/model"

// Index maps each keyword to the positions of the items whose keyword set
// contains it. It is built once per run and read concurrently by the matcher
// workers without synchronization; nothing writes to it after BuildIndex
// returns. Weighting happens at match time from keyword length, never here.
type Index map[string][]int

// BuildIndex builds the inverted keyword index in a single linear pass.
func BuildIndex(items []model.Item) Index {
	idx := make(Index)
	for i := range items {
		for _, kw := range items[i].Keywords {
			idx[kw] = append(idx[kw], i)
		}
	}
	return idx
}
