package match

import (
	"strings"
	"unicode/utf8"

	"github.com/davosmed/fb2sqlite/internal/model"
	"github.com/davosmed/fb2sqlite/internal/normalize"
)

// AcceptThreshold is the minimum fraction of an item's total keyword weight
// that must be matched before the item counts as a valid match.
const AcceptThreshold = 0.40

// Best scores every reference item against the query text and returns the
// best acceptable match, or nil when nothing reaches the threshold.
//
// Keywords are tested by substring containment in the folded query rather
// than by tokenizing the query: the catalog vocabulary drives matching, and
// containment still hits German compounds ("Absauggeraete" contains the
// keyword "absauggeraet"). Candidates are ranked by score, then by matched
// keyword count, then by item position. Best is a pure function over its
// arguments and is safe to call concurrently against a shared index.
func Best(query string, items []model.Item, idx Index) *model.Item {
	q := strings.ToLower(normalize.Fold(query))
	if strings.TrimSpace(q) == "" {
		return nil
	}

	weights := make([]int, len(items))
	counts := make([]int, len(items))
	for kw, postings := range idx {
		if !strings.Contains(q, kw) {
			continue
		}
		for _, i := range postings {
			weights[i] += utf8.RuneCountInString(kw)
			counts[i]++
		}
	}

	best := -1
	bestScore := 0.0
	for i := range items {
		if counts[i] == 0 {
			continue
		}
		total := items[i].TotalKeywordWeight()
		if total == 0 {
			// Never selectable, not even at score zero.
			continue
		}
		score := float64(weights[i]) / float64(total)
		if score < AcceptThreshold {
			continue
		}
		if best == -1 || score > bestScore || (score == bestScore && counts[i] > counts[best]) {
			best = i
			bestScore = score
		}
	}
	if best == -1 {
		return nil
	}
	return &items[best]
}
