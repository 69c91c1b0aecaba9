package model

import "unicode/utf8"

// Item is one entry of the MiGeL reference list: a position number, the
// primary-language description, an optional usage limitation, and the keyword
// set derived from the description, its ancestor categories and its
// translations.
type Item struct {
	PositionNr  string
	Bezeichnung string
	Limitation  string
	Keywords    []string
}

// TotalKeywordWeight sums the rune counts of all keywords. Longer keywords
// are more specific, so they weigh more during scoring. Rune counts keep the
// weight unit stable for keywords carrying non-ASCII letters. An item with
// zero total weight can never be selected as a match.
func (it *Item) TotalKeywordWeight() int {
	total := 0
	for _, k := range it.Keywords {
		total += utf8.RuneCountInString(k)
	}
	return total
}
