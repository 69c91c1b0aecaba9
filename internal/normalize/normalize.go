// Package normalize folds accented catalog text to an ASCII-comparable form
// and derives keyword sets from free-text description fields.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// folding maps the accented characters found in the catalog languages to
// their ASCII transliterations. Umlauts become digraphs so that properly
// accented text and the all-caps transliterated form used by some suppliers
// converge on the same tokens.
var folding = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"É", "E", "È", "E", "Ê", "E", "Ë", "E",
	"à", "a", "â", "a", "À", "A", "Â", "A",
	"î", "i", "ï", "i", "Î", "I", "Ï", "I",
	"ô", "o", "Ô", "O",
	"ù", "u", "û", "u", "Ù", "U", "Û", "U",
	"ç", "c", "Ç", "C",
)

// Fold replaces accented characters with their unaccented transliteration.
// Case is preserved; callers lower-case the result themselves.
func Fold(s string) string {
	return folding.Replace(s)
}

// minKeywordLen drops tokens too short to carry discriminating power.
const minKeywordLen = 4

// ExtractKeywords tokenizes the first line of a description field into a
// deduplicated keyword set. Lines after the first are ancillary notes and
// take no part in matching. Tokens shorter than minKeywordLen and tokens in
// the multilingual stop-word table are discarded.
func ExtractKeywords(s string) []string {
	line, _, _ := strings.Cut(s, "\n")
	line = strings.ToLower(Fold(line))

	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minKeywordLen {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}
