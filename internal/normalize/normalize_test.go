package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "german umlauts become digraphs",
			in:   "Absauggeräte für Sekret",
			want: "Absauggeraete fuer Sekret",
		},
		{
			name: "eszett becomes double s",
			in:   "Fußheber",
			want: "Fussheber",
		},
		{
			name: "french accents",
			in:   "appareil d'aspiration des sécrétions",
			want: "appareil d'aspiration des secretions",
		},
		{
			name: "cedilla",
			in:   "maçon Ça",
			want: "macon Ca",
		},
		{
			name: "plain ascii unchanged",
			in:   "ABSAUGGERAETE",
			want: "ABSAUGGERAETE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "folds lower-cases and splits",
			in:   "Absauggeräte für Sekret",
			want: []string{"absauggeraete", "sekret"},
		},
		{
			name: "short tokens dropped",
			in:   "Set mit Rad und Arm",
			want: nil,
		},
		{
			name: "stop words dropped",
			in:   "Miete pro Monat ohne Zubehoer",
			want: []string{"zubehoer"},
		},
		{
			name: "only first line is tokenized",
			in:   "Rollstuhl elektrisch\nHinweis: nur mit Verordnung",
			want: []string{"rollstuhl", "elektrisch"},
		},
		{
			name: "duplicates removed",
			in:   "Bandage Bandage elastisch",
			want: []string{"bandage", "elastisch"},
		},
		{
			name: "punctuation is a boundary",
			in:   "Gehhilfe, vierfüssig (verstellbar)",
			want: []string{"gehhilfe", "vierfuessig", "verstellbar"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

// The catalogs mix properly accented text with all-caps ASCII
// transliterations; both must land on the same tokens.
func TestExtractKeywordsConvergence(t *testing.T) {
	accented := ExtractKeywords("Absauggeräte")
	transliterated := ExtractKeywords("ABSAUGGERAETE")

	assert.NotEmpty(t, accented)
	assert.Equal(t, accented, transliterated)
}
