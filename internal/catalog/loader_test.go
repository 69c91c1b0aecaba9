package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/davosmed/fb2sqlite/internal/common"
)

// writeWorkbook builds an xlsx fixture with the given sheets, in order.
func writeWorkbook(t *testing.T, names []string, sheets map[string][][]string) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", names[0]))
	for _, name := range names[1:] {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}

	for name, rows := range sheets {
		for r, row := range rows {
			cells := make([]any, len(row))
			for c, v := range row {
				cells[c] = v
			}
			addr, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, addr, &cells))
		}
	}

	path := filepath.Join(t.TempDir(), "migel.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadMissingWorkbook(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCatalogFormat)
}

func TestLoadLeafItems(t *testing.T) {
	path := writeWorkbook(t, []string{"DE"}, map[string][][]string{
		"DE": {
			{"", "x", "", "", "", "", "", "Hilfsmittel Absaugung", ""},
			{"01.01.01", "", "", "", "", "", "", "Absauggeräte für Sekret\nZubehör separat aufgeführt", "Nur auf ärztliche Verordnung"},
			{"01.01.02", "", "", "", "", "", "", "Ersatzbehälter", ""},
		},
	})

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "01.01.01", first.PositionNr)
	assert.Equal(t, "Absauggeräte für Sekret", first.Bezeichnung)
	assert.Equal(t, "Nur auf ärztliche Verordnung", first.Limitation)
	assert.ElementsMatch(t,
		[]string{"absauggeraete", "sekret", "hilfsmittel", "absaugung"},
		first.Keywords)

	second := items[1]
	assert.Equal(t, "01.01.02", second.PositionNr)
	assert.Empty(t, second.Limitation)
	assert.ElementsMatch(t,
		[]string{"ersatzbehaelter", "hilfsmittel", "absaugung"},
		second.Keywords)
}

// A category header at level i resets every deeper level: an item under
// "A" -> "" -> "C" inherits from A and C only, never from a sibling that
// previously occupied level 2.
func TestLoadCategoryContextReset(t *testing.T) {
	path := writeWorkbook(t, []string{"DE"}, map[string][][]string{
		"DE": {
			{"", "x", "", "", "", "", "", "Gruppe Absaugung", ""},
			{"", "", "x", "", "", "", "", "Sauerstoffzelte", ""},
			{"01.01.01", "", "", "", "", "", "", "Absauggeräte", ""},
			{"", "x", "", "", "", "", "", "Gruppe Beatmung", ""},
			{"", "", "", "x", "", "", "", "Heimventilation", ""},
			{"02.01.01", "", "", "", "", "", "", "Beatmungsgerät", ""},
		},
	})

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.ElementsMatch(t,
		[]string{"absauggeraete", "gruppe", "absaugung", "sauerstoffzelte"},
		items[0].Keywords)

	// No "sauerstoffzelte" leak from the stale level-2 sibling.
	assert.ElementsMatch(t,
		[]string{"beatmungsgeraet", "gruppe", "beatmung", "heimventilation"},
		items[1].Keywords)
}

// Rows with neither position number nor marker are chapter titles and feed
// the top hierarchy level.
func TestLoadChapterTitleRow(t *testing.T) {
	path := writeWorkbook(t, []string{"DE"}, map[string][][]string{
		"DE": {
			{"", "", "", "", "", "", "", "Inhalationsapparate", ""},
			{"14.01.01", "", "", "", "", "", "", "Vernebler mit Kompressor", ""},
		},
	})

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Keywords, "inhalationsapparate")
}

func TestLoadTranslationsEnrichKeywords(t *testing.T) {
	path := writeWorkbook(t, []string{"DE", "FR", "IT"}, map[string][][]string{
		"DE": {
			{"01.01.01", "", "", "", "", "", "", "Absauggeräte für Sekret", ""},
		},
		"FR": {
			{"01.01.01", "", "", "", "", "", "", "Appareil d'aspiration des sécrétions", ""},
			// Unknown position numbers never introduce new items.
			{"77.77.77", "", "", "", "", "", "", "Fantôme", ""},
		},
		"IT": {
			{"01.01.01", "", "", "", "", "", "", "Apparecchio di aspirazione", ""},
		},
	})

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 1)

	kws := items[0].Keywords
	assert.Contains(t, kws, "absauggeraete")
	assert.Contains(t, kws, "appareil")
	assert.Contains(t, kws, "aspiration")
	assert.Contains(t, kws, "secretions")
	assert.Contains(t, kws, "apparecchio")
	assert.NotContains(t, kws, "fantome")
}

func TestLoadKeywordsDeduplicated(t *testing.T) {
	path := writeWorkbook(t, []string{"DE", "FR"}, map[string][][]string{
		"DE": {
			{"01.01.01", "", "", "", "", "", "", "Absauggeräte für Sekret", ""},
		},
		"FR": {
			// The French row repeats a German token; the union must not duplicate it.
			{"01.01.01", "", "", "", "", "", "", "Absauggeraete aspiration", ""},
		},
	})

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 1)

	seen := make(map[string]int)
	for _, k := range items[0].Keywords {
		seen[k]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "keyword %q appears %d times", k, n)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	path := writeWorkbook(t, []string{"DE"}, map[string][][]string{
		"DE": {
			{"", "", "", "", "", "", "", "", ""},
			{"01.01.01", "", "", "", "", "", "", "", ""}, // position but no description
			{"01.01.02", "", "", "", "", "", "", "Ersatzbehälter", ""},
		},
	})

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "01.01.02", items[0].PositionNr)
}
