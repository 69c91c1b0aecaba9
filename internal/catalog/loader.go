// Package catalog loads the MiGeL reference workbook into classification items.
package catalog

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/davosmed/fb2sqlite/internal/common"
	"github.com/davosmed/fb2sqlite/internal/model"
	"github.com/davosmed/fb2sqlite/internal/normalize"
)

// Fixed workbook columns. Sheet 0 carries the authoritative German list;
// sheets 1 and 2, if present, are the French and Italian translations.
const (
	colPositionNr  = 0
	colMarkerFirst = 1
	colMarkerLast  = 6
	colDescription = 7
	colLimitation  = 8
)

// maxLevels bounds the category hierarchy. Level 0 is the chapter title row
// (no position number and no marker); levels 1-6 come from the marker
// columns. Setting a level clears every deeper level, so an item inherits
// exactly its direct ancestor chain and never a stale sibling's labels.
const maxLevels = 7

// maxTranslationSheets caps how many translation sheets are consumed.
const maxTranslationSheets = 2

// Load parses the workbook at path into the flat item list. Individual
// malformed rows contribute nothing and are skipped; an unreadable workbook
// is fatal.
func Load(path string) ([]model.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook %s: %v", common.ErrCatalogFormat, path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook %s has no sheets", common.ErrCatalogFormat, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %s: %v", common.ErrCatalogFormat, sheets[0], err)
	}

	items, byPosition := parseAuthoritative(rows)

	translations := sheets[1:]
	if len(translations) > maxTranslationSheets {
		translations = translations[:maxTranslationSheets]
	}
	for _, sheet := range translations {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: reading sheet %s: %v", common.ErrCatalogFormat, sheet, err)
		}
		mergeTranslations(items, byPosition, rows)
	}

	for i := range items {
		items[i].Keywords = dedupe(items[i].Keywords)
	}
	return items, nil
}

// parseAuthoritative walks the primary-language sheet once, maintaining the
// category context and emitting a leaf item for every row with a position
// number. The returned map joins translation rows to items later.
func parseAuthoritative(rows [][]string) ([]model.Item, map[string]int) {
	var levels [maxLevels]string
	items := make([]model.Item, 0, len(rows))
	byPosition := make(map[string]int, len(rows))

	for _, row := range rows {
		pos := strings.TrimSpace(cell(row, colPositionNr))
		desc := cell(row, colDescription)

		if pos == "" {
			if strings.TrimSpace(desc) == "" {
				continue
			}
			level := headerLevel(row)
			levels[level] = firstLine(desc)
			for l := level + 1; l < maxLevels; l++ {
				levels[l] = ""
			}
			continue
		}

		if strings.TrimSpace(desc) == "" {
			continue
		}

		keywords := normalize.ExtractKeywords(desc)
		for _, label := range levels {
			if label == "" {
				continue
			}
			keywords = append(keywords, normalize.ExtractKeywords(label)...)
		}

		byPosition[pos] = len(items)
		items = append(items, model.Item{
			PositionNr:  pos,
			Bezeichnung: firstLine(desc),
			Limitation:  strings.TrimSpace(cell(row, colLimitation)),
			Keywords:    keywords,
		})
	}
	return items, byPosition
}

// headerLevel returns the hierarchy level of a category row: the deepest
// marker column that is set, or 0 for a marker-less chapter title row.
func headerLevel(row []string) int {
	level := 0
	for c := colMarkerFirst; c <= colMarkerLast; c++ {
		if strings.TrimSpace(cell(row, c)) != "" {
			level = c - colMarkerFirst + 1
		}
	}
	return level
}

// mergeTranslations adds the keywords of translated labels to the items they
// belong to. Translation sheets never introduce new items; rows whose
// position number is unknown are ignored.
func mergeTranslations(items []model.Item, byPosition map[string]int, rows [][]string) {
	for _, row := range rows {
		pos := strings.TrimSpace(cell(row, colPositionNr))
		if pos == "" {
			continue
		}
		i, ok := byPosition[pos]
		if !ok {
			continue
		}
		items[i].Keywords = append(items[i].Keywords, normalize.ExtractKeywords(cell(row, colDescription))...)
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

func dedupe(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := keywords[:0]
	for _, k := range keywords {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
