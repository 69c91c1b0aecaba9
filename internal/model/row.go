package model

// MaxRowFields caps how many fields of a source record are kept. Fields
// beyond the limit are dropped silently; the upstream export appends audit
// columns we never want in the output table.
const MaxRowFields = 15

// Source columns carrying the product descriptions that form the match query.
const (
	ColDescriptionDE = 5
	ColDescriptionFR = 6
	ColDescriptionIT = 7
	ColBrandName     = 8
)

// EnrichmentColumns are appended to the header row when matching is enabled.
var EnrichmentColumns = []string{"migel_code", "migel_bezeichnung", "migel_limitation"}

// TruncateRow drops fields beyond MaxRowFields.
func TruncateRow(fields []string) []string {
	if len(fields) > MaxRowFields {
		return fields[:MaxRowFields]
	}
	return fields
}
