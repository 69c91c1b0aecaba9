package normalize

// stopwords lists function words and catalog filler terms across the four
// catalog languages, in their folded lower-case form. Tokens shorter than
// minKeywordLen never reach this table, so three-letter words are omitted.
var stopwords = map[string]struct{}{
	// German
	"oder":  {},
	"ohne":  {},
	"fuer":  {},
	"eine":  {},
	"einem": {},
	"einer": {},
	"eines": {},
	"nicht": {},
	"beim":  {},
	"nach":  {},
	"ueber": {},
	"unter": {},
	"sowie": {},
	"alle":  {},
	"inkl":  {},
	"exkl":  {},

	// French
	"pour":   {},
	"avec":   {},
	"sans":   {},
	"sous":   {},
	"dans":   {},
	"tous":   {},
	"toutes": {},
	"ainsi":  {},
	"autres": {},

	// Italian
	"senza": {},
	"sopra": {},
	"sotto": {},
	"tutti": {},
	"tutte": {},
	"ogni":  {},
	"altri": {},

	// English
	"with":    {},
	"without": {},
	"from":    {},
	"this":    {},
	"that":    {},
	"each":    {},

	// Catalog fillers: piece, rental and purchase terms that appear on
	// nearly every row and would otherwise dominate the keyword sets.
	"stueck":   {},
	"miete":    {},
	"kauf":     {},
	"monat":    {},
	"jahr":     {},
	"paar":     {},
	"piece":    {},
	"pieces":   {},
	"location": {},
	"achat":    {},
	"mois":     {},
	"annee":    {},
	"paire":    {},
	"pezzo":    {},
	"pezzi":    {},
	"noleggio": {},
	"acquisto": {},
	"mese":     {},
	"anno":     {},
	"paio":     {},
	"rental":   {},
	"purchase": {},
	"month":    {},
	"year":     {},
	"pair":     {},
}
