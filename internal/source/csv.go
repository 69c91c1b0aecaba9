// Package source reads the product catalog table, converting legacy
// encodings to UTF-8 before parsing.
package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/davosmed/fb2sqlite/internal/common"
	"github.com/davosmed/fb2sqlite/internal/model"
)

// ReadTable parses CSV records from r, detecting the character set from a
// leading sample. The GS1 export is UTF-8, but supplier uploads occasionally
// arrive as ISO 8859-1 or Windows-1252. Each record is truncated to
// model.MaxRowFields. The first record is the header; callers treat it as
// such, ReadTable itself makes no distinction.
func ReadTable(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	charset := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			charset = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch charset {
	case "iso-8859-1", "iso-8859-15", "windows-1252":
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	default:
		// Assume UTF-8.
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrSourceRead, err)
		}
		rows = append(rows, model.TruncateRow(rec))
	}
	return rows, nil
}
