package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/termex/pkg/termex/ingest"
	"github.com/cognicore/termex/pkg/termex/internalerr"
)

// readCSV loads one document per row. The first row is the header; column
// names the text column and an optional "id" column names the document.
func readCSV(r io.Reader, name, source, column string) ([]ingest.Doc, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read %s header: %v", internalerr.ErrInvalidInput, source, err)
	}

	textCol, idCol, titleCol := -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case column:
			textCol = i
		case "id":
			idCol = i
		case "title":
			titleCol = i
		}
	}
	if textCol < 0 {
		return nil, fmt.Errorf("%w: %s has no column %q", internalerr.ErrInvalidInput, source, column)
	}

	var docs []ingest.Doc
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", internalerr.ErrInvalidInput, source, err)
		}
		if textCol >= len(rec) {
			continue
		}
		text := strings.TrimSpace(rec[textCol])
		if text == "" {
			continue
		}
		d := ingest.Doc{ID: fmt.Sprintf("%s:%d", name, row), Source: source, Text: text}
		if idCol >= 0 && idCol < len(rec) && rec[idCol] != "" {
			d.ID = rec[idCol]
		}
		if titleCol >= 0 && titleCol < len(rec) {
			d.Title = rec[titleCol]
		}
		docs = append(docs, d)
	}
	return docs, nil
}
