package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/termex/pkg/termex/ingest"
	"github.com/cognicore/termex/pkg/termex/internalerr"
)

// record is one JSON object of a corpus file
type record map[string]any

func (r record) doc(field, fallbackID, source string) (ingest.Doc, bool) {
	text, _ := r[field].(string)
	text = strings.TrimSpace(text)
	if text == "" {
		return ingest.Doc{}, false
	}
	d := ingest.Doc{ID: fallbackID, Source: source, Text: text}
	switch id := r["id"].(type) {
	case string:
		if id != "" {
			d.ID = id
		}
	case float64:
		d.ID = fmt.Sprintf("%g", id)
	}
	if title, ok := r["title"].(string); ok {
		d.Title = title
	}
	if url, ok := r["url"].(string); ok && url != "" {
		d.Source = url
	}
	return d, true
}

// readJSON loads an array of objects
func readJSON(r io.Reader, name, source, field string) ([]ingest.Doc, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", internalerr.ErrInvalidInput, source, err)
	}

	var docs []ingest.Doc
	for i, rec := range records {
		if d, ok := rec.doc(field, fmt.Sprintf("%s:%d", name, i), source); ok {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

// readJSONL loads one object per line, skipping malformed lines
func readJSONL(r io.Reader, name, source string, opts Options) ([]ingest.Doc, error) {
	var docs []ingest.Doc
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			opts.Log.Warn("skipping malformed JSON line", "path", source, "line", line, "error", err)
			continue
		}
		if d, ok := rec.doc(opts.Field, fmt.Sprintf("%s:%d", name, line), source); ok {
			docs = append(docs, d)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return docs, nil
}
