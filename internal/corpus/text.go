package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/termex/pkg/termex/ingest"
)

// readLines makes one document per non-empty line
func readLines(r io.Reader, name, source string) ([]ingest.Doc, error) {
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
		docs = append(docs, ingest.Doc{
			ID:     fmt.Sprintf("%s:%d", name, line),
			Source: source,
			Text:   text,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return docs, nil
}

// loadTextFile makes one document of a whole file, identified by its path
// relative to root
func loadTextFile(root, path string) ([]ingest.Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	id, err := filepath.Rel(root, path)
	if err != nil {
		id = filepath.Base(path)
	}
	id = strings.TrimSuffix(filepath.ToSlash(id), filepath.Ext(id))
	return []ingest.Doc{{ID: id, Title: filepath.Base(path), Source: path, Text: text}}, nil
}
