// Package corpus loads documents from text, JSON, JSONL, CSV and HTML files.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cognicore/termex/pkg/termex/ingest"
	"github.com/cognicore/termex/pkg/termex/internalerr"
)

// Options controls how a corpus path is read
type Options struct {
	Format   string // txt, json, jsonl, csv or html; empty detects by extension
	Field    string // JSON/JSONL text field, default "text"
	Column   string // CSV text column, default "text"
	Selector string // HTML CSS selector, default "body"
	Log      *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Field == "" {
		o.Field = "text"
	}
	if o.Column == "" {
		o.Column = "text"
	}
	if o.Selector == "" {
		o.Selector = "body"
	}
	if o.Log == nil {
		o.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

var extFormats = map[string]string{
	".txt":    "txt",
	".text":   "txt",
	".json":   "json",
	".jsonl":  "jsonl",
	".ndjson": "jsonl",
	".csv":    "csv",
	".html":   "html",
	".htm":    "html",
}

// Load reads every document under path. A directory is walked and each
// recognized file loaded in lexical order.
func Load(path string, opts Options) ([]ingest.Doc, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("corpus %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, err
	}

	var docs []ingest.Doc
	if info.IsDir() {
		docs, err = loadDir(path, opts)
	} else {
		docs, err = loadFile(path, opts)
	}
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("corpus %s: %w", path, internalerr.ErrEmptyCorpus)
	}
	return docs, nil
}

func loadDir(root string, opts Options) ([]ingest.Doc, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := detect(p, opts); ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)

	var docs []ingest.Doc
	for _, f := range files {
		format, _ := detect(f, opts)
		var loaded []ingest.Doc
		if format == "txt" {
			// a text file inside a directory is one document
			loaded, err = loadTextFile(root, f)
		} else {
			loaded, err = loadFile(f, opts)
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}

func loadFile(path string, opts Options) ([]ingest.Doc, error) {
	format, ok := detect(path, opts)
	if !ok {
		return nil, fmt.Errorf("%w: cannot detect corpus format of %s", internalerr.ErrInvalidInput, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch format {
	case "txt":
		return readLines(f, name, path)
	case "json":
		return readJSON(f, name, path, opts.Field)
	case "jsonl":
		return readJSONL(f, name, path, opts)
	case "csv":
		return readCSV(f, name, path, opts.Column)
	case "html":
		doc, err := readHTML(f, name, path, opts.Selector)
		if err != nil {
			return nil, err
		}
		if doc.Text == "" {
			opts.Log.Warn("html document has no text", "path", path, "selector", opts.Selector)
			return nil, nil
		}
		return []ingest.Doc{doc}, nil
	default:
		return nil, fmt.Errorf("%w: unknown corpus format %q", internalerr.ErrInvalidInput, format)
	}
}

func detect(path string, opts Options) (string, bool) {
	if opts.Format != "" {
		return opts.Format, true
	}
	format, ok := extFormats[strings.ToLower(filepath.Ext(path))]
	return format, ok
}
