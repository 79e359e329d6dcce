package ingest

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/cognicore/termex/pkg/termex/span"
)

// ProseTagger tokenizes and part-of-speech tags English text with prose.
// Tags are Penn Treebank ("NN", "NNS", "JJ", ...).
type ProseTagger struct {
	Lowercase bool
}

// Tag implements Tagger
func (p ProseTagger) Tag(docID, text string) ([]span.Token, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose document %s: %w", docID, err)
	}

	ptoks := doc.Tokens()
	tokens := make([]span.Token, 0, len(ptoks))
	for _, tok := range ptoks {
		txt := strings.TrimSpace(tok.Text)
		if txt == "" {
			continue
		}
		if p.Lowercase {
			txt = strings.ToLower(txt)
		}
		tokens = append(tokens, span.Token{Text: txt, Tag: tok.Tag, Doc: docID, Index: len(tokens)})
	}
	return tokens, nil
}
