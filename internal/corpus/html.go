package corpus

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/cognicore/termex/pkg/termex/ingest"
	"github.com/cognicore/termex/pkg/termex/internalerr"
)

// readHTML extracts the visible text of the elements matching selector
func readHTML(r io.Reader, name, source, selector string) (ingest.Doc, error) {
	root, err := html.Parse(r)
	if err != nil {
		return ingest.Doc{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidInput, source, err)
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script, style, noscript, template").Remove()

	var parts []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			parts = append(parts, text)
		}
	})

	return ingest.Doc{
		ID:     name,
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Source: source,
		Text:   strings.Join(parts, "\n"),
	}, nil
}
