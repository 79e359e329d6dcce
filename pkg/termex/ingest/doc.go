package ingest

import (
	"fmt"
	"strings"

	"github.com/cognicore/termex/pkg/termex/internalerr"
)

// Doc is a raw corpus document before tokenization
type Doc struct {
	ID     string
	Title  string
	Source string // file or URL the document was loaded from
	Text   string
}

// Validate checks if the document has required fields
func (d *Doc) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: doc ID is required", internalerr.ErrInvalidInput)
	}
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("%w: doc %s: text is required", internalerr.ErrInvalidInput, d.ID)
	}
	return nil
}
