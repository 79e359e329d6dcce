package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/cognicore/termex/pkg/termex/span"
)

// DefaultSelectionAttribute is where a Selector stores its runs unless told otherwise
const DefaultSelectionAttribute = "selected_tokens"

// Predicate decides whether a token is kept by a Selector
type Predicate func(span.Token) bool

// StopSet reports whether a token is a stopword
type StopSet interface {
	IsStop(token string) bool
}

// NotStop keeps tokens that are not stopwords
func NotStop(stops StopSet) Predicate {
	return func(t span.Token) bool { return !stops.IsStop(t.Text) }
}

// NotPunct keeps tokens with at least one letter or digit
func NotPunct() Predicate {
	return func(t span.Token) bool {
		for _, r := range t.Text {
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				return true
			}
		}
		return false
	}
}

var numberWords = map[string]struct{}{
	"zero": {}, "one": {}, "two": {}, "three": {}, "four": {}, "five": {}, "six": {},
	"seven": {}, "eight": {}, "nine": {}, "ten": {}, "eleven": {}, "twelve": {},
	"hundred": {}, "thousand": {}, "million": {}, "billion": {},
}

// NotNum keeps tokens that do not look like numbers ("42", "3,5", "1/2", "seven")
func NotNum() Predicate {
	return func(t span.Token) bool {
		txt := strings.TrimLeft(t.Text, "+-~±")
		if txt == "" {
			return true
		}
		if _, ok := numberWords[strings.ToLower(txt)]; ok {
			return false
		}
		plain := strings.NewReplacer(",", "", ".", "").Replace(txt)
		if _, err := strconv.ParseUint(plain, 10, 64); err == nil {
			return false
		}
		if num, den, ok := strings.Cut(txt, "/"); ok {
			_, errN := strconv.ParseUint(num, 10, 64)
			_, errD := strconv.ParseUint(den, 10, 64)
			return errN != nil || errD != nil
		}
		if c := txt[0]; c != '.' && (c < '0' || c > '9') {
			return true
		}
		_, err := strconv.ParseFloat(txt, 64)
		return err != nil
	}
}

var urlPattern = regexp.MustCompile(`(?i)^(https?://|ftp://|www\.)\S+$|^[a-z0-9-]+(\.[a-z0-9-]+)*\.(com|org|net|edu|gov|io|ai|co|uk|fr|de)(/\S*)?$`)

// NotURL keeps tokens that do not look like URLs
func NotURL() Predicate {
	return func(t span.Token) bool { return !urlPattern.MatchString(t.Text) }
}

// OnPOS keeps tokens whose tag is one of tags
func OnPOS(tags ...string) Predicate {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return func(t span.Token) bool {
		_, ok := set[t.Tag]
		return ok
	}
}

// Selector keeps the tokens every predicate accepts and stores the maximal
// contiguous runs of kept tokens as a document sequence attribute.
type Selector struct {
	attr  string
	preds []Predicate
}

// NewSelector creates a selector writing to attr
func NewSelector(attr string, preds ...Predicate) *Selector {
	if attr == "" {
		attr = DefaultSelectionAttribute
	}
	return &Selector{attr: attr, preds: preds}
}

// Attribute returns the attribute the selector writes to
func (s *Selector) Attribute() string {
	return s.attr
}

// Apply selects tokens in doc. When the attribute already holds sequences
// the selection narrows them instead of starting from the whole document.
func (s *Selector) Apply(doc *Document) {
	sources, ok := doc.Sequences(s.attr)
	if !ok {
		sources = []span.Span{doc.Span()}
	}

	var runs []span.Span
	for _, src := range sources {
		start := -1
		for i := 0; i < src.Len(); i++ {
			if s.keep(src.Token(i)) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				runs = append(runs, src.Slice(start, i))
				start = -1
			}
		}
		if start >= 0 {
			runs = append(runs, src.Slice(start, src.Len()))
		}
	}
	doc.SetSequences(s.attr, runs)
}

func (s *Selector) keep(t span.Token) bool {
	for _, p := range s.preds {
		if !p(t) {
			return false
		}
	}
	return true
}
