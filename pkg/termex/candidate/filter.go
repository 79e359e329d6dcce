package candidate

import (
	"fmt"
	"sort"

	"github.com/cognicore/termex/pkg/termex/internalerr"
	"github.com/cognicore/termex/pkg/termex/stoplist"
)

// Filter reports whether a term should be kept
type Filter func(Term) bool

// TokenSet is the set a post filter tests tokens against
type TokenSet interface {
	IsStop(token string) bool
}

// OnFirstToken drops terms whose first token is in set
func OnFirstToken(set TokenSet) Filter {
	return func(t Term) bool {
		words := t.Words()
		return len(words) == 0 || !set.IsStop(words[0])
	}
}

// OnLastToken drops terms whose last token is in set
func OnLastToken(set TokenSet) Filter {
	return func(t Term) bool {
		words := t.Words()
		return len(words) == 0 || !set.IsStop(words[len(words)-1])
	}
}

// IfTokenInTerm drops terms containing any token in set
func IfTokenInTerm(set TokenSet) Filter {
	return func(t Term) bool {
		for _, w := range t.Words() {
			if set.IsStop(w) {
				return false
			}
		}
		return true
	}
}

// Apply returns the terms every filter keeps, in input order
func Apply(terms []Term, filters ...Filter) []Term {
	if len(filters) == 0 {
		return terms
	}
	out := make([]Term, 0, len(terms))
next:
	for _, t := range terms {
		for _, f := range filters {
			if !f(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}

var registry = map[string]func(TokenSet) Filter{
	"first_token": OnFirstToken,
	"last_token":  OnLastToken,
	"any_token":   IfTokenInTerm,
}

// Names lists the registered post filter names
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Named builds the registered filter name over tokens.
// Matching is case-insensitive.
func Named(name string, tokens []string) (Filter, error) {
	build, ok := registry[name]
	if !ok {
		return nil, internalerr.NewConfigError("post_filters", name, fmt.Sprintf("unknown filter, want one of %v", Names()))
	}
	return build(stoplist.NewManager(tokens, stoplist.CaseInsensitive())), nil
}
