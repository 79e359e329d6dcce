package candidate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/termex/pkg/termex/cvalue"
	"github.com/cognicore/termex/pkg/termex/internalerr"
	"github.com/cognicore/termex/pkg/termex/span"
	"github.com/cognicore/termex/pkg/termex/stoplist"
)

func labels(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Label
	}
	return out
}

func carResult(t *testing.T) *cvalue.Result {
	t.Helper()
	res, err := cvalue.ComputeTerms(
		[]string{"the old car engine", "the new car engine", "car engine"},
		cvalue.Config{MaxLength: 4},
	)
	if err != nil {
		t.Fatalf("ComputeTerms: %v", err)
	}
	return res
}

func TestFromResultThreshold(t *testing.T) {
	terms := FromResult(carResult(t), 1)

	want := []string{"car engine", "the old car engine", "the new car engine"}
	if got := labels(terms); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if terms[0].Score != 2.5 {
		t.Errorf("score(car engine) = %v, want 2.5", terms[0].Score)
	}
	if got := len(terms[0].Occurrences); got != 3 {
		t.Errorf("car engine has %d occurrences, want 3", got)
	}
	if got := terms[0].Docs(); !reflect.DeepEqual(got, []string{"0", "1", "2"}) {
		t.Errorf("docs = %v", got)
	}
	if terms[1].Len() != 4 {
		t.Errorf("len = %d, want 4", terms[1].Len())
	}
}

func TestTermLenUsesCountedTokens(t *testing.T) {
	occ := span.New([]span.Token{
		{Text: "new york", Doc: "d1", Index: 0},
		{Text: "city", Doc: "d1", Index: 1},
	})
	term := Term{Label: occ.Text(), Occurrences: []span.Span{occ}}
	if term.Len() != 2 {
		t.Errorf("len(%q) = %d, want 2", term.Label, term.Len())
	}
	if (Term{Label: "old car engine"}).Len() != 3 {
		t.Error("label fallback should count words")
	}
}

func TestFromResultNil(t *testing.T) {
	if got := FromResult(nil, 0); got != nil {
		t.Errorf("FromResult(nil) = %v, want nil", got)
	}
}

func TestPostFilters(t *testing.T) {
	terms := []Term{
		{Label: "the old car"},
		{Label: "old car engine"},
		{Label: "car of the year"},
		{Label: "new car"},
	}
	set := stoplist.NewManager([]string{"the", "of"})

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"first token", OnFirstToken(set), []string{"old car engine", "car of the year", "new car"}},
		{"last token", OnLastToken(stoplist.NewManager([]string{"engine", "car"})), []string{"car of the year"}},
		{"any token", IfTokenInTerm(set), []string{"old car engine", "new car"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labels(Apply(terms, tt.filter)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyChainsFilters(t *testing.T) {
	terms := []Term{{Label: "the car"}, {Label: "car engine"}, {Label: "engine oil"}}
	got := labels(Apply(terms,
		OnFirstToken(stoplist.NewManager([]string{"the"})),
		OnLastToken(stoplist.NewManager([]string{"oil"})),
	))
	if !reflect.DeepEqual(got, []string{"car engine"}) {
		t.Errorf("Apply = %v", got)
	}
	if got := Apply(terms); len(got) != 3 {
		t.Errorf("Apply without filters dropped terms: %v", got)
	}
}

func TestNamed(t *testing.T) {
	f, err := Named("first_token", []string{"The"})
	if err != nil {
		t.Fatalf("Named: %v", err)
	}
	if f(Term{Label: "the car"}) {
		t.Error("first_token filter should drop 'the car'")
	}

	if _, err := Named("middle_token", nil); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if got := Names(); !reflect.DeepEqual(got, []string{"any_token", "first_token", "last_token"}) {
		t.Errorf("Names = %v", got)
	}
}
