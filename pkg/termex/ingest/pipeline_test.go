package ingest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/cognicore/termex/pkg/termex/internalerr"
	"github.com/cognicore/termex/pkg/termex/span"
	"github.com/cognicore/termex/pkg/termex/stoplist"
)

type failingTagger struct{ failOn string }

func (f failingTagger) Tag(docID, text string) ([]span.Token, error) {
	if docID == f.failOn {
		return nil, errors.New("tagger exploded")
	}
	return WhitespaceTagger{}.Tag(docID, text)
}

func TestPipelineProcess(t *testing.T) {
	sel := NewSelector("", NotStop(stoplist.NewManager([]string{"the"})))
	p := NewPipeline(nil, sel, nil)

	doc, err := p.Process(Doc{ID: "d1", Text: "The old car engine"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc.ID != "d1" || len(doc.Tokens) != 4 {
		t.Fatalf("doc = %+v", doc)
	}
	seqs, _ := doc.Sequences(DefaultSelectionAttribute)
	if got := texts(seqs); !reflect.DeepEqual(got, []string{"old car engine"}) {
		t.Errorf("selected = %v", got)
	}
}

func TestPipelineProcessInvalid(t *testing.T) {
	p := NewPipeline(nil, nil, nil)
	for _, d := range []Doc{{Text: "car"}, {ID: "d1", Text: "   "}} {
		if _, err := p.Process(d); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Process(%+v) err = %v, want ErrInvalidInput", d, err)
		}
	}
}

func TestPipelineProcessAllKeepsOrder(t *testing.T) {
	p := NewPipeline(failingTagger{failOn: "d3"}, nil, nil)

	var docs []Doc
	for i := 0; i < 20; i++ {
		docs = append(docs, Doc{ID: fmt.Sprintf("d%d", i), Text: fmt.Sprintf("term %d", i)})
	}
	docs = append(docs, Doc{ID: "empty"})

	out, err := p.ProcessAll(context.Background(), docs, 4)
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	if len(out) != 19 {
		t.Fatalf("got %d documents, want 19", len(out))
	}
	j := 0
	for i := 0; i < 20; i++ {
		if i == 3 {
			continue
		}
		if want := fmt.Sprintf("d%d", i); out[j].ID != want {
			t.Errorf("out[%d] = %s, want %s", j, out[j].ID, want)
		}
		j++
	}
}

func TestPipelineProcessAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(nil, nil, nil).ProcessAll(ctx, []Doc{{ID: "d1", Text: "car"}}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
