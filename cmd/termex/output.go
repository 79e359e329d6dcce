package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cognicore/termex/pkg/termex"
	"github.com/cognicore/termex/pkg/termex/store"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeReport prints a run as an aligned table
func writeReport(w io.Writer, rep *termex.Report, top int, explain bool) error {
	fmt.Fprintf(w, "run %s: %d docs (%d skipped), %d sequences, %d candidates, %d terms\n\n",
		rep.RunID, rep.Docs, rep.Skipped, rep.Sequences, rep.Candidates, len(rep.Terms))

	tw := newTable(w)
	if explain {
		fmt.Fprintln(tw, "RANK\tC-VALUE\tTERM\tLEN\tFREQ\tNESTED FREQ\tNESTED COUNT\tDOCS")
	} else {
		fmt.Fprintln(tw, "RANK\tC-VALUE\tTERM")
	}
	for i, c := range rep.Cards {
		if top > 0 && i >= top {
			break
		}
		if explain {
			fmt.Fprintf(tw, "%d\t%.4f\t%s\t%d\t%d\t%d\t%d\t%d\n",
				c.Rank, c.Score, c.Term, c.Explain.Length, c.Explain.Frequency,
				c.Explain.NestedFreq, c.Explain.NestedCount, len(rep.Terms[i].Docs()))
		} else {
			fmt.Fprintf(tw, "%d\t%.4f\t%s\n", c.Rank, c.Score, c.Term)
		}
	}
	return tw.Flush()
}

type jsonTerm struct {
	Rank        int      `json:"rank"`
	Term        string   `json:"term"`
	Score       float64  `json:"score"`
	Length      int      `json:"length"`
	Frequency   int64    `json:"frequency"`
	NestedFreq  int64    `json:"nested_frequency"`
	NestedCount int64    `json:"nested_count"`
	Docs        []string `json:"docs"`
}

type jsonReport struct {
	RunID      string     `json:"run_id"`
	CreatedAt  time.Time  `json:"created_at"`
	Docs       int        `json:"docs"`
	Skipped    int        `json:"skipped"`
	Sequences  int        `json:"sequences"`
	Candidates int        `json:"candidates"`
	Terms      []jsonTerm `json:"terms"`
}

// writeReportJSON prints a run as one JSON document
func writeReportJSON(w io.Writer, rep *termex.Report, top int) error {
	out := jsonReport{
		RunID:      rep.RunID,
		CreatedAt:  rep.CreatedAt,
		Docs:       rep.Docs,
		Skipped:    rep.Skipped,
		Sequences:  rep.Sequences,
		Candidates: rep.Candidates,
		Terms:      []jsonTerm{},
	}
	for i, c := range rep.Cards {
		if top > 0 && i >= top {
			break
		}
		out.Terms = append(out.Terms, jsonTerm{
			Rank:        c.Rank,
			Term:        c.Term,
			Score:       c.Score,
			Length:      c.Explain.Length,
			Frequency:   c.Explain.Frequency,
			NestedFreq:  c.Explain.NestedFreq,
			NestedCount: c.Explain.NestedCount,
			Docs:        rep.Terms[i].Docs(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeRuns(w io.Writer, runs []store.Run) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "RUN\tCREATED\tCORPUS\tDOCS\tSEQUENCES\tCANDIDATES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Corpus, r.Docs, r.Sequences, r.Candidates)
	}
	return tw.Flush()
}

func writeRunTerms(w io.Writer, run store.Run, terms []store.Term) error {
	fmt.Fprintf(w, "run %s (%s), corpus %s\n\n", run.ID, run.CreatedAt.Local().Format(time.DateTime), run.Corpus)

	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tC-VALUE\tTERM\tLEN\tFREQ\tNESTED FREQ\tNESTED COUNT")
	for _, t := range terms {
		fmt.Fprintf(tw, "%d\t%.4f\t%s\t%d\t%d\t%d\t%d\n",
			t.Rank, t.Score, t.Label, t.Length, t.Freq, t.NestedFreq, t.NestedCount)
	}
	return tw.Flush()
}

func writeStoredCards(w io.Writer, cards []store.Card) error {
	for _, c := range cards {
		fmt.Fprintf(w, "\n%s  %s\n", c.ID, c.Term)
		for _, b := range c.Bullets {
			fmt.Fprintf(w, "  - %s\n", b)
		}
		if c.ScoreJSON != "" {
			fmt.Fprintf(w, "  score: %s\n", c.ScoreJSON)
		}
	}
	return nil
}

func writeHistory(w io.Writer, label string, hist []store.Term) error {
	if len(hist) == 0 {
		fmt.Fprintf(w, "no stored run contains %q\n", label)
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "RUN\tRANK\tC-VALUE\tFREQ")
	for _, t := range hist {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%d\n", t.RunID, t.Rank, t.Score, t.Freq)
	}
	return tw.Flush()
}
