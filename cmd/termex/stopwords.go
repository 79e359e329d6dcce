package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/termex/internal/corpus"
	"github.com/cognicore/termex/pkg/termex/config"
	"github.com/cognicore/termex/pkg/termex/stoplist"
)

func newStopwordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stopwords <path>",
		Short: "Suggest stop tokens from document frequencies of a corpus",
		Args:  cobra.ExactArgs(1),
		RunE:  runStopwords,
	}
	cmd.Flags().String("format", "", "Corpus format: txt, json, jsonl, csv, html (default: by extension)")
	cmd.Flags().Float64("min-df", stoplist.DefaultMinDFPercent, "Minimum share of documents, in percent, a suggested token appears in")
	cmd.Flags().StringP("write", "o", "", "Write the configured stop tokens plus the suggestions to this stoplist file")
	return cmd
}

func runStopwords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	log, err := setupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	comp, err := (&config.Loader{Log: log}).Load(cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	docs, err := corpus.Load(args[0], corpus.Options{Format: format, Log: log})
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	tokens := make([][]string, 0, len(docs))
	for _, d := range docs {
		toks, err := comp.Tagger.Tag(d.ID, d.Text)
		if err != nil {
			log.Warn("skipping document", "doc", d.ID, "error", err)
			continue
		}
		words := make([]string, len(toks))
		for i, t := range toks {
			words[i] = t.Text
		}
		tokens = append(tokens, words)
	}

	minDF, _ := cmd.Flags().GetFloat64("min-df")
	candidates := comp.Stops.SuggestCandidates(stoplist.DocumentFrequencies(tokens), minDF)

	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "TOKEN\tDF%\tSCORE")
	for _, c := range candidates {
		fmt.Fprintf(tw, "%s\t%.1f\t%.3f\n", c.Token, c.DFPercent, c.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("write"); path != "" {
		for _, c := range candidates {
			comp.Stops.Add(c.Token, stoplist.SourceUser)
		}
		if err := config.SaveStoplist(path, &config.Stoplist{Terms: comp.Stops.All()}); err != nil {
			return fmt.Errorf("write stoplist: %w", err)
		}
		log.Info("stoplist written", "path", path, "terms", comp.Stops.Len())
	}
	return nil
}
