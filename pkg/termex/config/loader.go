package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cognicore/termex/pkg/termex/candidate"
	"github.com/cognicore/termex/pkg/termex/cvalue"
	"github.com/cognicore/termex/pkg/termex/ingest"
	"github.com/cognicore/termex/pkg/termex/stoplist"
)

// Loader constructs components from a configuration
type Loader struct {
	Log *slog.Logger
}

// Components holds all components built from a configuration
type Components struct {
	Stops     *stoplist.Manager
	Tagger    ingest.Tagger
	Selector  *ingest.Selector // nil when selection is disabled
	Extractor *ingest.Extractor
	CValue    cvalue.Config
	Filters   []candidate.Filter
}

// Load builds the components described by cfg
func (l *Loader) Load(cfg *Config) (*Components, error) {
	log := l.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{}

	// Stop tokens: file entries first, inline tokens on top. Lowercased
	// tokens are matched against lowercased stops.
	var stopOpts []stoplist.Option
	if cfg.Tokenizer.Lowercase {
		stopOpts = append(stopOpts, stoplist.CaseInsensitive())
	}
	comp.Stops = stoplist.NewManager(nil, stopOpts...)
	if cfg.Stoplist != "" {
		sl, err := LoadStoplist(cfg.Resolve(cfg.Stoplist))
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stops.Merge(sl.Terms, stoplist.SourceBase)
	}
	comp.Stops.Merge(cfg.StopTokens, stoplist.SourceConfig)

	switch cfg.Tokenizer.Kind {
	case "whitespace":
		comp.Tagger = ingest.WhitespaceTagger{Lowercase: cfg.Tokenizer.Lowercase}
	case "prose":
		comp.Tagger = ingest.ProseTagger{Lowercase: cfg.Tokenizer.Lowercase}
	default:
		var opts []ingest.TokenizerOption
		if !cfg.Tokenizer.Lowercase {
			opts = append(opts, ingest.KeepCase())
		}
		if cfg.Tokenizer.Stem != "" {
			opts = append(opts, ingest.WithStemming(cfg.Tokenizer.Stem))
		}
		comp.Tagger = ingest.NewTokenizer(opts...)
	}

	attr := cfg.SequenceAttribute
	if cfg.Selector.Enabled {
		comp.Selector = ingest.NewSelector(cfg.Selector.Attribute, selectorPredicates(cfg.Selector, comp.Stops)...)
		if attr == "" {
			attr = comp.Selector.Attribute()
		}
	}
	comp.Extractor = ingest.NewExtractor(attr, cfg.MaxTermLength, log)

	threshold, defaulted := cfg.EffectiveCValueThreshold()
	if defaulted {
		log.Warn("cvalue_threshold not set, using candidate_threshold", "threshold", threshold)
	}
	comp.CValue = cvalue.Config{
		MaxLength:             cfg.MaxTermLength,
		Stops:                 comp.Stops,
		Threshold:             threshold,
		PropagateAcceptedOnly: cfg.PropagateAcceptedOnly,
		Workers:               cfg.Workers,
		Logger:                log,
	}

	filters := []struct {
		name   string
		tokens []string
	}{
		{"first_token", cfg.PostFilters.FirstToken},
		{"last_token", cfg.PostFilters.LastToken},
		{"any_token", cfg.PostFilters.AnyToken},
	}
	for _, f := range filters {
		if len(f.tokens) == 0 {
			continue
		}
		filter, err := candidate.Named(f.name, f.tokens)
		if err != nil {
			return nil, err
		}
		comp.Filters = append(comp.Filters, filter)
	}

	return comp, nil
}

func selectorPredicates(sc SelectorConfig, stops *stoplist.Manager) []ingest.Predicate {
	var preds []ingest.Predicate
	if len(sc.POS) > 0 {
		preds = append(preds, ingest.OnPOS(sc.POS...))
	}
	if sc.DropStop {
		preds = append(preds, ingest.NotStop(stops))
	}
	if sc.DropPunct {
		preds = append(preds, ingest.NotPunct())
	}
	if sc.DropNum {
		preds = append(preds, ingest.NotNum())
	}
	if sc.DropURL {
		preds = append(preds, ingest.NotURL())
	}
	return preds
}
