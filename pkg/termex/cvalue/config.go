package cvalue

import (
	"io"
	"log/slog"
	"math"

	"github.com/cognicore/termex/pkg/termex/internalerr"
)

// StopSet reports whether a token must not appear in a generated candidate term.
// *stoplist.Manager satisfies it.
type StopSet interface {
	IsStop(token string) bool
}

// Config holds the C-value engine options.
type Config struct {
	// MaxLength is the longest term, in tokens, that is counted and scored.
	// Zero means the longest candidate actually observed.
	MaxLength int

	// Stops filters generated sub n-grams. Whole input sequences are never
	// filtered. Nil disables filtering.
	Stops StopSet

	// Threshold is the minimum score for a candidate to be accepted.
	Threshold float64

	// PropagateAcceptedOnly restricts nested-statistics updates to accepted
	// candidates. By default every processed candidate updates its substrings.
	PropagateAcceptedOnly bool

	// Workers partitions the counting phase. Values <= 1 count sequentially.
	Workers int

	Logger *slog.Logger
}

// Validate checks the configuration and returns a *internalerr.ConfigError.
func (c Config) Validate() error {
	if c.MaxLength < 0 || c.MaxLength == 1 {
		return internalerr.NewConfigError("cvalue", "MaxLength", "must be 0 (observed maximum) or greater than 1")
	}
	if math.IsNaN(c.Threshold) {
		return internalerr.NewConfigError("cvalue", "Threshold", "must be a number")
	}
	if c.Workers < 0 {
		return internalerr.NewConfigError("cvalue", "Workers", "must not be negative")
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger.With("component", "cvalue")
}
