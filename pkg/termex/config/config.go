package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/termex/pkg/termex/internalerr"
)

// Config is the termex configuration file
type Config struct {
	MaxTermLength         int              `yaml:"max_term_length"`
	CValueThreshold       *float64         `yaml:"cvalue_threshold"`
	CandidateThreshold    float64          `yaml:"candidate_threshold"`
	PropagateAcceptedOnly bool             `yaml:"propagate_accepted_only"`
	SequenceAttribute     string           `yaml:"sequence_attribute"`
	Stoplist              string           `yaml:"stoplist"`
	StopTokens            []string         `yaml:"stop_tokens"`
	Tokenizer             TokenizerConfig  `yaml:"tokenizer"`
	Selector              SelectorConfig   `yaml:"selector"`
	PostFilters           PostFilterConfig `yaml:"post_filters"`
	Workers               int              `yaml:"workers"`
	Store                 StoreConfig      `yaml:"store"`
	Log                   LogConfig        `yaml:"log"`

	dir string // directory relative paths resolve against
}

// TokenizerConfig selects and tunes the tagger
type TokenizerConfig struct {
	Kind      string `yaml:"kind"` // whitespace, simple or prose
	Lowercase bool   `yaml:"lowercase"`
	Stem      string `yaml:"stem"` // snowball language, empty disables
}

// SelectorConfig configures token selection before extraction
type SelectorConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Attribute string   `yaml:"attribute"`
	POS       []string `yaml:"pos"`
	DropStop  bool     `yaml:"drop_stop"`
	DropPunct bool     `yaml:"drop_punct"`
	DropNum   bool     `yaml:"drop_num"`
	DropURL   bool     `yaml:"drop_url"`
}

// PostFilterConfig lists token sets of the candidate post filters
type PostFilterConfig struct {
	FirstToken []string `yaml:"first_token"`
	LastToken  []string `yaml:"last_token"`
	AnyToken   []string `yaml:"any_token"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory or sqlite
	Path   string `yaml:"path"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		MaxTermLength: 5,
		Tokenizer:     TokenizerConfig{Kind: "simple", Lowercase: true},
		Workers:       1,
		Store:         StoreConfig{Driver: "memory"},
		Log:           LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML configuration file, applies defaults and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations
func (c *Config) Validate() error {
	switch {
	case c.MaxTermLength < 0 || c.MaxTermLength == 1:
		return internalerr.NewConfigError("", "max_term_length", "must be 0 (observed maximum) or at least 2")
	case math.IsNaN(c.CandidateThreshold):
		return internalerr.NewConfigError("", "candidate_threshold", "must be a number")
	case c.CValueThreshold != nil && math.IsNaN(*c.CValueThreshold):
		return internalerr.NewConfigError("", "cvalue_threshold", "must be a number")
	case c.Workers < 0:
		return internalerr.NewConfigError("", "workers", "must not be negative")
	}

	switch c.Tokenizer.Kind {
	case "whitespace", "simple", "prose":
	default:
		return internalerr.NewConfigError("tokenizer", "kind", fmt.Sprintf("unknown tokenizer %q", c.Tokenizer.Kind))
	}
	if c.Selector.Enabled && len(c.Selector.POS) > 0 && c.Tokenizer.Kind != "prose" {
		return internalerr.NewConfigError("selector", "pos", "part-of-speech selection needs the prose tokenizer")
	}

	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return internalerr.NewConfigError("store", "path", "required for the sqlite driver")
		}
	default:
		return internalerr.NewConfigError("store", "driver", fmt.Sprintf("unknown driver %q", c.Store.Driver))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return internalerr.NewConfigError("log", "format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	return nil
}

// EffectiveCValueThreshold returns the threshold used inside the C-value loop.
// defaulted is true when cvalue_threshold was unset and the candidate
// threshold stands in for it.
func (c *Config) EffectiveCValueThreshold() (threshold float64, defaulted bool) {
	if c.CValueThreshold == nil {
		return c.CandidateThreshold, true
	}
	return *c.CValueThreshold, false
}

// Resolve returns path relative to the config file directory
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stoplist %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("stoplist %s: %w: %v", path, internalerr.ErrInvalidConfig, err)
	}

	return &sl, nil
}

// SaveStoplist writes stopwords in the format LoadStoplist reads
func SaveStoplist(path string, sl *Stoplist) error {
	data, err := yaml.Marshal(sl)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
