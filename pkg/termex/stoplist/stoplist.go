package stoplist

import (
	"sort"
	"strings"
)

// Source records where a stopword came from
type Source string

const (
	SourceBase   Source = "base"   // shipped or loaded from a stoplist file
	SourceConfig Source = "config" // inline tokens from the run configuration
	SourceUser   Source = "user"   // added at runtime
)

// Manager holds the stopwords that must not appear in generated candidate terms.
// Matching is exact unless the manager is built with CaseInsensitive.
type Manager struct {
	stops    map[string]Source
	foldCase bool
}

// Option configures a Manager
type Option func(*Manager)

// CaseInsensitive lowercases stored and queried tokens.
func CaseInsensitive() Option {
	return func(m *Manager) { m.foldCase = true }
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string, opts ...Option) *Manager {
	m := &Manager{stops: make(map[string]Source, len(initialStops))}
	for _, opt := range opts {
		opt(m)
	}
	for _, s := range initialStops {
		m.Add(s, SourceBase)
	}
	return m
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	if m == nil {
		return false
	}
	_, ok := m.stops[m.fold(token)]
	return ok
}

// ContainsAny reports whether any of the tokens is a stopword
func (m *Manager) ContainsAny(tokens []string) bool {
	for _, t := range tokens {
		if m.IsStop(t) {
			return true
		}
	}
	return false
}

// Add adds a token to the stoplist. Blank tokens are ignored.
func (m *Manager) Add(token string, src Source) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	m.stops[m.fold(token)] = src
}

// Merge adds every token with the given source
func (m *Manager) Merge(tokens []string, src Source) {
	for _, t := range tokens {
		m.Add(t, src)
	}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, m.fold(token))
}

// SourceOf returns why a token is a stopword
func (m *Manager) SourceOf(token string) (Source, bool) {
	src, ok := m.stops[m.fold(token)]
	return src, ok
}

// Len returns the number of stopwords
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.stops)
}

// All returns all stopwords in sorted order
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

func (m *Manager) fold(token string) string {
	if !m.foldCase {
		return token
	}
	return strings.ToLower(token)
}
