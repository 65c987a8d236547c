package search

import (
	"fmt"
	"strings"

	"github.com/ceu-caminhodomar/portal/internal/record"
)

// SearchType selects which mapped column the person search reads.
type SearchType string

// Supported person search types.
const (
	ByCarteirinha SearchType = "carteirinha"
	ByEOL         SearchType = "eol"
	ByNome        SearchType = "nome"
)

// SearchTypes lists the person search types in display order.
var SearchTypes = []SearchType{ByCarteirinha, ByEOL, ByNome}

// ParseSearchType validates a search type name (case-insensitive).
func ParseSearchType(s string) (SearchType, error) {
	t := SearchType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SearchTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown search type %q (expected carteirinha, eol or nome)", s)
}

// ColumnMapping names the exact headers used by the person search.
type ColumnMapping struct {
	Carteirinha string `koanf:"carteirinha" json:"carteirinha" yaml:"carteirinha"`
	EOL         string `koanf:"eol" json:"eol" yaml:"eol"`
	Nome        string `koanf:"nome" json:"nome" yaml:"nome"`
}

// Header returns the configured header for a search type.
func (m ColumnMapping) Header(t SearchType) string {
	switch t {
	case ByCarteirinha:
		return m.Carteirinha
	case ByEOL:
		return m.EOL
	case ByNome:
		return m.Nome
	}
	return ""
}

// PersonResult is the outcome of a person search. Searched is false when no
// search was computed (blank term), which is distinct from zero matches.
type PersonResult struct {
	Searched bool       `json:"searched"`
	By       SearchType `json:"by"`
	Term     string     `json:"term"`
	Matches  []Match    `json:"results"`
}

// SearchPeople finds records whose mapped column contains the term.
//
// The column is located by exact, case-insensitive header comparison; a
// record without that header never matches. A blank term computes nothing.
func SearchPeople(records []record.Record, mapping ColumnMapping, by SearchType, term string) PersonResult {
	res := PersonResult{By: by, Term: strings.TrimSpace(term)}
	if res.Term == "" {
		return res
	}
	res.Searched = true
	res.Matches = []Match{}

	header := mapping.Header(by)
	needle := strings.ToLower(res.Term)
	for i, r := range records {
		_, value, ok := r.Lookup(header)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			res.Matches = append(res.Matches, Match{Index: i, Record: r})
		}
	}
	return res
}

// PersonTitle returns the display name of a person record, falling back to
// a generic label when the name column is missing or blank.
func PersonTitle(r record.Record, mapping ColumnMapping) string {
	if _, v, ok := r.Lookup(mapping.Nome); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return "Munícipe"
}

// PeopleSession keeps the interactive person-search state.
//
// The first submission flips a one-time "searched" toggle that controls
// whether a results section is shown at all. Submitting a blank term marks
// the session as searched but keeps the previous results.
type PeopleSession struct {
	By       SearchType
	searched bool
	last     PersonResult
}

// NewPeopleSession starts a session searching by name.
func NewPeopleSession() *PeopleSession {
	return &PeopleSession{By: ByNome}
}

// Submit runs a search with the session's current type.
func (s *PeopleSession) Submit(records []record.Record, mapping ColumnMapping, term string) PersonResult {
	s.searched = true
	res := SearchPeople(records, mapping, s.By, term)
	if res.Searched {
		s.last = res
	}
	return s.last
}

// HasSearched reports whether anything was submitted yet.
func (s *PeopleSession) HasSearched() bool {
	return s.searched
}

// Last returns the most recent computed result.
func (s *PeopleSession) Last() PersonResult {
	return s.last
}
