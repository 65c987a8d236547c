// Package record defines the schema-less row model shared by every dataset.
//
// A Record maps spreadsheet header strings to cell strings. Keys are unique
// and keep the original column order. Headers are stored as they appear in
// the sheet (after trimming) and are never assumed to be present; semantic
// access goes through the resolve package.
package record

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Pair is a single header/value cell of a record.
type Pair struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// Record is one spreadsheet row as an ordered header to value mapping.
// The zero value is an empty record.
type Record struct {
	keys   []string
	values map[string]string
}

// New builds a record from header/value pairs in column order.
// When a header repeats, the later value wins and the key keeps the
// position of its first occurrence.
func New(pairs ...Pair) Record {
	r := Record{
		keys:   make([]string, 0, len(pairs)),
		values: make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		if _, seen := r.values[p.Header]; !seen {
			r.keys = append(r.keys, p.Header)
		}
		r.values[p.Header] = p.Value
	}
	return r
}

// Keys returns the record headers in column order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns the value stored under the exact header.
func (r Record) Get(header string) (string, bool) {
	v, ok := r.values[header]
	return v, ok
}

// Lookup returns the value of the first header that equals name
// case-insensitively, together with the stored header.
func (r Record) Lookup(name string) (header, value string, ok bool) {
	for _, k := range r.keys {
		if strings.EqualFold(k, name) {
			return k, r.values[k], true
		}
	}
	return "", "", false
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.keys)
}

// Pairs returns a copy of the record fields in column order.
func (r Record) Pairs() []Pair {
	out := make([]Pair, len(r.keys))
	for i, k := range r.keys {
		out[i] = Pair{Header: k, Value: r.values[k]}
	}
	return out
}

// NonEmpty returns the fields whose value is not blank, in column order.
func (r Record) NonEmpty() []Pair {
	out := make([]Pair, 0, len(r.keys))
	for _, k := range r.keys {
		if strings.TrimSpace(r.values[k]) == "" {
			continue
		}
		out = append(out, Pair{Header: k, Value: r.values[k]})
	}
	return out
}

// MarshalJSON encodes the record as a JSON object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
