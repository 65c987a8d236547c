package resolve

import (
	"strings"

	"github.com/ceu-caminhodomar/portal/internal/record"
)

// Value is one resolved field.
type Value struct {
	Field    Field  `json:"field"`
	Header   string `json:"header,omitempty"`
	Value    string `json:"value"`
	Fallback bool   `json:"fallback"`
}

// FieldSet is the semantic view over a single record. It is derived on
// demand and never stored.
type FieldSet struct {
	values []Value
}

// Get returns the value of a field, or Placeholder when the field is not
// part of the table that produced the set.
func (s FieldSet) Get(f Field) string {
	if v, ok := s.Lookup(f); ok {
		return v.Value
	}
	return Placeholder
}

// Lookup returns the full resolution of a field.
func (s FieldSet) Lookup(f Field) (Value, bool) {
	for _, v := range s.values {
		if v.Field == f {
			return v, true
		}
	}
	return Value{}, false
}

// Len returns the number of resolved fields.
func (s FieldSet) Len() int {
	return len(s.values)
}

// Values returns the resolved fields in priority order.
func (s FieldSet) Values() []Value {
	out := make([]Value, len(s.values))
	copy(out, s.values)
	return out
}

// Map returns field name to value, convenient for JSON responses.
func (s FieldSet) Map() map[Field]string {
	out := make(map[Field]string, len(s.values))
	for _, v := range s.values {
		out[v.Field] = v.Value
	}
	return out
}

// Resolve evaluates the table against a record.
//
// Rules run in priority order. For each rule the candidates are tried in rank
// order, and for each candidate the record headers are scanned in column
// order; the first unclaimed header whose lowercase form contains the
// candidate is selected and claimed, so no lower-priority rule can select it
// again. A rule with no matching header, or whose matched cell is blank,
// yields its fallback.
func (t Table) Resolve(r record.Record) FieldSet {
	keys := r.Keys()
	lowered := make([]string, len(keys))
	for i, k := range keys {
		lowered[i] = strings.ToLower(k)
	}
	claimed := make([]bool, len(keys))

	set := FieldSet{values: make([]Value, 0, len(t.Rules))}
	for _, rule := range t.Rules {
		v := Value{Field: rule.Field, Value: rule.Fallback, Fallback: true}

		if idx := match(rule.Candidates, lowered, claimed); idx >= 0 {
			claimed[idx] = true
			v.Header = keys[idx]
			if cell, _ := r.Get(keys[idx]); strings.TrimSpace(cell) != "" {
				v.Value = strings.TrimSpace(cell)
				v.Fallback = false
			}
		}
		set.values = append(set.values, v)
	}
	return set
}

// ResolveAll resolves every record of a dataset, one set per record.
func (t Table) ResolveAll(records []record.Record) []FieldSet {
	out := make([]FieldSet, len(records))
	for i, r := range records {
		out[i] = t.Resolve(r)
	}
	return out
}

func match(candidates, lowered []string, claimed []bool) int {
	for _, c := range candidates {
		for i, k := range lowered {
			if claimed[i] {
				continue
			}
			if strings.Contains(k, c) {
				return i
			}
		}
	}
	return -1
}
