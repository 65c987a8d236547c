// Package search filters datasets in memory.
//
// Filtering is a pure projection: it keeps the original record order, never
// rewrites records and combines every active criterion with AND.
package search

import (
	"strings"

	"github.com/ceu-caminhodomar/portal/internal/record"
	"github.com/ceu-caminhodomar/portal/internal/resolve"
)

// All is the selector value meaning "no filter" for category and day.
const All = "all"

// Criteria is the user-selected filter state for one dataset view.
type Criteria struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Day      string `json:"day"`
}

// IsAll reports whether a selector value disables its criterion.
// Empty values are treated like the sentinel.
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Spec describes how a dataset is searched.
type Spec struct {
	Table         resolve.Table
	TextFields    []resolve.Field
	CategoryField resolve.Field
	DayField      resolve.Field
}

// SpacesSpec searches the space-usage dataset.
var SpacesSpec = Spec{
	Table:         resolve.SpaceUsageTable,
	TextFields:    []resolve.Field{resolve.FieldName, resolve.FieldResponsible, resolve.FieldSpace},
	CategoryField: resolve.FieldSpace,
	DayField:      resolve.FieldDay,
}

// ActivitiesSpec searches the activities dataset.
var ActivitiesSpec = Spec{
	Table:         resolve.ActivityTable,
	TextFields:    []resolve.Field{resolve.FieldName, resolve.FieldResponsible, resolve.FieldSpace},
	CategoryField: resolve.FieldSpace,
	DayField:      resolve.FieldDay,
}

// Match is a record selected by a search, with its position in the dataset.
type Match struct {
	Index  int              `json:"index"`
	Record record.Record    `json:"record"`
	Fields resolve.FieldSet `json:"-"`
}

// Records returns the matched records in order.
func Records(matches []Match) []record.Record {
	out := make([]record.Record, len(matches))
	for i, m := range matches {
		out[i] = m.Record
	}
	return out
}

// Filter returns the records satisfying every active criterion, in dataset
// order. With all criteria at their "match all" value it returns every record.
func Filter(records []record.Record, spec Spec, c Criteria) []Match {
	text := strings.ToLower(strings.TrimSpace(c.Text))
	category := strings.TrimSpace(c.Category)
	day := strings.TrimSpace(c.Day)

	out := make([]Match, 0, len(records))
	for i, r := range records {
		fields := spec.Table.Resolve(r)

		if text != "" && !matchText(fields, spec.TextFields, text) {
			continue
		}
		if !IsAll(category) && fields.Get(spec.CategoryField) != category {
			continue
		}
		if !IsAll(day) && !MatchDay(fields.Get(spec.DayField), day) {
			continue
		}
		out = append(out, Match{Index: i, Record: r, Fields: fields})
	}
	return out
}

// matchText checks the token against the resolved text fields. Fallback
// literals such as "Livre" are searchable; the bare placeholder is not.
func matchText(fields resolve.FieldSet, targets []resolve.Field, token string) bool {
	for _, f := range targets {
		v, ok := fields.Lookup(f)
		if !ok || (v.Fallback && v.Value == resolve.Placeholder) {
			continue
		}
		if strings.Contains(strings.ToLower(v.Value), token) {
			return true
		}
	}
	return false
}

// Categories returns the distinct resolved category values of a dataset in
// first-seen order. Fallback values are skipped.
func Categories(records []record.Record, spec Spec) []string {
	return distinct(records, spec.Table, spec.CategoryField)
}

// Days returns the distinct resolved day values in first-seen order.
func Days(records []record.Record, spec Spec) []string {
	return distinct(records, spec.Table, spec.DayField)
}

func distinct(records []record.Record, table resolve.Table, field resolve.Field) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		v, ok := table.Resolve(r).Lookup(field)
		if !ok || v.Fallback || seen[v.Value] {
			continue
		}
		seen[v.Value] = true
		out = append(out, v.Value)
	}
	return out
}
