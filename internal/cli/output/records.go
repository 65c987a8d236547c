package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/record"
	"github.com/ceu-caminhodomar/portal/internal/resolve"
	"github.com/ceu-caminhodomar/portal/internal/search"
)

// User-facing notices.
const (
	NoSearchText  = "Nenhuma pesquisa realizada. Informe um termo de busca."
	NoResultsText = "Nenhum registro encontrado."
)

var fieldLabels = map[resolve.Field]string{
	resolve.FieldName:        "Atividade",
	resolve.FieldAudience:    "Público",
	resolve.FieldSpace:       "Espaço",
	resolve.FieldResponsible: "Responsável",
	resolve.FieldDay:         "Dia",
	resolve.FieldStart:       "Início",
	resolve.FieldEnd:         "Término",
}

// FieldLabel returns the display label of a semantic field.
func FieldLabel(f resolve.Field) string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return titleCase(string(f))
}

// SearchTypeLabel returns the display label of a person search type.
func SearchTypeLabel(t search.SearchType) string {
	if t == search.ByEOL {
		return "EOL"
	}
	return titleCase(string(t))
}

// PersonView is the JSON shape of a person match.
type PersonView struct {
	Index  int           `json:"index"`
	Title  string        `json:"title"`
	Record record.Record `json:"record"`
}

// PeopleView is the JSON shape of a person search.
type PeopleView struct {
	Searched bool              `json:"searched"`
	By       search.SearchType `json:"by"`
	Term     string            `json:"term"`
	Results  []PersonView      `json:"results"`
}

// NewPeopleView converts a person search result for display.
func NewPeopleView(res search.PersonResult, mapping search.ColumnMapping) PeopleView {
	v := PeopleView{Searched: res.Searched, By: res.By, Term: res.Term, Results: []PersonView{}}
	for _, m := range res.Matches {
		v.Results = append(v.Results, PersonView{
			Index:  m.Index,
			Title:  search.PersonTitle(m.Record, mapping),
			Record: m.Record,
		})
	}
	return v
}

// MatchView is the JSON shape of a space or activity match.
type MatchView struct {
	Index  int                      `json:"index"`
	Fields map[resolve.Field]string `json:"fields"`
	Record record.Record            `json:"record"`
}

// NewMatchViews converts filter matches for display.
func NewMatchViews(spec search.Spec, matches []search.Match) []MatchView {
	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		fields := m.Fields
		if fields.Len() == 0 {
			fields = spec.Table.Resolve(m.Record)
		}
		out = append(out, MatchView{Index: m.Index, Fields: fields.Map(), Record: m.Record})
	}
	return out
}

// People renders a person search.
func (r *Renderer) People(res search.PersonResult, mapping search.ColumnMapping) error {
	view := NewPeopleView(res, mapping)
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return r.JSON(view)
	}

	if !res.Searched {
		r.Muted(NoSearchText)
		return nil
	}

	r.Header(1, fmt.Sprintf("Pesquisa por %s: %q (%d)", SearchTypeLabel(res.By), res.Term, len(view.Results)))
	if len(view.Results) == 0 {
		r.Println(NoResultsText)
		return nil
	}

	for i, p := range view.Results {
		if mode == ModeText {
			r.Println(r.styles.Title.Render(fmt.Sprintf("%d. %s", i+1, p.Title)))
			r.pairsTable(p.Record.Pairs())
		} else {
			r.Println(FormatHeader(2, fmt.Sprintf("%d. %s", i+1, p.Title)))
			for _, pair := range p.Record.Pairs() {
				r.Println(FormatKeyValue(pair.Header, pair.Value))
			}
		}
		r.Println("")
	}
	return nil
}

func (r *Renderer) pairsTable(pairs []record.Pair) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	for _, p := range pairs {
		t.AppendRow(table.Row{r.styles.Key.Render(p.Header), p.Value})
	}
	t.Render()
}

// Matches renders filtered space or activity records.
func (r *Renderer) Matches(title string, spec search.Spec, matches []search.Match) error {
	views := NewMatchViews(spec, matches)
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return r.JSON(views)
	}

	r.Header(1, fmt.Sprintf("%s (%d)", title, len(views)))
	if len(views) == 0 {
		r.Println(NoResultsText)
		return nil
	}

	fields := spec.Table.Fields()
	if mode == ModeText {
		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)
		header := table.Row{"#"}
		for _, f := range fields {
			header = append(header, FieldLabel(f))
		}
		t.AppendHeader(header)
		for _, v := range views {
			row := table.Row{v.Index + 1}
			for _, f := range fields {
				row = append(row, v.Fields[f])
			}
			t.AppendRow(row)
		}
		t.Render()
		return nil
	}

	for _, v := range views {
		r.Println(FormatHeader(2, fmt.Sprintf("%d. %s", v.Index+1, v.Fields[resolve.FieldName])))
		for _, f := range fields[1:] {
			r.Println(FormatKeyValue(FieldLabel(f), v.Fields[f]))
		}
		r.Println("")
	}
	return nil
}

// OptionsView is the JSON shape of the filter selectors.
type OptionsView struct {
	Categories []string `json:"categories"`
	Days       []string `json:"days"`
	Weekdays   []string `json:"weekdays"`
}

// Options renders the selector values of a dataset.
func (r *Renderer) Options(title string, opts OptionsView) error {
	if r.EffectiveMode() == ModeJSON {
		return r.JSON(opts)
	}
	r.Header(1, title)
	r.Println(FormatKeyValue("Espaços", joinOrDash(opts.Categories)))
	r.Println(FormatKeyValue("Dias", joinOrDash(opts.Days)))
	r.Println(FormatKeyValue("Filtros de dia", joinOrDash(opts.Weekdays)))
	return nil
}

// StatusView is the JSON shape of one dataset container.
type StatusView struct {
	Dataset  portal.Kind   `json:"dataset"`
	Tab      string        `json:"tab"`
	Status   portal.Status `json:"status"`
	Records  int           `json:"records"`
	Warning  string        `json:"warning,omitempty"`
	LoadID   string        `json:"load_id,omitempty"`
	LoadedAt time.Time     `json:"loaded_at,omitzero"`
}

// NewStatusViews converts the portal snapshot for display.
func NewStatusViews(results []portal.Result) []StatusView {
	out := make([]StatusView, 0, len(results))
	for _, res := range results {
		out = append(out, StatusView{
			Dataset:  res.Kind,
			Tab:      res.Tab,
			Status:   res.Status,
			Records:  res.Dataset.Len(),
			Warning:  res.Warning(),
			LoadID:   res.LoadID,
			LoadedAt: res.LoadedAt,
		})
	}
	return out
}

// Status renders the dataset containers.
func (r *Renderer) Status(results []portal.Result) error {
	views := NewStatusViews(results)
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(views)
	case ModeText:
		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Dataset", "Aba", "Status", "Registros"})
		for _, v := range views {
			t.AppendRow(table.Row{v.Dataset, v.Tab, v.Status, v.Records})
		}
		t.Render()
	default:
		r.Header(1, "Status")
		for _, v := range views {
			r.Println(FormatKeyValue(string(v.Dataset), fmt.Sprintf("%s (%s, %d registros)", v.Status, v.Tab, v.Records)))
		}
	}
	return nil
}

// SummaryView is the JSON shape of an AI summary.
type SummaryView struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Summary renders an AI summary of one record.
func (r *Renderer) Summary(title, text string) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(SummaryView{Title: title, Summary: text})
	case ModeText:
		r.Println(r.styles.Title.Render(title))
		r.Println(r.styles.Summary.Render(text))
	default:
		r.Println(FormatHeader(2, title))
		r.Println("> " + text)
	}
	return nil
}

// titleCase upper-cases the first letter of each word. Casers are stateful, so
// one is built per call.
func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return resolve.Placeholder
	}
	return strings.Join(values, ", ")
}
