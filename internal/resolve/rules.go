// Package resolve maps loosely named spreadsheet headers onto semantic fields.
//
// Each dataset has a declarative Table: an ordered list of rules, one per
// semantic field, where the order is the claim priority and every rule holds
// a ranked list of header substrings. A single resolver evaluates any table.
package resolve

// Field names a semantic piece of information carried by a record.
type Field string

// Semantic fields known to the portal.
const (
	FieldName        Field = "name"
	FieldAudience    Field = "audience"
	FieldSpace       Field = "space"
	FieldResponsible Field = "responsible"
	FieldDay         Field = "day"
	FieldStart       Field = "start"
	FieldEnd         Field = "end"
)

// Placeholder is the display-safe fallback for fields without a better default.
const Placeholder = "-"

// Rule binds a semantic field to its ranked header candidates.
// Candidates are lowercase substrings; accented and unaccented spellings
// must both be listed when both are expected.
type Rule struct {
	Field      Field
	Candidates []string
	Fallback   string
}

// Table is the rule set of one dataset. Rules are listed in claim priority.
type Table struct {
	Name  string
	Rules []Rule
}

// Fields returns the table's fields in priority order.
func (t Table) Fields() []Field {
	out := make([]Field, len(t.Rules))
	for i, r := range t.Rules {
		out[i] = r.Field
	}
	return out
}

// Rule returns the rule for a field.
func (t Table) Rule(f Field) (Rule, bool) {
	for _, r := range t.Rules {
		if r.Field == f {
			return r, true
		}
	}
	return Rule{}, false
}

var (
	responsibleCandidates = []string{"responsável", "responsavel", "professor", "educador", "instrutor", "oficineiro", "mediador", "coordena"}
	spaceCandidates       = []string{"espaço", "espaco", "sala", "local", "ambiente", "quadra"}
	dayCandidates         = []string{"dia", "semana"}
	startCandidates       = []string{"início", "inicio", "entrada", "horário", "horario", "hora"}
	endCandidates         = []string{"término", "termino", "fim", "final", "saída", "saida"}
)

// ActivityTable resolves rows of the activities tab.
// The activity name claims its header before the audience rule runs, so a
// header such as "Atividade para Público Infantil" is never read twice. The
// space is claimed before the audience for the same reason. Bare "idade" is
// not a candidate: it is a suffix of "Capacidade" and "Localidade".
var ActivityTable = Table{
	Name: "activities",
	Rules: []Rule{
		{Field: FieldName, Candidates: []string{"atividade", "oficina", "curso", "modalidade", "nome", "título", "titulo"}, Fallback: "Sem atividade"},
		{Field: FieldSpace, Candidates: spaceCandidates, Fallback: Placeholder},
		{Field: FieldAudience, Candidates: []string{"público", "publico", "faixa etária", "faixa etaria", "faixa", "idade mín", "idade min", "idade recomendada", "classificação", "classificacao"}, Fallback: "Livre"},
		{Field: FieldResponsible, Candidates: responsibleCandidates, Fallback: Placeholder},
		{Field: FieldDay, Candidates: dayCandidates, Fallback: Placeholder},
		{Field: FieldStart, Candidates: startCandidates, Fallback: Placeholder},
		{Field: FieldEnd, Candidates: endCandidates, Fallback: Placeholder},
	},
}

// SpaceUsageTable resolves rows of the space schedule tab. A slot without an
// activity is shown as free.
var SpaceUsageTable = Table{
	Name: "spaces",
	Rules: []Rule{
		{Field: FieldName, Candidates: []string{"atividade", "evento", "uso", "ocupação", "ocupacao", "turma"}, Fallback: "Livre"},
		{Field: FieldSpace, Candidates: spaceCandidates, Fallback: Placeholder},
		{Field: FieldResponsible, Candidates: responsibleCandidates, Fallback: Placeholder},
		{Field: FieldDay, Candidates: dayCandidates, Fallback: Placeholder},
		{Field: FieldStart, Candidates: startCandidates, Fallback: Placeholder},
		{Field: FieldEnd, Candidates: endCandidates, Fallback: Placeholder},
	},
}
