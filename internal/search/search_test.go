package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceu-caminhodomar/portal/internal/record"
)

var defaultMapping = ColumnMapping{
	Carteirinha: "CARTEIRINHA",
	EOL:         "CÓDIGO EOL",
	Nome:        "NOME DO ALUNO",
}

func peopleDataset() record.Dataset {
	return record.FromRows("Página1", [][]string{
		{"NOME DO ALUNO", "CÓDIGO EOL", "CARTEIRINHA"},
		{"Ana Silva", "123", "C-01"},
	})
}

func TestSearchPeople_Scenarios(t *testing.T) {
	ds := peopleDataset()

	res := SearchPeople(ds.Records, defaultMapping, ByNome, "ana")
	assert.True(t, res.Searched)
	require.Len(t, res.Matches, 1)
	name, _ := res.Matches[0].Record.Get("NOME DO ALUNO")
	assert.Equal(t, "Ana Silva", name)

	res = SearchPeople(ds.Records, defaultMapping, ByEOL, "999")
	assert.True(t, res.Searched, "zero matches is still a computed search")
	assert.NotNil(t, res.Matches)
	assert.Empty(t, res.Matches)

	res = SearchPeople(ds.Records, defaultMapping, ByNome, "   ")
	assert.False(t, res.Searched, "blank term computes nothing")
	assert.Nil(t, res.Matches)
}

func TestSearchPeople_ExactHeaderMatch(t *testing.T) {
	ds := record.FromRows("t", [][]string{
		{"nome do aluno completo", "código eol"},
		{"Ana Silva", "123"},
	})

	res := SearchPeople(ds.Records, defaultMapping, ByNome, "ana")
	assert.Empty(t, res.Matches, "header lookup must not use substrings")

	res = SearchPeople(ds.Records, defaultMapping, ByEOL, "12")
	assert.Len(t, res.Matches, 1, "header lookup is case-insensitive")
}

func TestSearchPeople_CaseInsensitiveTerm(t *testing.T) {
	ds := record.FromRows("t", [][]string{
		{"NOME DO ALUNO", "CARTEIRINHA"},
		{"JOÃO PEREIRA", "c-77"},
		{"Maria João", "C-78"},
		{"Pedro", "C-79"},
	})

	res := SearchPeople(ds.Records, defaultMapping, ByNome, "  joão ")
	require.Len(t, res.Matches, 2)
	assert.Equal(t, 0, res.Matches[0].Index)
	assert.Equal(t, 1, res.Matches[1].Index)

	res = SearchPeople(ds.Records, defaultMapping, ByCarteirinha, "C-7")
	assert.Len(t, res.Matches, 3)
}

func TestParseSearchType(t *testing.T) {
	tests := []struct {
		in      string
		want    SearchType
		wantErr bool
	}{
		{in: "nome", want: ByNome},
		{in: " EOL ", want: ByEOL},
		{in: "Carteirinha", want: ByCarteirinha},
		{in: "cpf", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSearchType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPersonTitle(t *testing.T) {
	ds := peopleDataset()
	assert.Equal(t, "Ana Silva", PersonTitle(ds.Records[0], defaultMapping))
	assert.Equal(t, "Munícipe", PersonTitle(record.New(), defaultMapping))
}

func TestPeopleSession(t *testing.T) {
	ds := peopleDataset()
	s := NewPeopleSession()
	assert.False(t, s.HasSearched())

	res := s.Submit(ds.Records, defaultMapping, "ana")
	assert.True(t, s.HasSearched())
	assert.Len(t, res.Matches, 1)

	// Blank submission keeps the previous results.
	res = s.Submit(ds.Records, defaultMapping, " ")
	assert.Len(t, res.Matches, 1)
	assert.Equal(t, "ana", res.Term)

	s.By = ByEOL
	res = s.Submit(ds.Records, defaultMapping, "999")
	assert.Empty(t, res.Matches)
	assert.Equal(t, ByEOL, s.Last().By)
}

func TestPeopleSession_BlankFirstSubmission(t *testing.T) {
	s := NewPeopleSession()
	res := s.Submit(nil, defaultMapping, "")
	assert.True(t, s.HasSearched())
	assert.False(t, res.Searched)
	assert.Empty(t, res.Matches)
}

func activitiesDataset() record.Dataset {
	return record.FromRows("Atividades", [][]string{
		{"Atividade", "Público Alvo", "Responsável", "Espaço", "Dias", "Início", "Término"},
		{"Capoeira", "Infantil", "Mestre Bira", "Quadra", "Seg/Qua/Sex", "08:00", "09:00"},
		{"Dança de Salão", "Adulto", "Profa. Rita", "Sala 2", "Terça", "19:00", "20:30"},
		{"Judô", "Juvenil", "Sensei Kato", "Sala 1", "Sábado", "10:00", "11:00"},
		{"", "", "", "Quadra", "Quinta", "", ""},
	})
}

func TestFilter_IdentityWithEmptyCriteria(t *testing.T) {
	ds := activitiesDataset()

	for _, c := range []Criteria{{}, {Category: All, Day: All}, {Text: "   ", Category: "ALL"}} {
		got := Filter(ds.Records, ActivitiesSpec, c)
		require.Len(t, got, ds.Len())
		for i, m := range got {
			assert.Equal(t, i, m.Index)
			assert.Equal(t, ds.Records[i], m.Record)
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	ds := activitiesDataset()
	criteria := []Criteria{
		{Text: "sala"},
		{Category: "Quadra"},
		{Day: "Segunda"},
		{Text: "a", Day: "Sexta"},
		{Text: "zzz"},
	}

	for _, c := range criteria {
		once := Filter(ds.Records, ActivitiesSpec, c)
		twice := Filter(Records(once), ActivitiesSpec, c)
		assert.Equal(t, Records(once), Records(twice), "%+v", c)
	}
}

func TestFilter_TextSearchesNameResponsibleAndSpace(t *testing.T) {
	ds := activitiesDataset()

	tests := []struct {
		text string
		want []int
	}{
		{text: "capoeira", want: []int{0}},
		{text: "RITA", want: []int{1}},
		{text: "sala", want: []int{1, 2}},
		{text: "infantil", want: []int{}},
		{text: "sem atividade", want: []int{3}},
		{text: "-", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Filter(ds.Records, ActivitiesSpec, Criteria{Text: tt.text})
			idx := []int{}
			for _, m := range got {
				idx = append(idx, m.Index)
			}
			assert.Equal(t, tt.want, idx)
		})
	}
}

func TestFilter_CategoryIsExact(t *testing.T) {
	ds := activitiesDataset()

	got := Filter(ds.Records, ActivitiesSpec, Criteria{Category: "Quadra"})
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 3, got[1].Index)

	assert.Empty(t, Filter(ds.Records, ActivitiesSpec, Criteria{Category: "Sala"}))
	assert.Empty(t, Filter(ds.Records, ActivitiesSpec, Criteria{Category: "quadra"}))
}

func TestFilter_DayMultiValueCell(t *testing.T) {
	ds := activitiesDataset()

	for _, day := range []string{"Segunda", "Quarta", "Sexta", "seg"} {
		got := Filter(ds.Records, ActivitiesSpec, Criteria{Day: day})
		require.Len(t, got, 1, day)
		assert.Equal(t, 0, got[0].Index)
	}

	got := Filter(ds.Records, ActivitiesSpec, Criteria{Day: "Terça-feira"})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Index)

	got = Filter(ds.Records, ActivitiesSpec, Criteria{Day: "Sabado"})
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Index)
}

func TestFilter_CriteriaCombineWithAnd(t *testing.T) {
	ds := activitiesDataset()

	got := Filter(ds.Records, ActivitiesSpec, Criteria{Category: "Quadra", Day: "Quinta"})
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Index)

	assert.Empty(t, Filter(ds.Records, ActivitiesSpec, Criteria{Text: "capoeira", Day: "Quinta"}))
}

func TestFilter_SpaceUsage(t *testing.T) {
	ds := record.FromRows("Espaços", [][]string{
		{"Espaço", "Atividade", "Responsável", "Dia", "Horário"},
		{"Teatro", "Ensaio coral", "Coral CEU", "Segunda", "14:00"},
		{"Teatro", "", "", "Terça", "14:00"},
		{"Biblioteca", "Contação de histórias", "Equipe Biblioteca", "Seg/Qua", "09:00"},
	})

	got := Filter(ds.Records, SpacesSpec, Criteria{Category: "Teatro"})
	require.Len(t, got, 2)
	assert.Equal(t, "Livre", got[1].Fields.Get("name"))

	got = Filter(ds.Records, SpacesSpec, Criteria{Text: "biblio", Day: "segunda"})
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Index)
}

func TestFilter_TextMatchesFallbackName(t *testing.T) {
	ds := record.FromRows("Espaços", [][]string{
		{"Espaço", "Atividade", "Responsável", "Dia", "Horário"},
		{"Teatro", "Ensaio coral", "Coral CEU", "Segunda", "14:00"},
		{"Teatro", "", "", "Terça", "14:00"},
	})

	got := Filter(ds.Records, SpacesSpec, Criteria{Text: "livre"})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, "Livre", got[0].Fields.Get("name"))

	assert.Empty(t, Filter(ds.Records, SpacesSpec, Criteria{Text: "-"}))
}

func TestCategoriesAndDays(t *testing.T) {
	ds := activitiesDataset()
	assert.Equal(t, []string{"Quadra", "Sala 2", "Sala 1"}, Categories(ds.Records, ActivitiesSpec))
	assert.Equal(t, []string{"Seg/Qua/Sex", "Terça", "Sábado", "Quinta"}, Days(ds.Records, ActivitiesSpec))
	assert.Empty(t, Categories(nil, SpacesSpec))
}

func TestDayToken(t *testing.T) {
	tests := map[string]string{
		"Segunda":       "seg",
		"segunda-feira": "seg",
		"Terça":         "ter",
		"Sábado":        "sab",
		"  DOM ":        "dom",
		"Qu":            "qu",
		"":              "",
		"2ª":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, DayToken(in), in)
	}
}

func TestMatchDay(t *testing.T) {
	assert.True(t, MatchDay("Seg/Qua/Sex", "Segunda"))
	assert.True(t, MatchDay("Seg/Qua/Sex", "Quarta"))
	assert.False(t, MatchDay("Seg/Qua/Sex", "Quinta"))
	assert.False(t, MatchDay("Seg/Qua/Sex", "Terça"))
	assert.True(t, MatchDay("terça e quinta", "Terca"))
	assert.True(t, MatchDay("SÁBADO", "sábado"))
	assert.False(t, MatchDay("Segunda", ""))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "terca", Fold("Terça"))
	assert.Equal(t, "sabado", Fold(" SÁBADO "))
	assert.Equal(t, "codigo eol", Fold("CÓDIGO EOL"))
}
