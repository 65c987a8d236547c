package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceu-caminhodomar/portal/internal/cli/output"
	"github.com/ceu-caminhodomar/portal/internal/cli/testutil"
	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/record"
	"github.com/ceu-caminhodomar/portal/internal/resolve"
	"github.com/ceu-caminhodomar/portal/internal/search"
)

var mapping = search.ColumnMapping{Carteirinha: "CARTEIRINHA", EOL: "CÓDIGO EOL", Nome: "NOME DO ALUNO"}

func people() []record.Record {
	return record.FromRows("Página1", [][]string{
		{"NOME DO ALUNO", "CÓDIGO EOL", "CARTEIRINHA"},
		{"Ana Silva", "123", "C-01"},
		{"Bruno Costa", "456", "C-02"},
	}).Records
}

func activities() []record.Record {
	return record.FromRows("Atividades", [][]string{
		{"Atividade", "Público Alvo", "Espaço", "Dias", "Início"},
		{"Capoeira", "Infantil", "Quadra", "Seg/Qua", "08:00"},
		{"", "", "Sala 1", "Terça", ""},
	}).Records
}

func TestMode(t *testing.T) {
	assert.Equal(t, output.ModeJSON, output.Mode("JSON"))
	assert.Equal(t, output.ModeText, output.Mode(" text "))
	assert.Equal(t, output.ModeMarkdown, output.Mode("markdown"))
	assert.Equal(t, output.ModeAuto, output.Mode(""))
	assert.Equal(t, output.ModeAuto, output.Mode("xml"))
}

func TestEffectiveMode(t *testing.T) {
	assert.Equal(t, output.ModeText, testutil.NewTestRenderer(output.ModeAuto, true).EffectiveMode())
	assert.Equal(t, output.ModeMarkdown, testutil.NewTestRenderer(output.ModeAuto, false).EffectiveMode())
	assert.Equal(t, output.ModeJSON, testutil.NewTestRenderer(output.ModeJSON, true).EffectiveMode())

	var buf bytes.Buffer
	r := output.NewRenderer(&buf, &buf, output.ModeAuto)
	assert.False(t, r.IsTTY(), "buffers are not terminals")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Título", output.FormatHeader(2, "Título"))
	assert.Equal(t, "# X", output.FormatHeader(0, "X"))
	assert.Equal(t, "- **Dia**: Seg", output.FormatKeyValue("Dia", "Seg"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Responsável", output.FieldLabel(resolve.FieldResponsible))
	assert.Equal(t, "Custom", output.FieldLabel(resolve.Field("custom")))
	assert.Equal(t, "Carteirinha", output.SearchTypeLabel(search.ByCarteirinha))
	assert.Equal(t, "Nome", output.SearchTypeLabel(search.ByNome))
	assert.Equal(t, "EOL", output.SearchTypeLabel(search.ByEOL))
}

func TestPeople_Markdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	res := search.SearchPeople(people(), mapping, search.ByNome, "ana")

	require.NoError(t, tr.People(res, mapping))
	out := tr.Output()
	assert.Contains(t, out, `# Pesquisa por Nome: "ana" (1)`)
	assert.Contains(t, out, "## 1. Ana Silva")
	assert.Contains(t, out, "- **CÓDIGO EOL**: 123")
	assert.NotContains(t, out, "Bruno")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestPeople_States(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, tr.People(search.SearchPeople(people(), mapping, search.ByNome, ""), mapping))
	assert.Contains(t, tr.Output(), output.NoSearchText)
	assert.NotContains(t, tr.Output(), output.NoResultsText)

	tr.Reset()
	require.NoError(t, tr.People(search.SearchPeople(people(), mapping, search.ByEOL, "999"), mapping))
	assert.Contains(t, tr.Output(), output.NoResultsText)
}

func TestPeople_Text(t *testing.T) {
	tr := testutil.NewTestRendererText()
	res := search.SearchPeople(people(), mapping, search.ByCarteirinha, "c-0")

	require.NoError(t, tr.People(res, mapping))
	out := tr.Output()
	assert.Contains(t, out, "Ana Silva")
	assert.Contains(t, out, "Bruno Costa")
	assert.Contains(t, out, "C-02")
}

func TestPeople_JSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	res := search.SearchPeople(people(), mapping, search.ByEOL, "999")
	require.NoError(t, tr.People(res, mapping))

	var got output.PeopleView
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.True(t, got.Searched)
	assert.Equal(t, search.ByEOL, got.By)
	assert.NotNil(t, got.Results)
	assert.Empty(t, got.Results)
	assert.Contains(t, tr.Output(), `"results": []`)
}

func TestMatches(t *testing.T) {
	matches := search.Filter(activities(), search.ActivitiesSpec, search.Criteria{})

	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, tr.Matches("Atividades", search.ActivitiesSpec, matches))
		out := tr.Output()
		assert.Contains(t, out, "# Atividades (2)")
		assert.Contains(t, out, "## 1. Capoeira")
		assert.Contains(t, out, "## 2. Sem atividade")
		assert.Contains(t, out, "- **Público**: Infantil")
		assert.Contains(t, out, "- **Espaço**: Sala 1")
	})

	t.Run("text", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		require.NoError(t, tr.Matches("Atividades", search.ActivitiesSpec, matches))
		out := tr.Output()
		assert.Contains(t, out, "Responsável")
		assert.Contains(t, out, "Capoeira")
		assert.Contains(t, out, "Livre")
	})

	t.Run("json", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		require.NoError(t, tr.Matches("Atividades", search.ActivitiesSpec, matches))
		var got []output.MatchView
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Capoeira", got[0].Fields[resolve.FieldName])
		assert.Equal(t, 1, got[1].Index)
	})

	t.Run("empty", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, tr.Matches("Espaços", search.SpacesSpec, nil))
		assert.Contains(t, tr.Output(), output.NoResultsText)
	})
}

func TestNewMatchViews_ResolvesWhenFieldsMissing(t *testing.T) {
	recs := activities()
	views := output.NewMatchViews(search.ActivitiesSpec, []search.Match{{Index: 0, Record: recs[0]}})
	require.Len(t, views, 1)
	assert.Equal(t, "Quadra", views[0].Fields[resolve.FieldSpace])
}

func TestOptions(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, tr.Options("Filtros", output.OptionsView{Categories: []string{"Quadra"}, Weekdays: search.Weekdays}))
	out := tr.Output()
	assert.Contains(t, out, "- **Espaços**: Quadra")
	assert.Contains(t, out, "- **Dias**: -")
	assert.Contains(t, out, "Segunda, Terça")
}

func TestStatus(t *testing.T) {
	results := []portal.Result{
		{Kind: portal.People, Tab: "Página1", Status: portal.StatusLoaded, Dataset: record.Dataset{Records: people()}},
		{Kind: portal.Activities, Tab: "Atividades", Status: portal.StatusFailed, Err: errors.New("status 400")},
	}

	views := output.NewStatusViews(results)
	require.Len(t, views, 2)
	assert.Equal(t, 2, views[0].Records)
	assert.Equal(t, "status 400", views[1].Warning)

	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, tr.Status(results))
	assert.Contains(t, tr.Output(), "- **people**: loaded (Página1, 2 registros)")

	tr = testutil.NewTestRendererText()
	require.NoError(t, tr.Status(results))
	assert.Contains(t, tr.Output(), "failed")
}

func TestSummary(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, tr.Summary("Ana Silva", "Aluna regular."))
	assert.Contains(t, tr.Output(), "## Ana Silva\n> Aluna regular.")

	tr = testutil.NewTestRendererJSON()
	require.NoError(t, tr.Summary("Ana Silva", "Aluna regular."))
	var got output.SummaryView
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, "Aluna regular.", got.Summary)
}

func TestDiagnosticsGoToErrWriter(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	tr.Warning("aviso")
	tr.Error("falha")
	assert.Empty(t, tr.Output())
	assert.Contains(t, tr.ErrorOutput(), "aviso")
	assert.Contains(t, tr.ErrorOutput(), "falha")
}
