package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceu-caminhodomar/portal/internal/cli/config"
	"github.com/ceu-caminhodomar/portal/internal/cli/output"
	"github.com/ceu-caminhodomar/portal/internal/cli/testutil"
	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/summary"
)

func sheetTabs() map[string][][]string {
	return map[string][][]string{
		config.DefaultPeopleTab: {
			{"NOME DO ALUNO", "CÓDIGO EOL", "CARTEIRINHA", "TURMA"},
			{"Ana Silva", "123", "C-1", "3A"},
			{"Bruno Costa", "456", "C-2", ""},
		},
		config.DefaultSpacesTab: {
			{"Atividade", "Espaço", "Responsável", "Dia", "Início", "Fim"},
			{"Coral", "Teatro", "Rita", "Segunda", "09:00", "10:00"},
			{"Judô", "Quadra", "Paulo", "Terça e Quinta", "14:00", "15:00"},
		},
		config.DefaultActivitiesTab: {
			{"Oficina", "Público", "Sala", "Professor", "Dia", "Horário"},
			{"Xadrez", "Infantil", "Sala 2", "Marta", "Quarta", "10:00"},
		},
	}
}

// setupSheet points the CLI at a fake spreadsheet through the environment.
func setupSheet(t *testing.T) *testutil.SheetServer {
	t.Helper()
	t.Chdir(t.TempDir())
	srv := testutil.NewSheetServer(t, sheetTabs())
	t.Setenv("PORTAL_SHEET_ID", "sheet")
	t.Setenv("PORTAL_ACCESS_KEY", "secret-key")
	t.Setenv("PORTAL_BASE_URL", srv.URL)
	t.Setenv("PORTAL_AI__API_KEY", "")
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "portal v"+Version)
}

func TestPeopleCommand(t *testing.T) {
	setupSheet(t)

	out, _, err := execute(t, "people", "ana", "-o", "json")
	require.NoError(t, err)

	var view output.PeopleView
	require.NoError(t, json.Unmarshal([]byte(out), &view), out)
	assert.True(t, view.Searched)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "Ana Silva", view.Results[0].Title)
}

func TestPeopleCommandByEOL(t *testing.T) {
	setupSheet(t)

	out, _, err := execute(t, "people", "--by", "eol", "45", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Bruno Costa")
	assert.NotContains(t, out, "Ana Silva")
	testutil.AssertNoANSI(t, out)
}

func TestPeopleCommandNoTerm(t *testing.T) {
	setupSheet(t)

	out, _, err := execute(t, "people", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, output.NoSearchText)
}

func TestPeopleCommandLoadFailure(t *testing.T) {
	srv := setupSheet(t)
	srv.Fail(config.DefaultPeopleTab, http.StatusForbidden)

	_, _, err := execute(t, "people", "ana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), portal.LoadErrorText)
}

func TestPeopleCommandInvalidType(t *testing.T) {
	setupSheet(t)

	_, _, err := execute(t, "people", "--by", "cpf", "1")
	assert.Error(t, err)
}

func TestMissingSource(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORTAL_SHEET_ID", "")

	_, _, err := execute(t, "people", "ana")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNoSource)
}

func TestSpacesCommand(t *testing.T) {
	setupSheet(t)

	out, _, err := execute(t, "spaces", "--space", "Quadra", "--day", "quinta", "-o", "json")
	require.NoError(t, err)

	var views []output.MatchView
	require.NoError(t, json.Unmarshal([]byte(out), &views), out)
	require.Len(t, views, 1)
	assert.Equal(t, "Judô", views[0].Fields["name"])
}

func TestSpacesCommandOptions(t *testing.T) {
	setupSheet(t)

	out, _, err := execute(t, "spaces", "--options", "-o", "json")
	require.NoError(t, err)

	var opts output.OptionsView
	require.NoError(t, json.Unmarshal([]byte(out), &opts), out)
	assert.ElementsMatch(t, []string{"Teatro", "Quadra"}, opts.Categories)
}

func TestActivitiesCommandSecondaryFailure(t *testing.T) {
	srv := setupSheet(t)
	srv.Fail(config.DefaultActivitiesTab, http.StatusInternalServerError)

	out, _, err := execute(t, "activities", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, output.NoResultsText)
}

func TestSummaryCommandWithoutAI(t *testing.T) {
	setupSheet(t)

	out, _, err := execute(t, "summary", "ana", "-o", "json")
	require.NoError(t, err)

	var view output.SummaryView
	require.NoError(t, json.Unmarshal([]byte(out), &view), out)
	assert.Equal(t, "Ana Silva", view.Title)
	assert.Equal(t, summary.UnavailableText, view.Summary)
}

func TestSummaryCommandIndexOutOfRange(t *testing.T) {
	setupSheet(t)

	_, _, err := execute(t, "summary", "ana", "--index", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestConfigShow(t *testing.T) {
	setupSheet(t)

	out, _, err := execute(t, "config", "show", "--sheet-id", "from-flag")
	require.NoError(t, err)
	assert.Contains(t, out, "sheet_id: from-flag")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "secret-key")
}

func TestConfigShowDemo(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORTAL_SHEET_ID", "")

	out, _, err := execute(t, "config", "show", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, config.DemoSheetID)
	assert.Contains(t, out, config.DemoTab)
}

func TestInvalidOutputFlag(t *testing.T) {
	setupSheet(t)

	_, _, err := execute(t, "people", "ana", "-o", "xml")
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "portal")
}

func TestRootCommandMetadata(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "portal", cmd.Use)

	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"people", "spaces", "activities", "summary", "shell", "serve", "config", "version", "completion"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config", "sheet-id", "access-key", "demo", "verbose", "output", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}
