package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceu-caminhodomar/portal/internal/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, key string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		SheetID:   "sheet-123",
		AccessKey: key,
		BaseURL:   srv.URL,
		Logger:    testutil.NewTestLogger(t),
	})
}

func TestFetch_Success(t *testing.T) {
	var gotPath, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Página1!A1:C3","values":[[" NOME DO ALUNO ","CÓDIGO EOL","CARTEIRINHA"],["Ana Silva","123","C-01"],["Bruno"]]}`))
	}, "secret")

	ds, err := client.Fetch(context.Background(), "Página1")
	require.NoError(t, err)

	assert.Equal(t, "/spreadsheets/sheet-123/values/Página1", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, []string{"NOME DO ALUNO", "CÓDIGO EOL", "CARTEIRINHA"}, ds.Headers)
	require.Equal(t, 2, ds.Len())

	v, ok := ds.Records[1].Get("CARTEIRINHA")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestFetch_AnonymousOmitsKey(t *testing.T) {
	var rawQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"values":[["A"]]}`))
	}, "")

	_, err := client.Fetch(context.Background(), "Class Data")
	require.NoError(t, err)
	assert.Empty(t, rawQuery)
}

func TestFetch_EscapesTabName(t *testing.T) {
	client := NewClient(Config{SheetID: "id/with slash", BaseURL: "https://example.test/v4/"})
	assert.Equal(t,
		"https://example.test/v4/spreadsheets/id%2Fwith%20slash/values/Class%20Data",
		client.valuesURL("Class Data"))
}

func TestFetch_EmptyValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing values key", body: `{"range":"Atividades!A1:Z1000"}`},
		{name: "empty values", body: `{"values":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}, "k")

			ds, err := client.Fetch(context.Background(), "Atividades")
			require.NoError(t, err)
			assert.True(t, ds.IsEmpty())
			assert.Equal(t, "Atividades", ds.Tab)
		})
	}
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing tab",
			status:     http.StatusBadRequest,
			body:       `{"error":{"code":400,"message":"Unable to parse range: Atividades","status":"INVALID_ARGUMENT"}}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Unable to parse range",
		},
		{
			name:       "forbidden without envelope",
			status:     http.StatusForbidden,
			body:       `nope`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "undecodable body",
			status: http.StatusOK,
			body:   `{"values": "oops"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "k")

			_, err := client.Fetch(context.Background(), "Atividades")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSourceUnavailable))

			var srcErr *SourceError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, "Atividades", srcErr.Tab)
			assert.Equal(t, tt.wantStatus, srcErr.StatusCode)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFetch_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(Config{SheetID: "x", BaseURL: baseURL})
	_, err := client.Fetch(context.Background(), "Página1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestFetch_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"values":[["A"]]}`))
	}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, "Página1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
