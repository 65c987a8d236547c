package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/ceu-caminhodomar/portal/internal/cli/output"
	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/record"
	"github.com/ceu-caminhodomar/portal/internal/resolve"
	"github.com/ceu-caminhodomar/portal/internal/search"
	"github.com/ceu-caminhodomar/portal/internal/summary"
)

const sessionKeyBy = "by"

func (s *Server) routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/people", s.handlePeople)
		r.Route("/{dataset}", func(r chi.Router) {
			r.Get("/", s.handleFilter)
			r.Get("/options", s.handleOptions)
			r.Post("/{index}/summary", s.handleSummary)
		})
	})
}

type peopleResponse struct {
	output.PeopleView
	Error string `json:"error,omitempty"`
}

type filterResponse struct {
	Dataset  portal.Kind        `json:"dataset"`
	Criteria search.Criteria    `json:"criteria"`
	Total    int                `json:"total"`
	Results  []output.MatchView `json:"results"`
	Warning  string             `json:"warning,omitempty"`
}

type optionsResponse struct {
	Dataset portal.Kind `json:"dataset"`
	output.OptionsView
}

type summaryResponse struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Available bool   `json:"available"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"datasets": output.NewStatusViews(s.portal.Snapshot())})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	err := s.portal.Refresh(r.Context())
	s.notifier.Broadcast("refresh")
	if err != nil {
		s.logger.Error(portal.LoadErrorText, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":    portal.LoadErrorText,
			"datasets": output.NewStatusViews(s.portal.Snapshot()),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": output.NewStatusViews(s.portal.Snapshot())})
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	by, err := s.searchType(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.ensureLoaded(r, portal.People)
	columns := s.Columns()
	found := search.SearchPeople(res.Records(), columns, by, r.URL.Query().Get("q"))

	resp := peopleResponse{PeopleView: output.NewPeopleView(found, columns)}
	if res.Status == portal.StatusFailed {
		resp.Error = portal.LoadErrorText
	}
	writeJSON(w, http.StatusOK, resp)
}

// searchType returns the requested search type, remembering an explicit
// choice in the visitor's session.
func (s *Server) searchType(w http.ResponseWriter, r *http.Request) (search.SearchType, error) {
	session, _ := s.sessionStore.Get(r, sessionName)

	if raw := r.URL.Query().Get("by"); raw != "" {
		by, err := search.ParseSearchType(raw)
		if err != nil {
			return "", err
		}
		session.Values[sessionKeyBy] = string(by)
		if err := session.Save(r, w); err != nil {
			s.logger.Warn("failed to save session", "error", err)
		}
		return by, nil
	}

	if v, ok := session.Values[sessionKeyBy].(string); ok {
		if by, err := search.ParseSearchType(v); err == nil {
			return by, nil
		}
	}
	return search.ByNome, nil
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	kind, spec, ok := s.filterDataset(w, r)
	if !ok {
		return
	}

	res := s.ensureLoaded(r, kind)
	q := r.URL.Query()
	criteria := search.Criteria{
		Text:     q.Get("q"),
		Category: q.Get("space"),
		Day:      q.Get("day"),
	}
	matches := search.Filter(res.Records(), spec, criteria)

	writeJSON(w, http.StatusOK, filterResponse{
		Dataset:  kind,
		Criteria: criteria,
		Total:    res.Dataset.Len(),
		Results:  output.NewMatchViews(spec, matches),
		Warning:  res.Warning(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	kind, spec, ok := s.filterDataset(w, r)
	if !ok {
		return
	}

	records := s.ensureLoaded(r, kind).Records()
	writeJSON(w, http.StatusOK, optionsResponse{
		Dataset: kind,
		OptionsView: output.OptionsView{
			Categories: nonNil(search.Categories(records, spec)),
			Days:       nonNil(search.Days(records, spec)),
			Weekdays:   search.Weekdays,
		},
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	kind, err := portal.ParseKind(chi.URLParam(r, "dataset"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be a number")
		return
	}

	records := s.ensureLoaded(r, kind).Records()
	if index < 0 || index >= len(records) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	rec := records[index]

	text, err := s.summaries.Summarize(r.Context(), rec)
	if err != nil {
		s.logger.Warn("summary unavailable", "dataset", kind, "index", index, "error", err)
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Index:     index,
		Title:     recordTitle(kind, rec, s.Columns()),
		Summary:   summary.Inline(text, err),
		Available: err == nil,
	})
}

// handleEvents streams dataset status to the browser. A snapshot is sent on
// connect and again after every refresh or config reload.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	send := func(reason string) {
		err := sse.MarshalAndPatchSignals(map[string]any{
			"reason":   reason,
			"at":       time.Now().UTC(),
			"datasets": output.NewStatusViews(s.portal.Snapshot()),
		})
		if err != nil {
			_ = sse.ConsoleError(err)
		}
	}

	send("ready")
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-updates:
			if !ok {
				return
			}
			send(ev.Reason)
		}
	}
}

// filterDataset resolves the {dataset} parameter for the filterable views.
func (s *Server) filterDataset(w http.ResponseWriter, r *http.Request) (portal.Kind, search.Spec, bool) {
	kind, err := portal.ParseKind(chi.URLParam(r, "dataset"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", search.Spec{}, false
	}
	switch kind {
	case portal.Spaces:
		return kind, search.SpacesSpec, true
	case portal.Activities:
		return kind, search.ActivitiesSpec, true
	default:
		writeError(w, http.StatusNotFound, "dataset has no filter view: "+string(kind))
		return "", search.Spec{}, false
	}
}

// ensureLoaded fetches a dataset the first time it is requested.
func (s *Server) ensureLoaded(r *http.Request, k portal.Kind) portal.Result {
	if s.portal.Result(k).Status == portal.StatusPending {
		if err := s.portal.LoadOne(r.Context(), k); err != nil {
			s.logger.Error(portal.LoadErrorText, "dataset", k, "error", err)
		}
	}
	return s.portal.Result(k)
}

func recordTitle(kind portal.Kind, rec record.Record, columns search.ColumnMapping) string {
	switch kind {
	case portal.Spaces:
		return resolve.SpaceUsageTable.Resolve(rec).Get(resolve.FieldName)
	case portal.Activities:
		return resolve.ActivityTable.Resolve(rec).Get(resolve.FieldName)
	default:
		return search.PersonTitle(rec, columns)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
