// Package portal holds the three in-memory datasets and loads them from the
// spreadsheet source.
//
// Each dataset lands in its own result container. A people failure is
// returned to the caller and keeps whatever was loaded before; a space or
// activity failure becomes an empty dataset and a logged warning.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ceu-caminhodomar/portal/internal/record"
)

// LoadErrorText is the banner shown when the people dataset cannot be loaded.
const LoadErrorText = "Erro ao carregar dados da planilha. Verifique a conexão."

// Kind identifies one of the portal datasets.
type Kind string

// Dataset kinds.
const (
	People     Kind = "people"
	Spaces     Kind = "spaces"
	Activities Kind = "activities"
)

// Kinds lists every dataset kind in load order.
var Kinds = []Kind{People, Spaces, Activities}

// ParseKind validates a dataset name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown dataset %q", s)
}

// Status is the state of one dataset container.
type Status string

// Dataset statuses.
const (
	StatusPending Status = "pending"
	StatusLoaded  Status = "loaded"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// Fetcher reads one tab of the spreadsheet source.
type Fetcher interface {
	Fetch(ctx context.Context, tab string) (record.Dataset, error)
}

// Tabs names the source tab of each dataset.
type Tabs struct {
	People     string `koanf:"people" json:"people" yaml:"people"`
	Spaces     string `koanf:"spaces" json:"spaces" yaml:"spaces"`
	Activities string `koanf:"activities" json:"activities" yaml:"activities"`
}

// Tab returns the tab configured for a kind.
func (t Tabs) Tab(k Kind) string {
	switch k {
	case People:
		return t.People
	case Spaces:
		return t.Spaces
	case Activities:
		return t.Activities
	}
	return ""
}

// Result is one dataset container.
type Result struct {
	Kind     Kind           `json:"kind"`
	Tab      string         `json:"tab"`
	Status   Status         `json:"status"`
	Dataset  record.Dataset `json:"-"`
	Err      error          `json:"-"`
	LoadID   string         `json:"load_id,omitempty"`
	LoadedAt time.Time      `json:"loaded_at,omitzero"`
}

// Records returns the dataset records.
func (r Result) Records() []record.Record {
	return r.Dataset.Records
}

// Warning returns the error text of a failed load, if any.
func (r Result) Warning() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Portal owns the datasets. It is safe for concurrent use.
type Portal struct {
	mu      sync.RWMutex
	fetcher Fetcher
	tabs    Tabs
	results map[Kind]Result
	logger  *slog.Logger
}

// New creates a portal with every dataset pending.
func New(fetcher Fetcher, tabs Tabs, logger *slog.Logger) *Portal {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Portal{
		fetcher: fetcher,
		tabs:    tabs,
		results: make(map[Kind]Result, len(Kinds)),
		logger:  logger,
	}
	for _, k := range Kinds {
		p.results[k] = Result{Kind: k, Tab: tabs.Tab(k), Status: StatusPending}
	}
	return p
}

// Reconfigure swaps the fetcher and tab names used by later loads.
// Loaded data stays until the next load.
func (p *Portal) Reconfigure(fetcher Fetcher, tabs Tabs) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetcher = fetcher
	p.tabs = tabs
}

// Load fetches the three datasets concurrently and applies the results.
// Only a people failure is returned.
func (p *Portal) Load(ctx context.Context) error {
	p.mu.RLock()
	fetcher, tabs := p.fetcher, p.tabs
	p.mu.RUnlock()

	loadID := uuid.NewString()
	logger := p.logger.With("load_id", loadID)
	logger.Debug("loading datasets")

	fetched := make([]Result, len(Kinds))
	var g errgroup.Group
	for i, k := range Kinds {
		g.Go(func() error {
			fetched[i] = fetchOne(ctx, fetcher, k, tabs.Tab(k), loadID)
			return nil
		})
	}
	_ = g.Wait()

	var peopleErr error
	for _, res := range fetched {
		if res.Kind == People && res.Err != nil {
			peopleErr = res.Err
		}
		p.apply(logger, res)
	}
	return peopleErr
}

// LoadOne refetches a single dataset, following the same failure rules as Load.
func (p *Portal) LoadOne(ctx context.Context, k Kind) error {
	p.mu.RLock()
	fetcher, tab := p.fetcher, p.tabs.Tab(k)
	p.mu.RUnlock()

	loadID := uuid.NewString()
	res := fetchOne(ctx, fetcher, k, tab, loadID)
	p.apply(p.logger.With("load_id", loadID), res)
	if k == People {
		return res.Err
	}
	return nil
}

// Refresh re-issues all fetches. Results are applied last-write-wins.
func (p *Portal) Refresh(ctx context.Context) error {
	return p.Load(ctx)
}

func fetchOne(ctx context.Context, fetcher Fetcher, k Kind, tab, loadID string) Result {
	res := Result{Kind: k, Tab: tab, LoadID: loadID, LoadedAt: time.Now()}
	if fetcher == nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("load %s: no data source configured", k)
		return res
	}

	ds, err := fetcher.Fetch(ctx, tab)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("load %s: %w", k, err)
		res.Dataset = record.Dataset{Tab: tab}
		return res
	}

	res.Dataset = ds
	res.Status = StatusLoaded
	if ds.IsEmpty() {
		res.Status = StatusEmpty
	}
	return res
}

func (p *Portal) apply(logger *slog.Logger, res Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if res.Err != nil {
		if res.Kind == People {
			// Keep the records of the previous successful load.
			res.Dataset = p.results[People].Dataset
			logger.Error("people dataset failed", "tab", res.Tab, "error", res.Err)
		} else {
			logger.Warn("dataset unavailable, using empty dataset",
				"dataset", res.Kind, "tab", res.Tab, "error", res.Err)
		}
	} else {
		logger.Info("dataset loaded", "dataset", res.Kind, "tab", res.Tab, "records", res.Dataset.Len())
	}
	p.results[res.Kind] = res
}

// Result returns the current container of a dataset.
func (p *Portal) Result(k Kind) Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.results[k]
}

// Records returns the current records of a dataset.
func (p *Portal) Records(k Kind) []record.Record {
	return p.Result(k).Records()
}

// Snapshot returns every dataset container in load order.
func (p *Portal) Snapshot() []Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Result, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, p.results[k])
	}
	return out
}
