// Package sheets reads spreadsheet tabs through the Google Sheets v4 values API.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ceu-caminhodomar/portal/internal/record"
)

// DefaultBaseURL is the public Sheets v4 endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com/v4"

// DefaultTimeout bounds a single read request.
const DefaultTimeout = 10 * time.Second

// ErrSourceUnavailable is matched by every fetch failure: network errors,
// non-success responses and undecodable bodies.
var ErrSourceUnavailable = errors.New("spreadsheet source unavailable")

// SourceError describes a failed read of one tab.
type SourceError struct {
	Tab        string
	StatusCode int
	Message    string
	Err        error
}

func (e *SourceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to read tab %q", e.Tab)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is makes every SourceError match ErrSourceUnavailable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// Config holds the spreadsheet coordinates and transport settings.
type Config struct {
	SheetID   string
	AccessKey string
	BaseURL   string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Client fetches tabs of a single spreadsheet.
type Client struct {
	sheetID    string
	accessKey  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client. An empty access key issues anonymous reads.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		sheetID:   cfg.SheetID,
		accessKey: cfg.AccessKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type valuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// valuesURL builds the read URL for the full range of a tab.
func (c *Client) valuesURL(tab string) string {
	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		c.baseURL, url.PathEscape(c.sheetID), url.PathEscape(tab))
	if c.accessKey != "" {
		u += "?" + url.Values{"key": {c.accessKey}}.Encode()
	}
	return u
}

// Fetch reads every row of the named tab and converts it into a dataset.
// A tab with no rows (or a response without values) is an empty dataset,
// not an error.
func (c *Client) Fetch(ctx context.Context, tab string) (record.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.valuesURL(tab), nil)
	if err != nil {
		return record.Dataset{}, &SourceError{Tab: tab, Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return record.Dataset{}, &SourceError{Tab: tab, Err: fmt.Errorf("error making request: %w", err)}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return record.Dataset{}, &SourceError{
			Tab:        tab,
			StatusCode: res.StatusCode,
			Message:    readErrorMessage(res.Body),
		}
	}

	var body valuesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return record.Dataset{}, &SourceError{Tab: tab, Err: fmt.Errorf("error decoding response: %w", err)}
	}

	ds := record.FromRows(tab, body.Values)
	c.logger.Debug("fetched tab",
		"tab", tab,
		"rows", len(body.Values),
		"records", ds.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return ds, nil
}

// readErrorMessage extracts the message from a Google API error envelope.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var env errorResponse
	if err := json.Unmarshal(data, &env); err == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	return ""
}
