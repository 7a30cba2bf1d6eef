package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-phase-monitor/internal/core/logic"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"github.com/penwyp/go-phase-monitor/internal/util"
)

const (
	DefaultTimeout = 5 * time.Second

	// Variable catalog limits, mirroring the server's clamp
	DefaultVariableLimit  = 200
	FilteredVariableLimit = 500
	MaxVariableLimit      = 2000

	maxErrorBody = 4 << 10
)

// Client talks to the process-logic server
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// ServerStatus is the server's summary of ingested variables and configured stations
type ServerStatus struct {
	Variables int      `json:"variables"`
	Stations  []string `json:"stations"`
}

// New creates a client for the server rooted at baseURL
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	// Routes are relative to the console's base path
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the server root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(route string, query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: route})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Fetch returns the current phase activity of every station
func (c *Client) Fetch(ctx context.Context) (phase.Snapshot, error) {
	body, err := c.get(ctx, "phase_status", nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]map[string]interface{}
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: phase status: %v", ErrParse, err)
	}
	if raw == nil {
		// "null" decodes without error but is not a snapshot
		return nil, fmt.Errorf("%w: phase status: empty document", ErrParse)
	}
	return toSnapshot(raw), nil
}

func toSnapshot(raw map[string]map[string]interface{}) phase.Snapshot {
	snapshot := make(phase.Snapshot, len(raw))
	for station, phases := range raw {
		flags := make(map[phase.PhaseID]bool, len(phases))
		for id, value := range phases {
			flags[phase.PhaseID(id)] = truthy(value)
		}
		snapshot[phase.StationID(station)] = flags
	}
	return snapshot
}

// truthy coerces a phase flag the way the browser console does: false, 0, "" and null are
// inactive, anything else is active
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// Variables lists variable names known to the server, optionally filtered by substring.
// A non-positive limit selects the console defaults.
func (c *Client) Variables(ctx context.Context, filter string, limit int) ([]string, error) {
	filter = strings.TrimSpace(filter)
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	query.Set("limit", strconv.Itoa(VariableLimit(filter, limit)))

	body, err := c.get(ctx, "api/variables", query)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := sonic.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("%w: variables: %v", ErrParse, err)
	}
	return names, nil
}

// VariableLimit resolves the limit sent for a variables query
func VariableLimit(filter string, limit int) int {
	if limit <= 0 {
		if filter != "" {
			return FilteredVariableLimit
		}
		return DefaultVariableLimit
	}
	if limit > MaxVariableLimit {
		return MaxVariableLimit
	}
	return limit
}

// SaveConfig stores a station's logic document on the server
func (c *Client) SaveConfig(ctx context.Context, doc *logic.Document) error {
	payload, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode logic document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("config", nil), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrMissingStation, serverMessage(body))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrNetwork, resp.StatusCode, serverMessage(body))
	}

	util.LogInfo("Logic configuration saved", util.F("station", doc.Station), util.F("steps", len(doc.Logic)))
	return nil
}

// DownloadCSV streams the phase log of station into w and returns the bytes written
func (c *Client) DownloadCSV(ctx context.Context, station string, w io.Writer) (int64, error) {
	if strings.TrimSpace(station) == "" {
		return 0, ErrMissingStation
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("download", url.Values{"station": {station}}), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return 0, ErrMissingStation
	case http.StatusNotFound:
		return 0, fmt.Errorf("%w: no log for station %s", ErrNotFound, station)
	default:
		return 0, fmt.Errorf("%w: unexpected status code %d", ErrNetwork, resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: reading csv: %v", ErrNetwork, err)
	}
	return n, nil
}

// ServerStatus returns the server's ingest summary
func (c *Client) ServerStatus(ctx context.Context) (*ServerStatus, error) {
	body, err := c.get(ctx, "status", nil)
	if err != nil {
		return nil, err
	}

	var status ServerStatus
	if err := sonic.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("%w: status: %v", ErrParse, err)
	}
	return &status, nil
}

func (c *Client) get(ctx context.Context, route string, query url.Values) ([]byte, error) {
	endpoint := c.endpoint(route, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrNetwork, route, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNetwork, route, err)
	}
	return body, nil
}

// serverMessage extracts the "message" or "error" field of a JSON error body
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := sonic.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}
