package fixtures

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-phase-monitor/internal/core/logic"
)

// PhaseServer is an in-process stand-in for the process-logic server
type PhaseServer struct {
	*httptest.Server

	mu        sync.Mutex
	status    map[string]map[string]bool
	failing   bool
	variables []string
	configs   map[string]*logic.Document
	logs      map[string]string
	requests  map[string]int
}

// NewPhaseServer starts a server reporting no activity
func NewPhaseServer() *PhaseServer {
	ps := &PhaseServer{
		status:   make(map[string]map[string]bool),
		configs:  make(map[string]*logic.Document),
		logs:     make(map[string]string),
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/phase_status", ps.handlePhaseStatus)
	mux.HandleFunc("/api/variables", ps.handleVariables)
	mux.HandleFunc("/config", ps.handleConfig)
	mux.HandleFunc("/download", ps.handleDownload)
	mux.HandleFunc("/status", ps.handleStatus)
	ps.Server = httptest.NewServer(mux)
	return ps
}

// SetPhase marks one phase of station active or inactive
func (ps *PhaseServer) SetPhase(station, phase string, active bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.status[station] == nil {
		ps.status[station] = make(map[string]bool)
	}
	ps.status[station][phase] = active
}

// SetFailing makes phase_status answer with a server error
func (ps *PhaseServer) SetFailing(failing bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.failing = failing
}

// SetVariables replaces the variable catalog
func (ps *PhaseServer) SetVariables(names ...string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.variables = append([]string(nil), names...)
}

// SetLog stores the CSV log served for station
func (ps *PhaseServer) SetLog(station, csv string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.logs[station] = csv
}

// Config returns the last logic document saved for station
func (ps *PhaseServer) Config(station string) (*logic.Document, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	doc, ok := ps.configs[station]
	return doc, ok
}

// Requests returns how often a route was called
func (ps *PhaseServer) Requests(route string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.requests[route]
}

func (ps *PhaseServer) count(r *http.Request) {
	ps.requests[r.URL.Path]++
}

func (ps *PhaseServer) handlePhaseStatus(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.count(r)

	if ps.failing {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ps.status)
}

func (ps *PhaseServer) handleVariables(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.count(r)

	filter := strings.ToLower(r.URL.Query().Get("filter"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 200
	}

	names := make([]string, 0, len(ps.variables))
	for _, n := range ps.variables {
		if filter == "" || strings.Contains(strings.ToLower(n), filter) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	writeJSON(w, http.StatusOK, names)
}

func (ps *PhaseServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.count(r)

	var doc logic.Document
	if err := sonic.Unmarshal(body, &doc); err != nil || strings.TrimSpace(doc.Station) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "station missing"})
		return
	}
	ps.configs[doc.Station] = &doc
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (ps *PhaseServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.count(r)

	station := r.URL.Query().Get("station")
	if station == "" {
		http.Error(w, "station missing", http.StatusBadRequest)
		return
	}
	csv, ok := ps.logs[station]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	_, _ = io.WriteString(w, csv)
}

func (ps *PhaseServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.count(r)

	stations := make([]string, 0, len(ps.configs))
	for s := range ps.configs {
		stations = append(stations, s)
	}
	sort.Strings(stations)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"variables": len(ps.variables),
		"stations":  stations,
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}
