package monitor

import (
	"context"
	"errors"
	"sync"

	"github.com/penwyp/go-phase-monitor/internal/core/model"
	"github.com/penwyp/go-phase-monitor/internal/core/phase"
)

// scriptedFetcher returns queued results in order, repeating the last one when the queue runs dry
type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	last    *fetchResult
	calls   int
}

type fetchResult struct {
	snapshot phase.Snapshot
	err      error
}

func (f *scriptedFetcher) push(snapshot phase.Snapshot, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, fetchResult{snapshot: snapshot, err: err})
}

func (f *scriptedFetcher) Fetch(ctx context.Context) (phase.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if len(f.results) > 0 {
		r := f.results[0]
		f.results = f.results[1:]
		f.last = &r
	}
	if f.last == nil {
		return nil, errors.New("no scripted result")
	}
	return f.last.snapshot, f.last.err
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type stubSelector struct {
	mu      sync.Mutex
	station phase.StationID
}

func (s *stubSelector) set(station phase.StationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.station = station
}

func (s *stubSelector) VisibleStation() (phase.StationID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.station, s.station != ""
}

type slotKey struct {
	station phase.StationID
	phase   phase.PhaseID
}

type recordedSlot struct {
	surface *recordingSurface
	key     slotKey
}

func (r recordedSlot) SetText(text string) {
	r.surface.mu.Lock()
	defer r.surface.mu.Unlock()
	r.surface.text[r.key] = text
}

func (r recordedSlot) SetActive(active bool) {
	r.surface.mu.Lock()
	defer r.surface.mu.Unlock()
	r.surface.active[r.key] = active
}

type recordingSurface struct {
	mu      sync.Mutex
	text    map[slotKey]string
	active  map[slotKey]bool
	flushes int
	health  model.PollHealth
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{
		text:   make(map[slotKey]string),
		active: make(map[slotKey]bool),
	}
}

func (s *recordingSurface) EnsureSlot(station phase.StationID, id phase.PhaseID) SlotHandle {
	return recordedSlot{surface: s, key: slotKey{station, id}}
}

func (s *recordingSurface) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
}

func (s *recordingSurface) SetPollHealth(h model.PollHealth) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = h
}

func (s *recordingSurface) textOf(station phase.StationID, id phase.PhaseID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text[slotKey{station, id}]
}

func (s *recordingSurface) activeOf(station phase.StationID, id phase.PhaseID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[slotKey{station, id}]
}

func (s *recordingSurface) flushCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

func (s *recordingSurface) slotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.text)
}
