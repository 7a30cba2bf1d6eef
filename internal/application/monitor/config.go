package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
)

const (
	DefaultPollInterval   = 1000 * time.Millisecond
	DefaultRenderInterval = 200 * time.Millisecond
	DefaultRequestTimeout = 5 * time.Second
	DefaultServerURL      = "http://localhost:8080/"
	MaxStations           = 9
)

// MonitorConfig contains configuration for the live phase console
type MonitorConfig struct {
	// Server settings
	ServerURL      string
	RequestTimeout time.Duration

	// Loop cadences
	PollInterval   time.Duration
	RenderInterval time.Duration

	// Station tabs: explicit names win over StationsFile, which wins over StationCount
	Stations     []string
	StationsFile string
	StationCount int

	// Display settings
	Timezone string
}

// Validate fills defaults and checks the configuration
func (c *MonitorConfig) Validate() error {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.RenderInterval == 0 {
		c.RenderInterval = DefaultRenderInterval
	}
	if c.StationCount == 0 {
		c.StationCount = 1
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}

	if c.PollInterval < 0 || c.RenderInterval < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("intervals must be positive")
	}
	if c.RenderInterval >= c.PollInterval {
		return fmt.Errorf("render interval (%s) must be shorter than poll interval (%s)", c.RenderInterval, c.PollInterval)
	}
	if c.StationCount < 1 || c.StationCount > MaxStations {
		return fmt.Errorf("station count must be between 1 and %d, got %d", MaxStations, c.StationCount)
	}
	if len(c.Stations) > MaxStations {
		return fmt.Errorf("at most %d stations can be shown, got %d", MaxStations, len(c.Stations))
	}
	return nil
}

// DefaultStationNames returns "Station 1".."Station n", the names new tabs start with
func DefaultStationNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Station %d", i+1)
	}
	return names
}

// NormalizeStations trims names and drops blanks and duplicates, keeping order
func NormalizeStations(names []string) []phase.StationID {
	seen := make(map[string]struct{}, len(names))
	out := make([]phase.StationID, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, phase.StationID(n))
	}
	return out
}
