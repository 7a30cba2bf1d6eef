package monitor

import (
	"fmt"
	"os"

	"github.com/penwyp/go-phase-monitor/internal/core/phase"
	"gopkg.in/yaml.v3"
)

// StationsDocument is the on-disk list of station tabs
//
//	stations:
//	  - Press
//	  - Weld
type StationsDocument struct {
	Stations []string `yaml:"stations"`
}

// LoadStations reads a stations file. Blank and duplicate names are dropped.
func LoadStations(path string) ([]phase.StationID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stations file: %w", err)
	}

	var doc StationsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse stations file %s: %w", path, err)
	}

	stations := NormalizeStations(doc.Stations)
	if len(stations) == 0 {
		return nil, fmt.Errorf("stations file %s lists no stations", path)
	}
	if len(stations) > MaxStations {
		return nil, fmt.Errorf("stations file %s lists %d stations, at most %d are supported", path, len(stations), MaxStations)
	}
	return stations, nil
}

// ResolveStations picks the initial tabs: explicit names, then the stations file, then
// StationCount default names
func ResolveStations(c *MonitorConfig) ([]phase.StationID, error) {
	if len(c.Stations) > 0 {
		stations := NormalizeStations(c.Stations)
		if len(stations) == 0 {
			return nil, fmt.Errorf("no usable station names given")
		}
		return stations, nil
	}
	if c.StationsFile != "" {
		return LoadStations(c.StationsFile)
	}
	return NormalizeStations(DefaultStationNames(c.StationCount)), nil
}
