// Package stations builds and loads the static station name lookup tables
// derived from the GTFS stops reference file.
package stations

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/jusunglee/nexttrain/internal/models"
)

const (
	NameToIDsFile    = "name_to_ids.json"
	IDToNameFile     = "id_to_name.json"
	LineStationsFile = "line_stations.json"
)

// Stop is one row of stops.txt. Only id and name are required.
type Stop struct {
	ID     string `csv:"stop_id"`
	Name   string `csv:"stop_name"`
	Parent string `csv:"parent_station"`
}

// Tables maps station names to stop ids and back
type Tables struct {
	NameToIDs map[string][]string
	IDToName  map[string]string
}

// Build parses a stops CSV into lookup tables. Rows without an id or name
// are skipped; ids under one name keep file order.
func Build(r io.Reader) (*Tables, error) {
	var stops []*Stop
	if err := gocsv.Unmarshal(r, &stops); err != nil {
		return nil, fmt.Errorf("parse stops: %w", err)
	}

	t := &Tables{
		NameToIDs: make(map[string][]string),
		IDToName:  make(map[string]string),
	}
	for _, s := range stops {
		if s.ID == "" || s.Name == "" {
			continue
		}
		t.NameToIDs[s.Name] = append(t.NameToIDs[s.Name], s.ID)
		t.IDToName[s.ID] = s.Name
	}
	return t, nil
}

// BuildFile is Build over a file path
func BuildFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Build(f)
}

// Name resolves a station or platform id to its name. Platform ids missing
// from the table fall back to their parent station.
func (t *Tables) Name(id string) (string, bool) {
	if t == nil {
		return "", false
	}
	if name, ok := t.IDToName[id]; ok {
		return name, true
	}
	if station, _, ok := models.SplitStopID(id); ok {
		name, found := t.IDToName[station]
		return name, found
	}
	return "", false
}

// IDs returns the stop ids sharing a station name
func (t *Tables) IDs(name string) []string {
	if t == nil {
		return nil
	}
	return t.NameToIDs[name]
}

// Save writes both tables as JSON into dir
func (t *Tables) Save(dir string) error {
	if err := writeJSON(filepath.Join(dir, NameToIDsFile), t.NameToIDs); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, IDToNameFile), t.IDToName)
}

// Load reads tables written by Save
func Load(dir string) (*Tables, error) {
	t := &Tables{}
	if err := readJSON(filepath.Join(dir, NameToIDsFile), &t.NameToIDs); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, IDToNameFile), &t.IDToName); err != nil {
		return nil, err
	}
	return t, nil
}

// LineStations is the persisted per-line station id list
type LineStations map[string][]string

// NewLineStations flattens per-line sets into sorted lists
func NewLineStations[S ~map[string]struct{}](in map[string]S) LineStations {
	out := make(LineStations, len(in))
	for line, set := range in {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[line] = ids
	}
	return out
}

// SaveLineStations writes ls into dir
func SaveLineStations(dir string, ls LineStations) error {
	return writeJSON(filepath.Join(dir, LineStationsFile), ls)
}

// LoadLineStations reads a list written by SaveLineStations
func LoadLineStations(dir string) (LineStations, error) {
	var ls LineStations
	if err := readJSON(filepath.Join(dir, LineStationsFile), &ls); err != nil {
		return nil, err
	}
	return ls, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
