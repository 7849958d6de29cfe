package stations

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stopsCSV = `stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station
127,Times Sq-42 St,40.75529,-73.987495,1,
127N,Times Sq-42 St,40.75529,-73.987495,,127
127S,Times Sq-42 St,40.75529,-73.987495,,127
130,23 St,40.744081,-73.995657,1,
R19,23 St,40.741303,-73.989344,1,
N09S,23 St,40.741303,-73.989344,,N09
,Nameless,0,0,,
X01,,0,0,,
`

func TestBuild(t *testing.T) {
	tables, err := Build(strings.NewReader(stopsCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"127", "127N", "127S"}, tables.IDs("Times Sq-42 St"))
	assert.Equal(t, []string{"130", "R19", "N09S"}, tables.IDs("23 St"))
	assert.Equal(t, "23 St", tables.IDToName["N09S"])
	assert.NotContains(t, tables.NameToIDs, "Nameless")
	assert.NotContains(t, tables.IDToName, "X01")
}

func TestName(t *testing.T) {
	tables := &Tables{IDToName: map[string]string{"127": "Times Sq-42 St", "G22N": "Court Sq"}}

	tests := []struct {
		id    string
		want  string
		found bool
	}{
		{"127", "Times Sq-42 St", true},
		{"127S", "Times Sq-42 St", true},
		{"G22N", "Court Sq", true},
		{"999", "", false},
		{"999N", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			name, ok := tables.Name(tt.id)
			assert.Equal(t, tt.want, name)
			assert.Equal(t, tt.found, ok)
		})
	}

	var empty *Tables
	_, ok := empty.Name("127")
	assert.False(t, ok)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	tables, err := Build(strings.NewReader(stopsCSV))
	require.NoError(t, err)

	require.NoError(t, tables.Save(dir))
	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, tables, loaded)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestBuildFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stops.txt")
	require.NoError(t, os.WriteFile(path, []byte(stopsCSV), 0o644))

	tables, err := BuildFile(path)
	require.NoError(t, err)
	assert.Len(t, tables.IDToName, 6)

	_, err = BuildFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLineStations(t *testing.T) {
	dir := t.TempDir()
	ls := NewLineStations(map[string]map[string]struct{}{
		"1": {"128": {}, "127": {}},
		"G": {},
	})
	assert.Equal(t, []string{"127", "128"}, ls["1"])
	assert.Empty(t, ls["G"])

	require.NoError(t, SaveLineStations(dir, ls))
	loaded, err := LoadLineStations(dir)
	require.NoError(t, err)
	assert.Equal(t, ls, loaded)
}
