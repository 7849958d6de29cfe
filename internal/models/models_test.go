package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityVariants(t *testing.T) {
	tu := &TripUpdate{RouteID: "1"}
	vp := &VehiclePosition{RouteID: "G", StopID: "G22N"}

	tests := []struct {
		name    string
		entity  Entity
		wantTU  *TripUpdate
		wantVeh *VehiclePosition
	}{
		{"trip update", Entity{ID: "a", Payload: tu}, tu, nil},
		{"vehicle", Entity{ID: "b", Payload: vp}, nil, vp},
		{"neither", Entity{ID: "c"}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTU, tt.entity.TripUpdate())
			assert.Equal(t, tt.wantVeh, tt.entity.Vehicle())
		})
	}
}

func TestEntityJSONKeepsVariant(t *testing.T) {
	arrival := int64(1000)
	msg := FeedMessage{
		Header: Header{Version: "1.0", Timestamp: 42},
		Entities: []Entity{
			{ID: "1", Payload: &TripUpdate{RouteID: "1", StopTimeUpdates: []StopTimeUpdate{{StopID: "127S", Arrival: &arrival}}}},
			{ID: "2", Payload: &VehiclePosition{RouteID: "1", StopID: "127S"}},
			{ID: "3"},
		},
	}

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tripUpdate"`)
	assert.Contains(t, string(b), `"vehicle"`)

	var got FeedMessage
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got.Entities, 3)
	require.NotNil(t, got.Entities[0].TripUpdate())
	assert.Equal(t, int64(1000), *got.Entities[0].TripUpdate().StopTimeUpdates[0].Arrival)
	require.NotNil(t, got.Entities[1].Vehicle())
	assert.Equal(t, "127S", got.Entities[1].Vehicle().StopID)
	assert.Nil(t, got.Entities[2].Payload)
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, int64(0), Minutes(1059, 1000))
	assert.Equal(t, int64(1), Minutes(1060, 1000))
	assert.Equal(t, int64(4), Minutes(1299, 1000))
}

func TestSplitStopID(t *testing.T) {
	tests := []struct {
		in      string
		station string
		dir     Direction
		ok      bool
	}{
		{"127S", "127", South, true},
		{"G22N", "G22", North, true},
		{"127", "127", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			station, dir, ok := SplitStopID(tt.in)
			assert.Equal(t, tt.station, station)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("N")
	require.NoError(t, err)
	assert.Equal(t, North, d)

	_, err = ParseDirection("E")
	assert.Error(t, err)
	_, err = ParseDirection("")
	assert.Error(t, err)
}
