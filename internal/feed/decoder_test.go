package feed

import (
	"errors"
	"testing"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/jusunglee/nexttrain/internal/feedtest"
	"github.com/jusunglee/nexttrain/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func TestDecode(t *testing.T) {
	fm := feedtest.Message(
		feedtest.TripEntity("t1", "1",
			feedtest.Stop{ID: "127S", Arrival: 1000},
			feedtest.Stop{ID: "128S"},
		),
		feedtest.VehicleEntity("v1", "G", "G22N"),
		&gtfs.FeedEntity{Id: proto.String("alert")},
	)

	msg, err := Decode(feedtest.Encode(t, fm))
	require.NoError(t, err)

	assert.Equal(t, "1.0", msg.Header.Version)
	assert.Equal(t, int64(1700000000), msg.Header.Timestamp)
	require.Len(t, msg.Entities, 3)

	tu := msg.Entities[0].TripUpdate()
	require.NotNil(t, tu)
	assert.Equal(t, "1", tu.RouteID)
	assert.Equal(t, "t1", tu.TripID)
	require.Len(t, tu.StopTimeUpdates, 2)
	assert.Equal(t, "127S", tu.StopTimeUpdates[0].StopID)
	require.NotNil(t, tu.StopTimeUpdates[0].Arrival)
	assert.Equal(t, int64(1000), *tu.StopTimeUpdates[0].Arrival)
	assert.Nil(t, tu.StopTimeUpdates[1].Arrival, "absent arrival stays absent")

	vp := msg.Entities[1].Vehicle()
	require.NotNil(t, vp)
	assert.Equal(t, "G", vp.RouteID)
	assert.Equal(t, "G22N", vp.StopID)

	assert.Nil(t, msg.Entities[2].Payload)
}

func TestDecodePreservesOrder(t *testing.T) {
	fm := feedtest.Message(
		feedtest.TripEntity("c", "1", feedtest.Stop{ID: "101N", Arrival: 3}),
		feedtest.TripEntity("a", "2", feedtest.Stop{ID: "101N", Arrival: 1}),
		feedtest.TripEntity("b", "3", feedtest.Stop{ID: "101N", Arrival: 2}),
	)

	msg, err := Decode(feedtest.Encode(t, fm))
	require.NoError(t, err)

	var ids []string
	for _, e := range msg.Entities {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestDecodeIsDeterministic(t *testing.T) {
	b := feedtest.Encode(t, feedtest.Message(
		feedtest.TripEntity("t1", "A", feedtest.Stop{ID: "A27N", Arrival: 10}),
		feedtest.VehicleEntity("v1", "A", "A27N"),
	))

	first, err := Decode(b)
	require.NoError(t, err)
	second, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeTripWithoutStopTimes(t *testing.T) {
	msg, err := Decode(feedtest.Encode(t, feedtest.Message(feedtest.TripEntity("t1", "1"))))
	require.NoError(t, err)

	tu := msg.Entities[0].TripUpdate()
	require.NotNil(t, tu)
	assert.Nil(t, tu.StopTimeUpdates)
}

func TestDecodeBothPayloadsKeepsTripUpdate(t *testing.T) {
	e := feedtest.TripEntity("t1", "1", feedtest.Stop{ID: "127S", Arrival: 1000})
	e.Vehicle = &gtfs.VehiclePosition{StopId: proto.String("127S")}

	msg, err := Decode(feedtest.Encode(t, feedtest.Message(e)))
	require.NoError(t, err)
	assert.NotNil(t, msg.Entities[0].TripUpdate())
	assert.Nil(t, msg.Entities[0].Vehicle())
}

func TestDecodeErrors(t *testing.T) {
	missingHeader, err := proto.MarshalOptions{AllowPartial: true}.Marshal(&gtfs.FeedMessage{})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte{0xff, 0xff, 0xff, 0xff}},
		{"truncated length-delimited field", []byte{0x0a, 0x10, 0x01}},
		{"missing required header", missingHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode(tt.data)
			assert.Nil(t, msg)
			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr), "got %v", err)
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}

func TestNormalizeEmptyFeed(t *testing.T) {
	msg := Normalize(feedtest.Message())
	assert.Equal(t, &models.FeedMessage{
		Header:   models.Header{Version: "1.0", Timestamp: 1700000000},
		Entities: []models.Entity{},
	}, msg)
}
