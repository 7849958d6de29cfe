// Package feedtest builds GTFS-realtime fixtures for tests
package feedtest

import (
	"testing"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/jusunglee/nexttrain/internal/models"
	"google.golang.org/protobuf/proto"
)

// Stop is a stop time update fixture. Arrival 0 means no arrival time.
type Stop struct {
	ID      string
	Arrival int64
}

// TripEntity builds a protobuf trip update entity
func TripEntity(id, route string, stops ...Stop) *gtfs.FeedEntity {
	tu := &gtfs.TripUpdate{
		Trip: &gtfs.TripDescriptor{
			TripId:  proto.String(id),
			RouteId: proto.String(route),
		},
	}
	for _, s := range stops {
		stu := &gtfs.TripUpdate_StopTimeUpdate{StopId: proto.String(s.ID)}
		if s.Arrival != 0 {
			stu.Arrival = &gtfs.TripUpdate_StopTimeEvent{Time: proto.Int64(s.Arrival)}
		}
		tu.StopTimeUpdate = append(tu.StopTimeUpdate, stu)
	}
	return &gtfs.FeedEntity{Id: proto.String(id), TripUpdate: tu}
}

// VehicleEntity builds a protobuf vehicle position entity. An empty stopID
// leaves the current stop unset.
func VehicleEntity(id, route, stopID string) *gtfs.FeedEntity {
	vp := &gtfs.VehiclePosition{
		Trip: &gtfs.TripDescriptor{
			TripId:  proto.String(id),
			RouteId: proto.String(route),
		},
		Timestamp: proto.Uint64(1700000000),
	}
	if stopID != "" {
		vp.StopId = proto.String(stopID)
	}
	return &gtfs.FeedEntity{Id: proto.String(id), Vehicle: vp}
}

// Message wraps entities in a feed message with a valid header
func Message(entities ...*gtfs.FeedEntity) *gtfs.FeedMessage {
	return &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("1.0"),
			Timestamp:           proto.Uint64(1700000000),
		},
		Entity: entities,
	}
}

// Encode marshals a feed message, failing the test on error
func Encode(t testing.TB, fm *gtfs.FeedMessage) []byte {
	t.Helper()
	b, err := proto.Marshal(fm)
	if err != nil {
		t.Fatalf("marshal feed message: %v", err)
	}
	return b
}

// Trip builds a normalized trip update entity
func Trip(route string, stops ...Stop) models.Entity {
	tu := &models.TripUpdate{RouteID: route}
	for _, s := range stops {
		stu := models.StopTimeUpdate{StopID: s.ID}
		if s.Arrival != 0 {
			arrival := s.Arrival
			stu.Arrival = &arrival
		}
		tu.StopTimeUpdates = append(tu.StopTimeUpdates, stu)
	}
	return models.Entity{ID: route, Payload: tu}
}

// Vehicle builds a normalized vehicle position entity
func Vehicle(route, stopID string) models.Entity {
	return models.Entity{ID: route, Payload: &models.VehiclePosition{RouteID: route, StopID: stopID}}
}

// Feed wraps normalized entities in a message
func Feed(entities ...models.Entity) *models.FeedMessage {
	return &models.FeedMessage{
		Header:   models.Header{Version: "1.0", Timestamp: 1700000000},
		Entities: entities,
	}
}
