package models

import (
	"time"
)

// Header carries feed metadata through unchanged
type Header struct {
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
}

// FeedMessage is one decoded snapshot of a feed group
type FeedMessage struct {
	Header   Header   `json:"header"`
	Entities []Entity `json:"entity"`
}

// Payload is implemented by the entity variants a feed can carry.
// A nil Payload marks an inert entity.
type Payload interface {
	isPayload()
}

// Entity is a single feed entity
type Entity struct {
	ID      string  `json:"id"`
	Payload Payload `json:"-"`
}

// TripUpdate holds scheduled stop times for one trip.
// A nil StopTimeUpdates slice means the feed sent none.
type TripUpdate struct {
	TripID          string           `json:"trip_id,omitempty"`
	RouteID         string           `json:"route_id"`
	StopTimeUpdates []StopTimeUpdate `json:"stop_time_update,omitempty"`
}

// StopTimeUpdate is a predicted arrival/departure at a stop
type StopTimeUpdate struct {
	StopID    string `json:"stop_id"`
	Arrival   *int64 `json:"arrival,omitempty"`
	Departure *int64 `json:"departure,omitempty"`
}

// VehiclePosition reports which stop a train is at or approaching
type VehiclePosition struct {
	TripID    string `json:"trip_id,omitempty"`
	RouteID   string `json:"route_id"`
	StopID    string `json:"stop_id,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

func (*TripUpdate) isPayload()      {}
func (*VehiclePosition) isPayload() {}

// TripUpdate returns the entity's trip update, or nil
func (e Entity) TripUpdate() *TripUpdate {
	tu, _ := e.Payload.(*TripUpdate)
	return tu
}

// Vehicle returns the entity's vehicle position, or nil
func (e Entity) Vehicle() *VehiclePosition {
	vp, _ := e.Payload.(*VehiclePosition)
	return vp
}

// Arrival is a projected train arrival at a platform
type Arrival struct {
	Route   string    `json:"route"`
	Time    time.Time `json:"time"`
	Minutes int64     `json:"minutes"`
}

// Minutes converts an arrival epoch into a whole-minute countdown from now.
// Integer division truncates toward zero.
func Minutes(arrival, now int64) int64 {
	return (arrival - now) / 60
}
