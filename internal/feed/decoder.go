package feed

import (
	"fmt"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/jusunglee/nexttrain/internal/models"
	"google.golang.org/protobuf/proto"
)

// DecodeError reports a payload that is not a well-formed GTFS-realtime message
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode feed message: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeRaw unmarshals a GTFS-realtime payload without normalizing it
func DecodeRaw(b []byte) (*gtfs.FeedMessage, error) {
	var fm gtfs.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &fm, nil
}

// Decode turns a GTFS-realtime payload into a FeedMessage.
// Entity and stop time update order follow the wire.
func Decode(b []byte) (*models.FeedMessage, error) {
	fm, err := DecodeRaw(b)
	if err != nil {
		return nil, err
	}
	return Normalize(fm), nil
}

// Normalize converts a protobuf feed message to the internal model
func Normalize(fm *gtfs.FeedMessage) *models.FeedMessage {
	h := fm.GetHeader()
	msg := &models.FeedMessage{
		Header: models.Header{
			Version:   h.GetGtfsRealtimeVersion(),
			Timestamp: int64(h.GetTimestamp()),
		},
		Entities: make([]models.Entity, 0, len(fm.GetEntity())),
	}

	for _, e := range fm.GetEntity() {
		entity := models.Entity{ID: e.GetId()}
		// MTA feeds never send both; the trip update is the one with arrivals
		switch {
		case e.GetTripUpdate() != nil:
			entity.Payload = normalizeTripUpdate(e.GetTripUpdate())
		case e.GetVehicle() != nil:
			entity.Payload = normalizeVehicle(e.GetVehicle())
		}
		msg.Entities = append(msg.Entities, entity)
	}

	return msg
}

func normalizeTripUpdate(tu *gtfs.TripUpdate) *models.TripUpdate {
	out := &models.TripUpdate{
		TripID:  tu.GetTrip().GetTripId(),
		RouteID: tu.GetTrip().GetRouteId(),
	}
	if len(tu.GetStopTimeUpdate()) == 0 {
		return out
	}

	out.StopTimeUpdates = make([]models.StopTimeUpdate, 0, len(tu.GetStopTimeUpdate()))
	for _, stu := range tu.GetStopTimeUpdate() {
		out.StopTimeUpdates = append(out.StopTimeUpdates, models.StopTimeUpdate{
			StopID:    stu.GetStopId(),
			Arrival:   eventTime(stu.GetArrival()),
			Departure: eventTime(stu.GetDeparture()),
		})
	}
	return out
}

func normalizeVehicle(vp *gtfs.VehiclePosition) *models.VehiclePosition {
	return &models.VehiclePosition{
		TripID:    vp.GetTrip().GetTripId(),
		RouteID:   vp.GetTrip().GetRouteId(),
		StopID:    vp.GetStopId(),
		Timestamp: int64(vp.GetTimestamp()),
	}
}

func eventTime(ev *gtfs.TripUpdate_StopTimeEvent) *int64 {
	if ev == nil || ev.Time == nil {
		return nil
	}
	t := *ev.Time
	return &t
}
