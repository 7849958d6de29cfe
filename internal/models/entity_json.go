package models

import "encoding/json"

type entityJSON struct {
	ID         string           `json:"id"`
	TripUpdate *TripUpdate      `json:"tripUpdate,omitempty"`
	Vehicle    *VehiclePosition `json:"vehicle,omitempty"`
}

// MarshalJSON writes the populated variant under its own key
func (e Entity) MarshalJSON() ([]byte, error) {
	out := entityJSON{ID: e.ID}
	switch p := e.Payload.(type) {
	case *TripUpdate:
		out.TripUpdate = p
	case *VehiclePosition:
		out.Vehicle = p
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the variant written by MarshalJSON.
// When both keys are present the trip update wins.
func (e *Entity) UnmarshalJSON(b []byte) error {
	var in entityJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	e.ID = in.ID
	e.Payload = nil
	switch {
	case in.TripUpdate != nil:
		e.Payload = in.TripUpdate
	case in.Vehicle != nil:
		e.Payload = in.Vehicle
	}
	return nil
}
