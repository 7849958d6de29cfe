package models

import "fmt"

// Direction is the platform suffix on a stop id
type Direction string

const (
	North Direction = "N"
	South Direction = "S"
)

// ParseDirection accepts "N" or "S"
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case North, South:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q: want N or S", s)
}

// SplitStopID splits a platform stop id into its station id and direction.
// ok is false when the id carries no direction suffix.
func SplitStopID(stopID string) (station string, dir Direction, ok bool) {
	if len(stopID) == 0 {
		return stopID, "", false
	}
	last := Direction(stopID[len(stopID)-1:])
	if last != North && last != South {
		return stopID, "", false
	}
	return stopID[:len(stopID)-1], last, true
}

// StopID joins a station id and direction into a platform stop id
func StopID(station string, dir Direction) string {
	return station + string(dir)
}
