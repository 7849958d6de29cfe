// Package topology derives the stops a line serves from decoded feeds.
package topology

import (
	"sort"

	"github.com/jusunglee/nexttrain/internal/lines"
	"github.com/jusunglee/nexttrain/internal/models"
)

// StopSet is a deduplicated set of stop or station ids
type StopSet map[string]struct{}

// NewStopSet builds a set from ids
func NewStopSet(ids ...string) StopSet {
	s := make(StopSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s StopSet) Add(id string) { s[id] = struct{}{} }

func (s StopSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s StopSet) Len() int { return len(s) }

// Sorted returns the ids in lexical order
func (s StopSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CollectStopIDs returns, per line, every stop id seen in the messages for
// that line's route: trip update stop times plus vehicle current stops.
// A line with no matching entities maps to an empty set.
func CollectStopIDs(reg *lines.Registry, messages []*models.FeedMessage, lineIDs []string) (map[string]StopSet, error) {
	out := make(map[string]StopSet, len(lineIDs))
	for _, line := range lineIDs {
		route, err := reg.RouteID(line)
		if err != nil {
			return nil, err
		}

		stops := make(StopSet)
		for _, msg := range messages {
			if msg == nil {
				continue
			}
			for _, e := range msg.Entities {
				switch p := e.Payload.(type) {
				case *models.TripUpdate:
					if p.RouteID != route {
						continue
					}
					for _, stu := range p.StopTimeUpdates {
						stops.Add(stu.StopID)
					}
				case *models.VehiclePosition:
					if p.RouteID == route && p.StopID != "" {
						stops.Add(p.StopID)
					}
				case nil:
					// inert entity
				}
			}
		}
		out[line] = stops
	}
	return out, nil
}

// StripDirection maps every platform stop id to its station id. Ids without
// an N/S suffix pass through unchanged, so applying it twice is a no-op.
func StripDirection(in map[string]StopSet) map[string]StopSet {
	out := make(map[string]StopSet, len(in))
	for line, stops := range in {
		stations := make(StopSet, len(stops))
		for id := range stops {
			station, _, _ := models.SplitStopID(id)
			stations.Add(station)
		}
		out[line] = stations
	}
	return out
}

// SplitByDirection partitions stop ids by suffix into maps keyed line+"N"
// and line+"S". Every input line gets both keys; undirected ids are dropped.
func SplitByDirection(in map[string]StopSet) (north, south map[string]StopSet) {
	north = make(map[string]StopSet, len(in))
	south = make(map[string]StopSet, len(in))
	for line, stops := range in {
		n := make(StopSet)
		s := make(StopSet)
		for id := range stops {
			_, dir, ok := models.SplitStopID(id)
			if !ok {
				continue
			}
			if dir == models.North {
				n.Add(id)
			} else {
				s.Add(id)
			}
		}
		north[line+string(models.North)] = n
		south[line+string(models.South)] = s
	}
	return north, south
}
