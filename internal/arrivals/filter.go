// Package arrivals narrows a feed group to one line and projects the next
// arrivals at a platform.
package arrivals

import "github.com/jusunglee/nexttrain/internal/models"

// FilterLine returns a new message with the same header holding only the
// trip update entities for routeID that carry stop times, in input order.
// Vehicle positions never carry arrival times and are always dropped.
func FilterLine(msg *models.FeedMessage, routeID string) *models.FeedMessage {
	out := &models.FeedMessage{
		Header:   msg.Header,
		Entities: []models.Entity{},
	}
	for _, e := range msg.Entities {
		tu := e.TripUpdate()
		if tu == nil || len(tu.StopTimeUpdates) == 0 || tu.RouteID != routeID {
			continue
		}
		out.Entities = append(out.Entities, e)
	}
	return out
}
