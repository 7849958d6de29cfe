package arrivals

import (
	"errors"
	"fmt"

	"github.com/jusunglee/nexttrain/internal/models"
)

// MaxLimit is the largest number of arrivals NextArrivals will return
const MaxLimit = 5

// ErrInvalidArgument is wrapped by every argument validation failure
var ErrInvalidArgument = errors.New("invalid argument")

// NextArrivals scans msg in feed order and returns up to limit arrival
// times at stationID+dir that are strictly after now. The scan stops as soon
// as limit is reached, so results follow entity order and are not sorted.
func NextArrivals(msg *models.FeedMessage, stationID string, dir models.Direction, limit int, now int64) ([]int64, error) {
	if limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit %d outside [1,%d]", ErrInvalidArgument, limit, MaxLimit)
	}
	if stationID == "" {
		return nil, fmt.Errorf("%w: empty station id", ErrInvalidArgument)
	}
	if _, _, ok := models.SplitStopID(stationID); ok {
		return nil, fmt.Errorf("%w: station id %q carries a direction suffix", ErrInvalidArgument, stationID)
	}
	if dir != models.North && dir != models.South {
		return nil, fmt.Errorf("%w: direction %q", ErrInvalidArgument, dir)
	}

	target := models.StopID(stationID, dir)
	times := make([]int64, 0, limit)

	for _, e := range msg.Entities {
		tu := e.TripUpdate()
		if tu == nil {
			continue
		}
		for _, stu := range tu.StopTimeUpdates {
			if stu.StopID != target || stu.Arrival == nil || *stu.Arrival <= now {
				continue
			}
			times = append(times, *stu.Arrival)
			if len(times) == limit {
				return times, nil
			}
		}
	}
	return times, nil
}

// Countdowns converts arrival times into whole minutes from now
func Countdowns(times []int64, now int64) []int64 {
	out := make([]int64, len(times))
	for i, t := range times {
		out[i] = models.Minutes(t, now)
	}
	return out
}
