package mta

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/jusunglee/nexttrain/internal/arrivals"
	"github.com/jusunglee/nexttrain/internal/feed"
	"github.com/jusunglee/nexttrain/internal/lines"
	"github.com/jusunglee/nexttrain/internal/models"
	"github.com/jusunglee/nexttrain/internal/stations"
	"github.com/jusunglee/nexttrain/internal/store"
	"github.com/jusunglee/nexttrain/internal/topology"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LocalClient implements the Client interface for local usage
// Manages in-memory snapshots and optional background feed updates
type LocalClient struct {
	registry    *lines.Registry
	store       *store.Store
	feedManager *feed.Manager
	tables      *stations.Tables
	polling     bool
	now         func() time.Time
}

// NewLocal creates a new local MTA client
func NewLocal(config Config) (*LocalClient, error) {
	return newLocal(config, lines.Default())
}

func newLocal(config Config, registry *lines.Registry) (*LocalClient, error) {
	s := store.NewStore()

	fetcher := feed.NewFetcher(config.BaseURL, config.APIKey, config.Timeout,
		feed.WithRetry(config.MaxRetries, 500*time.Millisecond),
		feed.WithMetrics(config.Metrics),
	)
	fm := feed.NewManager(fetcher, s, registry.Groups(), config.UpdateInterval)
	fm.SetSnapshotDir(config.SnapshotDir)
	fm.SetMetrics(config.Metrics)

	c := &LocalClient{
		registry:    registry,
		store:       s,
		feedManager: fm,
		now:         time.Now,
	}

	if config.StationsDir != "" {
		tables, err := stations.Load(config.StationsDir)
		switch {
		case err == nil:
			c.tables = tables
		case errors.Is(err, fs.ErrNotExist):
			log.Warn().Str("dir", config.StationsDir).Msg("Station tables not found, names unavailable")
		default:
			return nil, err
		}
	}

	if config.Poll {
		fm.Start()
		c.polling = true
	}

	return c, nil
}

// Close gracefully shuts down the local client
// Must be called to stop background goroutines and prevent leaks
func (c *LocalClient) Close() {
	if c.polling {
		c.feedManager.Stop()
		c.polling = false
	}
}

// Refresh fetches every feed group now
func (c *LocalClient) Refresh(ctx context.Context) error {
	return c.feedManager.Refresh(ctx)
}

func (c *LocalClient) Lines() []string {
	return c.registry.Lines()
}

// NextArrivals returns up to limit upcoming arrivals of line at the given
// station platform, in feed order
func (c *LocalClient) NextArrivals(ctx context.Context, line, station string, dir models.Direction, limit int) ([]models.Arrival, error) {
	route, err := c.registry.RouteID(line)
	if err != nil {
		return nil, err
	}
	msg, err := c.lineSnapshot(ctx, line)
	if err != nil {
		return nil, err
	}

	now := c.now().Unix()
	times, err := arrivals.NextArrivals(arrivals.FilterLine(msg, route), station, dir, limit, now)
	if err != nil {
		return nil, err
	}

	result := make([]models.Arrival, 0, len(times))
	for _, t := range times {
		result = append(result, models.Arrival{
			Route:   line,
			Time:    time.Unix(t, 0),
			Minutes: models.Minutes(t, now),
		})
	}
	return result, nil
}

func (c *LocalClient) StationsForLine(ctx context.Context, line string) ([]string, error) {
	all, err := c.StationsForLines(ctx, []string{line})
	if err != nil {
		return nil, err
	}
	return all[line], nil
}

// StationsForLines returns the station ids currently served by each line.
// Feed groups are loaded concurrently.
func (c *LocalClient) StationsForLines(ctx context.Context, lineIDs []string) (map[string][]string, error) {
	stops, err := c.collect(ctx, lineIDs)
	if err != nil {
		return nil, err
	}
	return stations.NewLineStations(topology.StripDirection(stops)), nil
}

func (c *LocalClient) PlatformsForLine(ctx context.Context, line string) (north, south []string, err error) {
	stops, err := c.collect(ctx, []string{line})
	if err != nil {
		return nil, nil, err
	}
	n, s := topology.SplitByDirection(stops)
	return n[line+string(models.North)].Sorted(), s[line+string(models.South)].Sorted(), nil
}

func (c *LocalClient) StationName(id string) (string, bool) {
	return c.tables.Name(id)
}

func (c *LocalClient) GetLastUpdate() time.Time {
	return c.store.GetLastUpdate()
}

func (c *LocalClient) collect(ctx context.Context, lineIDs []string) (map[string]topology.StopSet, error) {
	groups := make(map[string]bool)
	for _, line := range lineIDs {
		group, err := c.registry.FeedGroup(line)
		if err != nil {
			return nil, err
		}
		groups[group] = true
	}

	var (
		mu       sync.Mutex
		messages []*models.FeedMessage
	)
	g, ctx := errgroup.WithContext(ctx)
	for group := range groups {
		group := group
		g.Go(func() error {
			msg, err := c.snapshot(ctx, group)
			if err != nil {
				return err
			}
			mu.Lock()
			messages = append(messages, msg)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return topology.CollectStopIDs(c.registry, messages, lineIDs)
}

func (c *LocalClient) lineSnapshot(ctx context.Context, line string) (*models.FeedMessage, error) {
	group, err := c.registry.FeedGroup(line)
	if err != nil {
		return nil, err
	}
	return c.snapshot(ctx, group)
}

// snapshot returns the stored message for a group, fetching it on a miss
func (c *LocalClient) snapshot(ctx context.Context, group string) (*models.FeedMessage, error) {
	if msg, ok := c.store.Get(group); ok {
		return msg, nil
	}
	return c.feedManager.RefreshGroup(ctx, group)
}
