package mta

import (
	"context"
	"time"

	"github.com/jusunglee/nexttrain/internal/config"
	"github.com/jusunglee/nexttrain/internal/metrics"
	"github.com/jusunglee/nexttrain/internal/models"
)

// Client defines the interface for answering "when is the next train?"
// Abstracts different data sources (local vs remote) behind common interface
type Client interface {
	Lines() []string

	NextArrivals(ctx context.Context, line, station string, dir models.Direction, limit int) ([]models.Arrival, error)

	StationsForLine(ctx context.Context, line string) ([]string, error)
	StationsForLines(ctx context.Context, lines []string) (map[string][]string, error)
	PlatformsForLine(ctx context.Context, line string) (north, south []string, err error)
	StationName(id string) (string, bool)

	GetLastUpdate() time.Time
}

// Config holds configuration for the MTA client
type Config struct {
	BaseURL        string
	APIKey         string
	UpdateInterval time.Duration
	Timeout        time.Duration
	MaxRetries     uint64
	SnapshotDir    string
	StationsDir    string

	// Poll starts the background feed manager. Without it feed groups are
	// fetched on first use and on Refresh.
	Poll    bool
	Metrics *metrics.Collector
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return FromConfig(config.Default())
}

// FromConfig maps the application config onto client settings
func FromConfig(c config.Config) Config {
	return Config{
		BaseURL:        c.Feed.BaseURL,
		APIKey:         c.Feed.APIKey,
		UpdateInterval: c.Feed.UpdateInterval,
		Timeout:        c.Feed.Timeout,
		MaxRetries:     c.Feed.MaxRetries,
		SnapshotDir:    c.Feed.SnapshotDir,
		StationsDir:    c.StationsDir,
	}
}
