package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jusunglee/nexttrain/internal/metrics"
	"github.com/jusunglee/nexttrain/internal/models"
	"github.com/jusunglee/nexttrain/internal/snapshot"
	"github.com/jusunglee/nexttrain/internal/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Manager polls feed groups and keeps the store current
type Manager struct {
	fetcher        *Fetcher
	store          *store.Store
	groups         []string
	updateInterval time.Duration
	snapshotDir    string
	metrics        *metrics.Collector
	maxConcurrent  int

	cancel context.CancelFunc
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewManager creates a feed manager for the given feed group suffixes
func NewManager(fetcher *Fetcher, store *store.Store, groups []string, updateInterval time.Duration) *Manager {
	return &Manager{
		fetcher:        fetcher,
		store:          store,
		groups:         groups,
		updateInterval: updateInterval,
		maxConcurrent:  4,
		stopCh:         make(chan struct{}),
	}
}

// SetSnapshotDir makes every refreshed group get written to dir as JSON.
// An empty dir disables snapshots.
func (m *Manager) SetSnapshotDir(dir string) {
	m.snapshotDir = dir
}

// SetMetrics records snapshot and decode metrics on c
func (m *Manager) SetMetrics(c *metrics.Collector) {
	m.metrics = c
}

// Start begins the feed update loop
func (m *Manager) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go m.updateLoop(ctx)
}

// Stop stops the feed update loop and waits for in-flight fetches
func (m *Manager) Stop() {
	close(m.stopCh)
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *Manager) updateLoop(ctx context.Context) {
	defer m.wg.Done()

	if err := m.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Initial feed refresh failed")
	}

	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("Feed refresh failed")
			}
		case <-m.stopCh:
			return
		}
	}
}

// Refresh fetches every configured group concurrently. Groups that fail
// keep their previous snapshot; their errors are joined in the result.
func (m *Manager) Refresh(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(m.maxConcurrent)

	for _, group := range m.groups {
		group := group
		g.Go(func() error {
			if _, err := m.RefreshGroup(ctx, group); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// RefreshGroup fetches and decodes one group and replaces its snapshot
func (m *Manager) RefreshGroup(ctx context.Context, group string) (*models.FeedMessage, error) {
	body, err := m.fetcher.Fetch(ctx, group)
	if err != nil {
		return nil, err
	}

	msg, err := Decode(body)
	if err != nil {
		m.metrics.ObserveDecodeError(group)
		return nil, err
	}

	m.store.Update(group, msg)
	m.metrics.ObserveSnapshot(group, len(msg.Entities), m.store.UpdatedAt(group))
	log.Debug().Str("group", group).Int("entities", len(msg.Entities)).Msg("Feed group updated")

	if m.snapshotDir != "" {
		if _, err := snapshot.Write(m.snapshotDir, group, msg); err != nil {
			log.Warn().Err(err).Str("group", group).Msg("Failed to write snapshot")
		}
	}

	return msg, nil
}
