package store

import (
	"sort"
	"sync"
	"time"

	"github.com/jusunglee/nexttrain/internal/models"
)

type snapshot struct {
	msg       *models.FeedMessage
	updatedAt time.Time
}

// Store keeps the latest decoded snapshot of each feed group.
// A new snapshot fully replaces the previous one.
type Store struct {
	mu         sync.RWMutex
	snapshots  map[string]snapshot
	lastUpdate time.Time
	now        func() time.Time
}

// NewStore creates a new store instance
func NewStore() *Store {
	return &Store{
		snapshots: make(map[string]snapshot),
		now:       time.Now,
	}
}

// Update replaces the snapshot for a feed group
func (s *Store) Update(group string, msg *models.FeedMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.snapshots[group] = snapshot{msg: msg, updatedAt: now}
	s.lastUpdate = now
}

// Get returns the latest snapshot for a feed group
func (s *Store) Get(group string) (*models.FeedMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[group]
	if !ok {
		return nil, false
	}
	return snap.msg, true
}

// UpdatedAt returns when a feed group was last replaced
func (s *Store) UpdatedAt(group string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[group].updatedAt
}

// Groups returns the feed groups that have a snapshot
func (s *Store) Groups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, 0, len(s.snapshots))
	for group := range s.snapshots {
		result = append(result, group)
	}
	sort.Strings(result)
	return result
}

// GetLastUpdate returns the last update time across all groups
func (s *Store) GetLastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}
