// Package store keeps the emulated backend's recording documents in memory
// and fans out every update to per-recording subscribers.
package store

import (
	"sort"
	"sync"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/common"
)

// Subscription delivers snapshots for one recording. The channel holds only
// the latest undelivered snapshot; a slow consumer sees the most recent
// state, never a stale backlog, and never blocks a publish.
type Subscription struct {
	ch chan models.Recording

	once  sync.Once
	unsub func()
}

// C is the snapshot stream. It is closed when the subscription is closed.
func (s *Subscription) C() <-chan models.Recording { return s.ch }

// Close detaches the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.unsub)
}

// Store is the realtime recording document store: per-user documents plus
// publish-on-update delivery.
type Store struct {
	mu     sync.Mutex
	byUser map[string]map[string]models.Recording
	owner  map[string]string // recordingID -> userID
	subs   map[string]map[*Subscription]struct{}
}

func New() *Store {
	return &Store{
		byUser: make(map[string]map[string]models.Recording),
		owner:  make(map[string]string),
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Put inserts or replaces the document and publishes the new snapshot to
// every subscriber of the recording.
func (s *Store) Put(userID string, rec models.Recording) {
	s.mu.Lock()
	docs, ok := s.byUser[userID]
	if !ok {
		docs = make(map[string]models.Recording)
		s.byUser[userID] = docs
	}
	docs[rec.ID] = rec
	s.owner[rec.ID] = userID

	// publishing under the lock keeps sends ordered against Close; the
	// latest-wins send never blocks
	for sub := range s.subs[rec.ID] {
		publishLatest(sub.ch, rec)
	}
	s.mu.Unlock()
}

func (s *Store) Get(userID, recordingID string) (models.Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byUser[userID][recordingID]
	if !ok {
		return models.Recording{}, common.ErrNotFound
	}
	return rec, nil
}

// List returns the user's documents, newest first.
func (s *Store) List(userID string) []models.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Recording, 0, len(s.byUser[userID]))
	for _, rec := range s.byUser[userID] {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (s *Store) Delete(userID, recordingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[userID][recordingID]; !ok {
		return common.ErrNotFound
	}
	delete(s.byUser[userID], recordingID)
	delete(s.owner, recordingID)
	return nil
}

// Subscribe attaches to the recording's update stream. The recording must
// exist and belong to userID.
func (s *Store) Subscribe(userID, recordingID string) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner[recordingID] != userID {
		return nil, common.ErrNotFound
	}
	if _, ok := s.byUser[userID][recordingID]; !ok {
		return nil, common.ErrNotFound
	}

	sub := &Subscription{ch: make(chan models.Recording, 1)}
	sub.unsub = func() {
		s.mu.Lock()
		delete(s.subs[recordingID], sub)
		s.mu.Unlock()
		close(sub.ch)
	}

	if s.subs[recordingID] == nil {
		s.subs[recordingID] = make(map[*Subscription]struct{})
	}
	s.subs[recordingID][sub] = struct{}{}
	return sub, nil
}

// publishLatest delivers rec with latest-wins semantics: if the buffer is
// full the stale snapshot is dropped in favor of the new one.
func publishLatest(ch chan models.Recording, rec models.Recording) {
	for {
		select {
		case ch <- rec:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
