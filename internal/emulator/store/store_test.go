package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/common"
)

func rec(id string, status models.RecordingStatus, date time.Time) models.Recording {
	return models.Recording{
		ID:       id,
		Title:    "Memo " + id,
		Date:     date,
		Duration: 60,
		Type:     models.TypePersonal,
		Status:   status,
	}
}

func TestPutGetListDelete(t *testing.T) {
	s := New()
	now := time.Now().UTC()

	s.Put("u1", rec("a", models.StatusProcessing, now.Add(-time.Hour)))
	s.Put("u1", rec("b", models.StatusCompleted, now))
	s.Put("u2", rec("c", models.StatusCompleted, now))

	got, err := s.Get("u1", "a")
	require.NoError(t, err)
	assert.Equal(t, "Memo a", got.Title)

	_, err = s.Get("u1", "c")
	assert.ErrorIs(t, err, common.ErrNotFound, "documents are per-user")

	list := s.List("u1")
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "newest first")

	require.NoError(t, s.Delete("u1", "a"))
	assert.ErrorIs(t, s.Delete("u1", "a"), common.ErrNotFound)
}

func TestSubscribe_ReceivesUpdates(t *testing.T) {
	s := New()
	now := time.Now().UTC()
	s.Put("u1", rec("a", models.StatusProcessing, now))

	sub, err := s.Subscribe("u1", "a")
	require.NoError(t, err)
	defer sub.Close()

	s.Put("u1", rec("a", models.StatusTranscribing, now))

	select {
	case got := <-sub.C():
		assert.Equal(t, models.StatusTranscribing, got.Status)
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}
}

func TestSubscribe_LatestWins(t *testing.T) {
	s := New()
	now := time.Now().UTC()
	s.Put("u1", rec("a", models.StatusProcessing, now))

	sub, err := s.Subscribe("u1", "a")
	require.NoError(t, err)
	defer sub.Close()

	// nobody reading: only the newest snapshot survives
	statuses := []models.RecordingStatus{
		models.StatusTranscribing,
		models.StatusTranscriptReady,
		models.StatusAnalyzingQuick,
		models.StatusCompleted,
	}
	for _, st := range statuses {
		s.Put("u1", rec("a", st, now))
	}

	got := <-sub.C()
	assert.Equal(t, models.StatusCompleted, got.Status)

	select {
	case extra, ok := <-sub.C():
		if ok {
			t.Fatalf("unexpected backlog snapshot: %v", extra.Status)
		}
	default:
	}
}

func TestSubscribe_RequiresOwnership(t *testing.T) {
	s := New()
	s.Put("u1", rec("a", models.StatusProcessing, time.Now()))

	_, err := s.Subscribe("u2", "a")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Subscribe("u1", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSubscriptionClose_Idempotent(t *testing.T) {
	s := New()
	s.Put("u1", rec("a", models.StatusProcessing, time.Now()))

	sub, err := s.Subscribe("u1", "a")
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	_, ok := <-sub.C()
	assert.False(t, ok, "channel closed after Close")

	// publishing after close must not panic
	assert.NotPanics(t, func() {
		s.Put("u1", rec("a", models.StatusCompleted, time.Now()))
	})
}

func TestManySubscribers(t *testing.T) {
	s := New()
	now := time.Now().UTC()
	s.Put("u1", rec("a", models.StatusProcessing, now))

	var subs []*Subscription
	for i := 0; i < 5; i++ {
		sub, err := s.Subscribe("u1", "a")
		require.NoError(t, err, fmt.Sprintf("subscriber %d", i))
		subs = append(subs, sub)
	}

	s.Put("u1", rec("a", models.StatusCompleted, now))

	for i, sub := range subs {
		select {
		case got := <-sub.C():
			assert.Equal(t, models.StatusCompleted, got.Status, fmt.Sprintf("subscriber %d", i))
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d starved", i)
		}
		sub.Close()
	}
}
