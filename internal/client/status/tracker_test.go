package status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
)

func snapshot(status models.RecordingStatus) models.Recording {
	rec, err := models.DecodeRecording(snapshotJSON(status))
	if err != nil {
		panic(err)
	}
	return *rec
}

type trackerEvents struct {
	snapshots []models.Recording
	progress  []float64
	completed []models.Recording
	failed    []models.Recording
}

func (e *trackerEvents) callbacks() Callbacks {
	return Callbacks{
		OnSnapshot:  func(r models.Recording) { e.snapshots = append(e.snapshots, r) },
		OnProgress:  func(f float64) { e.progress = append(e.progress, f) },
		OnCompleted: func(r models.Recording) { e.completed = append(e.completed, r) },
		OnFailed:    func(r models.Recording) { e.failed = append(e.failed, r) },
	}
}

func TestTracker_RampClimbsUntilFirstRealSnapshot(t *testing.T) {
	var ev trackerEvents
	tr := NewTracker(ev.callbacks(), nil, WithRampInterval(5*time.Millisecond))

	snaps := make(chan models.Recording)
	errs := make(chan error)
	go func() {
		time.Sleep(60 * time.Millisecond) // let the ramp tick a few times
		snaps <- snapshot(models.StatusTranscribing)
		snaps <- snapshot(models.StatusCompleted)
		close(snaps)
		close(errs)
	}()

	require.NoError(t, tr.Run(context.Background(), snaps, errs))

	require.NotEmpty(t, ev.progress)
	prevRamp := rampStart
	sawReal := false
	for _, f := range ev.progress {
		if f == models.StatusTranscribing.Progress() {
			sawReal = true
			continue
		}
		if !sawReal {
			assert.Greater(t, f, prevRamp)
			assert.LessOrEqual(t, f, rampCeil)
			prevRamp = f
		}
	}
	assert.True(t, sawReal, "real snapshot progress must be reported")
	assert.Less(t, ev.progress[len(ev.progress)-1], 1.0, "tracker never emits 1.0 via OnProgress")

	require.Len(t, ev.completed, 1)
	assert.Empty(t, ev.failed)
	require.Len(t, ev.snapshots, 2)
}

func TestTracker_RampStopsAfterRealSnapshot(t *testing.T) {
	var ev trackerEvents
	tr := NewTracker(ev.callbacks(), nil, WithRampInterval(20*time.Millisecond))

	snaps := make(chan models.Recording)
	errs := make(chan error)
	go func() {
		snaps <- snapshot(models.StatusAnalyzingDeep) // 0.90 nominal
		time.Sleep(100 * time.Millisecond)            // ramp would tick here if alive
		snaps <- snapshot(models.StatusCompleted)
		close(snaps)
		close(errs)
	}()

	require.NoError(t, tr.Run(context.Background(), snaps, errs))

	for _, f := range ev.progress {
		assert.Equal(t, models.StatusAnalyzingDeep.Progress(), f,
			"no simulated value may follow a real snapshot")
	}
}

func TestTracker_FailureFiresOnFailedOnce(t *testing.T) {
	var ev trackerEvents
	tr := NewTracker(ev.callbacks(), nil)

	snaps := make(chan models.Recording, 1)
	errs := make(chan error)
	snaps <- snapshot(models.StatusFailed)
	close(snaps)
	close(errs)

	require.NoError(t, tr.Run(context.Background(), snaps, errs))

	require.Len(t, ev.failed, 1)
	assert.Empty(t, ev.completed)

	cur := tr.Current()
	require.NotNil(t, cur)
	assert.Equal(t, models.StatusFailed, cur.Status)
}

func TestTracker_ChannelFaultEndsRun(t *testing.T) {
	var ev trackerEvents
	tr := NewTracker(ev.callbacks(), nil)

	snaps := make(chan models.Recording)
	errs := make(chan error, 1)
	fault := &ChannelError{Err: assert.AnError}
	errs <- fault

	err := tr.Run(context.Background(), snaps, errs)
	var chErr *ChannelError
	require.ErrorAs(t, err, &chErr)
	assert.Empty(t, ev.completed)
	assert.Empty(t, ev.failed)
}

func TestTracker_CancellationEndsRun(t *testing.T) {
	tr := NewTracker(Callbacks{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.Run(ctx, make(chan models.Recording), make(chan error))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTracker_ApplyTerminalImmediate(t *testing.T) {
	var ev trackerEvents
	tr := NewTracker(ev.callbacks(), nil)

	tr.Apply(snapshot(models.StatusCompleted))

	require.Len(t, ev.snapshots, 1)
	require.Len(t, ev.completed, 1)
	assert.Empty(t, ev.progress)

	cur := tr.Current()
	require.NotNil(t, cur)
	assert.Equal(t, models.StatusCompleted, cur.Status)
}
