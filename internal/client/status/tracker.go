package status

import (
	"context"
	"sync"
	"time"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/logging"
)

const (
	rampStart = 0.70
	rampCeil  = 0.95
	rampStep  = 0.025

	defaultRampInterval = 400 * time.Millisecond
)

// Callbacks receive lifecycle events. All of them are invoked from the
// goroutine running Tracker.Run, never concurrently. Any field may be nil.
type Callbacks struct {
	// OnSnapshot fires for every accepted snapshot, terminal ones included.
	OnSnapshot func(models.Recording)

	// OnProgress fires with a fraction in [0,1). Sources are the simulated
	// ramp and the nominal per-status progress of real snapshots; terminal
	// snapshots report via OnCompleted/OnFailed instead.
	OnProgress func(float64)

	// Exactly one of OnCompleted/OnFailed fires, at most once, when a
	// terminal snapshot arrives.
	OnCompleted func(models.Recording)
	OnFailed    func(models.Recording)
}

// Tracker consumes a snapshot stream and drives UI callbacks. While the
// first real snapshot is pending it climbs a simulated progress ramp from
// 0.70 toward 0.95 so the UI keeps moving; the ramp never reaches 1.0 and
// stops permanently once a real snapshot arrives.
type Tracker struct {
	cb           Callbacks
	log          logging.Logger
	rampInterval time.Duration

	mu      sync.Mutex
	current *models.Recording
}

type TrackerOption func(*Tracker)

// WithRampInterval overrides the simulated ramp tick, mainly for tests.
func WithRampInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.rampInterval = d }
}

func NewTracker(cb Callbacks, log logging.Logger, opts ...TrackerOption) *Tracker {
	if log == nil {
		log = logging.New()
	}
	t := &Tracker{cb: cb, log: log, rampInterval: defaultRampInterval}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Current returns the last accepted snapshot, or nil before the first one.
func (t *Tracker) Current() *models.Recording {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	rec := *t.current
	return &rec
}

// Apply accepts one snapshot outside of a stream, firing the same callbacks
// Run would. It is used when the upload response is already terminal and no
// subscription is opened.
func (t *Tracker) Apply(rec models.Recording) {
	t.accept(rec)
}

// Run consumes the streams until a terminal snapshot, a channel fault, or
// cancellation. It returns the fault if one ended the stream.
func (t *Tracker) Run(ctx context.Context, snaps <-chan models.Recording, errs <-chan error) error {
	ticker := time.NewTicker(t.rampInterval)
	defer ticker.Stop()

	simulated := rampStart
	sawReal := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if sawReal || simulated >= rampCeil {
				continue
			}
			simulated += rampStep
			if simulated > rampCeil {
				simulated = rampCeil
			}
			if t.cb.OnProgress != nil {
				t.cb.OnProgress(simulated)
			}

		case rec, ok := <-snaps:
			if !ok {
				snaps = nil
				if errs == nil {
					return nil
				}
				continue
			}
			if !sawReal {
				sawReal = true
				ticker.Stop()
			}
			if t.accept(rec) {
				return nil
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				if snaps == nil {
					return nil
				}
				continue
			}
			return err
		}
	}
}

// accept records the snapshot and fires callbacks. It reports whether the
// snapshot was terminal.
func (t *Tracker) accept(rec models.Recording) bool {
	t.mu.Lock()
	t.current = &rec
	t.mu.Unlock()

	if t.cb.OnSnapshot != nil {
		t.cb.OnSnapshot(rec)
	}

	switch {
	case rec.Status == models.StatusCompleted:
		if t.cb.OnCompleted != nil {
			t.cb.OnCompleted(rec)
		}
		return true
	case rec.Status == models.StatusFailed:
		if t.cb.OnFailed != nil {
			t.cb.OnFailed(rec)
		}
		return true
	default:
		if t.cb.OnProgress != nil {
			t.cb.OnProgress(rec.Status.Progress())
		}
		return false
	}
}
