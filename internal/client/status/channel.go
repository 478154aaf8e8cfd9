// Package status delivers live recording snapshots pushed by the backend.
package status

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/common"
	"github.com/braindumpster/braindumpster-go/internal/logging"
)

// ChannelError is a connection-level fault on an open subscription. After it
// is delivered the snapshot stream is closed. Match with errors.As.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string { return fmt.Sprintf("status channel: %v", e.Err) }

func (e *ChannelError) Unwrap() error { return e.Err }

// Config describes one subscription target.
type Config struct {
	// WSURL is the websocket base, e.g. ws://localhost:8080.
	WSURL string

	// AccessToken authenticates the subscription.
	AccessToken string

	RecordingID string

	// DialAttempts bounds the initial connect backoff. Zero means 4.
	DialAttempts uint64

	Logger logging.Logger
}

// Channel is a push subscription for one recording's snapshots. Snapshots
// arrive in backend emission order. The stream ends after the first terminal
// snapshot, after a connection fault, or on Close.
type Channel struct {
	cfg Config
	log logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewChannel(cfg Config) *Channel {
	if cfg.DialAttempts == 0 {
		cfg.DialAttempts = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New()
	}
	return &Channel{cfg: cfg, log: cfg.Logger}
}

// Open starts the subscription and returns the snapshot and error streams.
// Both are closed when the subscription ends. Re-opening replaces the prior
// subscription; no snapshot is delivered twice across the two.
func (c *Channel) Open(ctx context.Context) (<-chan models.Recording, <-chan error) {
	c.Close()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	snaps := make(chan models.Recording, 8)
	errs := make(chan error, 1)

	go c.run(runCtx, snaps, errs, done)
	return snaps, errs
}

// Close terminates the subscription and waits for the stream goroutine to
// exit. It is the sole cancellation mechanism and is safe to call any number
// of times, including before Open.
func (c *Channel) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Channel) run(ctx context.Context, snaps chan<- models.Recording, errs chan<- error, done chan struct{}) {
	defer close(done)
	defer close(errs)
	defer close(snaps)

	conn, err := c.dial(ctx)
	if err != nil {
		if ctx.Err() == nil {
			errs <- &ChannelError{Err: err}
		}
		return
	}
	defer conn.Close()

	// unblock ReadMessage when the subscription is cancelled
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				errs <- &ChannelError{Err: err}
			}
			return
		}

		rec, err := models.DecodeRecording(data)
		if err != nil {
			c.log.Warn(ctx, "dropping malformed status snapshot",
				"recordingId", c.cfg.RecordingID, "error", err)
			continue
		}

		select {
		case snaps <- *rec:
		case <-ctx.Done():
			return
		}

		if rec.Status.Terminal() {
			return
		}
	}
}

// dial connects with bounded exponential backoff.
func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	url := fmt.Sprintf("%s/ws/recordings/%s", strings.TrimRight(c.cfg.WSURL, "/"), c.cfg.RecordingID)

	hdr := http.Header{}
	if c.cfg.AccessToken != "" {
		hdr.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.cfg.AccessToken)
	}

	var conn *websocket.Conn
	backoff := retry.WithMaxRetries(c.cfg.DialAttempts, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var derr error
		conn, _, derr = websocket.DefaultDialer.DialContext(ctx, url, hdr)
		if derr != nil {
			return retry.RetryableError(derr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return conn, nil
}
