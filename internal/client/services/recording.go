// Package services composes the API client and the status channel into the
// operations the CLI drives.
package services

import (
	"context"
	"fmt"

	"github.com/braindumpster/braindumpster-go/internal/client/api"
	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/client/status"
	"github.com/braindumpster/braindumpster-go/internal/filex"
	"github.com/braindumpster/braindumpster-go/internal/logging"
)

// uploadShare is the slice of overall progress attributed to the byte
// upload. The remainder belongs to the backend pipeline, reported by the
// status tracker.
const uploadShare = 0.70

// channelOpener abstracts status.Channel construction for tests.
type channelOpener func(cfg status.Config) *status.Channel

// RecordingService runs the upload-analyze-track flow and the library
// operations on top of the API client.
type RecordingService struct {
	client api.Client
	wsURL  string
	log    logging.Logger

	openChannel channelOpener
	trackerOpts []status.TrackerOption
}

func NewRecordingService(client api.Client, wsURL string, log logging.Logger) *RecordingService {
	if log == nil {
		log = logging.New()
	}
	return &RecordingService{
		client:      client,
		wsURL:       wsURL,
		log:         log,
		openChannel: status.NewChannel,
	}
}

// AnalyzeAndTrack uploads the audio file at path and follows the recording
// through the backend pipeline until a terminal state. Upload progress maps
// onto [0, 0.70] of cb.OnProgress; pipeline progress covers the rest. If the
// upload response is already terminal no subscription is opened. On every
// return path the subscription, if any, is closed.
//
// An empty title lets the backend derive one from the file name.
//
// The returned Recording is the last snapshot seen, also on error when one
// exists.
func (s *RecordingService) AnalyzeAndTrack(ctx context.Context, path, title string, cb status.Callbacks) (*models.Recording, error) {
	audio, closeAudio, err := api.OpenAudioFile(path)
	if err != nil {
		return nil, err
	}
	defer closeAudio()
	audio.Title = title

	duration, err := filex.ProbeDuration(path)
	if err != nil {
		return nil, err
	}

	var onUpload api.ProgressFunc
	if cb.OnProgress != nil {
		onUpload = func(f float64) { cb.OnProgress(f * uploadShare) }
	}

	rec, err := s.client.Analyze(ctx, audio, duration, onUpload)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "analysis accepted", "recordingId", rec.ID, "status", rec.Status)

	tracker := status.NewTracker(cb, s.log, s.trackerOpts...)

	if rec.Status.Terminal() {
		tracker.Apply(*rec)
		return rec, nil
	}

	var token string
	if sess := s.client.Session(); sess != nil {
		token = sess.AccessToken
	}
	ch := s.openChannel(status.Config{
		WSURL:       s.wsURL,
		AccessToken: token,
		RecordingID: rec.ID,
		Logger:      s.log,
	})
	defer ch.Close()

	snaps, errs := ch.Open(ctx)
	if err := tracker.Run(ctx, snaps, errs); err != nil {
		if cur := tracker.Current(); cur != nil {
			return cur, err
		}
		return rec, err
	}

	if cur := tracker.Current(); cur != nil {
		return cur, nil
	}
	return rec, nil
}

func (s *RecordingService) List(ctx context.Context) ([]models.Recording, error) {
	return s.client.ListRecordings(ctx)
}

func (s *RecordingService) Get(ctx context.Context, id string) (*models.Recording, error) {
	return s.client.GetRecording(ctx, id)
}

func (s *RecordingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("recording id is required")
	}
	return s.client.DeleteRecording(ctx, id)
}

func (s *RecordingService) Chat(ctx context.Context, id, message string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("message is required")
	}
	return s.client.Chat(ctx, id, message)
}
