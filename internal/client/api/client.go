// Package api implements the HTTP client for the analysis backend.
package api

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/filex"
)

// ProgressFunc receives upload progress in [0,1]. Values are monotonically
// non-decreasing for one operation. The callback runs on a background
// goroutine; implementations that touch UI state must marshal onto the UI
// owner themselves.
type ProgressFunc func(fraction float64)

// AudioSource is an opaque audio byte source plus the metadata the upload
// form needs. Title is optional; when empty the backend derives one from the
// file name.
type AudioSource struct {
	Name   string
	Title  string
	MIME   string
	Size   int64
	Reader io.Reader
}

// OpenAudioFile builds an AudioSource from a local file. The returned close
// function must be called once the upload finishes.
func OpenAudioFile(path string) (AudioSource, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return AudioSource{}, nil, fmt.Errorf("open audio file: %w", err)
	}
	size, err := filex.FileSize(path)
	if err != nil {
		f.Close()
		return AudioSource{}, nil, err
	}
	src := AudioSource{
		Name:   filepath.Base(path),
		MIME:   filex.MimeType(path),
		Size:   size,
		Reader: f,
	}
	return src, f.Close, nil
}

// Session holds the authenticated identity returned by login.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// Client is the backend API surface consumed by the services layer.
type Client interface {
	// Register creates an account. It does not log in.
	Register(ctx context.Context, email, password, displayName string) error

	// Login authenticates and stores the session on the client.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Analyze uploads audio plus its measured duration (0 means unknown)
	// and returns the backend's initial Recording snapshot. Its status is
	// one of processing, completed, failed.
	Analyze(ctx context.Context, audio AudioSource, duration float64, onProgress ProgressFunc) (*models.Recording, error)

	// Chat asks a question about a recording and returns the answer.
	Chat(ctx context.Context, recordingID, message string) (string, error)

	ListRecordings(ctx context.Context) ([]models.Recording, error)
	GetRecording(ctx context.Context, id string) (*models.Recording, error)
	DeleteRecording(ctx context.Context, id string) error

	// Session returns the current session, or nil before login.
	Session() *Session

	// Logout drops the stored session.
	Logout()
}
