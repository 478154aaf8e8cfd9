package api

import (
	"fmt"

	"github.com/braindumpster/braindumpster-go/internal/netx"
)

// NetworkError is a transmission-layer fault, classified so the caller can
// show a connectivity-specific message. Match with errors.As.
type NetworkError struct {
	Kind netx.FaultKind
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error (%s): %v", e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UserMessage returns the message surfaced to the user for this fault.
func (e *NetworkError) UserMessage() string {
	switch e.Kind {
	case netx.FaultTimeout:
		return "Analysis is taking longer than expected. Please try a shorter audio file or check your connection."
	case netx.FaultOffline:
		return "No internet connection. Please check your network and try again."
	case netx.FaultHostUnreachable:
		return "The analysis service is unreachable right now. Please try again later."
	default:
		return "Unable to reach the analysis service. Please try again later."
	}
}

// PayloadTooLargeError reports an audio payload above the configured ceiling.
// The check happens before any network traffic.
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("audio payload too large: %.1f MB exceeds the %.0f MB limit",
		float64(e.Size)/(1024*1024), float64(e.Limit)/(1024*1024))
}

// ServerError is a non-2xx backend response.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// DecodeError wraps a models.MalformedRecordError for a response body that
// could not be decoded as a Recording.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode error: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }
