package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// WireDateFormat is the ISO-8601 layout (with fractional seconds) the backend
// stores dates in. Snapshots may also carry a numeric Unix timestamp.
const WireDateFormat = "2006-01-02T15:04:05.000Z07:00"

// MalformedRecordError reports a recording payload whose required fields are
// absent or of the wrong shape, or whose optional fields cannot be parsed.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed recording: field %q: %s", e.Field, e.Reason)
}

// Recording is one audio capture/import and its (possibly incomplete)
// analysis. A Recording is a valid value at every point of the processing
// lifecycle: fields the backend has not produced yet decode to empty
// sequences or nil scalars.
//
// Decoded values are immutable by convention; client-local state such as
// action-item completion lives in CompletionOverlay, never in the decoded
// value.
type Recording struct {
	ID         string
	Title      string
	Date       time.Time
	Duration   float64 // seconds
	Type       RecordingType
	AIDetected bool
	Status     RecordingStatus

	Summary     *RecordingSummary
	Sentiment   *SentimentData
	Transcript  []TranscriptSegment
	ActionItems []ActionItem
	KeyPoints   []KeyPoint
	Decisions   []Decision

	AudioFileURL *string

	// Progressive-streaming fields, populated only while processing.
	TranscriptText     *string
	TranscriptProgress *float64 // 0.0-1.0
	AnalysisStage      *string
}

// DurationFormatted renders the duration as H:MM:SS, or M:SS under an hour.
func (r Recording) DurationFormatted() string {
	total := int(r.Duration)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// SpeakerCount returns the number of distinct speakers in the transcript.
func (r Recording) SpeakerCount() int {
	seen := make(map[string]struct{}, 4)
	for _, s := range r.Transcript {
		seen[s.Speaker] = struct{}{}
	}
	return len(seen)
}

// TaskCount returns the number of extracted action items.
func (r Recording) TaskCount() int {
	return len(r.ActionItems)
}

// recordingWire mirrors the backend JSON document. Optional fields carry
// omitempty so a partial Recording re-encodes only the fields it holds.
type recordingWire struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Date               string              `json:"date"`
	Duration           float64             `json:"duration"`
	Type               RecordingType       `json:"type"`
	AIDetected         bool                `json:"aiDetected"`
	Status             RecordingStatus     `json:"status"`
	Summary            *RecordingSummary   `json:"summary,omitempty"`
	Sentiment          *SentimentData      `json:"sentiment,omitempty"`
	Transcript         []TranscriptSegment `json:"transcript,omitempty"`
	ActionItems        []ActionItem        `json:"actionItems,omitempty"`
	KeyPoints          []KeyPoint          `json:"keyPoints,omitempty"`
	Decisions          []Decision          `json:"decisions,omitempty"`
	AudioFileURL       *string             `json:"audioFileURL,omitempty"`
	TranscriptText     *string             `json:"transcriptText,omitempty"`
	TranscriptProgress *float64            `json:"transcriptProgress,omitempty"`
	AnalysisStage      *string             `json:"analysisStage,omitempty"`
}

// MarshalJSON re-serializes the Recording with the same field set and date
// format it was decoded with, so round-tripping a fully-populated record is
// lossless.
func (r Recording) MarshalJSON() ([]byte, error) {
	w := recordingWire{
		ID:                 r.ID,
		Title:              r.Title,
		Date:               r.Date.Format(WireDateFormat),
		Duration:           r.Duration,
		Type:               r.Type,
		AIDetected:         r.AIDetected,
		Status:             r.Status,
		Summary:            r.Summary,
		Sentiment:          r.Sentiment,
		Transcript:         r.Transcript,
		ActionItems:        r.ActionItems,
		KeyPoints:          r.KeyPoints,
		Decisions:          r.Decisions,
		AudioFileURL:       r.AudioFileURL,
		TranscriptText:     r.TranscriptText,
		TranscriptProgress: r.TranscriptProgress,
		AnalysisStage:      r.AnalysisStage,
	}
	return json.Marshal(w)
}

func (r *Recording) UnmarshalJSON(data []byte) error {
	dec, err := DecodeRecording(data)
	if err != nil {
		return err
	}
	*r = *dec
	return nil
}

var jsonNull = []byte("null")

// DecodeRecording parses a backend snapshot into a Recording.
//
// The parse is two-phase: required fields (id, title, date, duration, type,
// status) are extracted strictly and any problem with them yields a
// MalformedRecordError; optional fields are then extracted best-effort with
// absent collections defaulting to empty and absent scalars to nil.
// An unparseable date is a decode failure, never a silent default.
func DecodeRecording(data []byte) (*Recording, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedRecordError{Field: "", Reason: "not a JSON object"}
	}

	r := &Recording{
		Transcript:  []TranscriptSegment{},
		ActionItems: []ActionItem{},
		KeyPoints:   []KeyPoint{},
		Decisions:   []Decision{},
	}

	// Phase one: required fields, strict.
	if err := requiredField(raw, "id", &r.ID); err != nil {
		return nil, err
	}
	if err := requiredField(raw, "title", &r.Title); err != nil {
		return nil, err
	}
	if err := requiredField(raw, "duration", &r.Duration); err != nil {
		return nil, err
	}
	if r.Duration < 0 || math.IsNaN(r.Duration) {
		return nil, &MalformedRecordError{Field: "duration", Reason: "must be non-negative"}
	}
	if err := requiredField(raw, "type", &r.Type); err != nil {
		return nil, err
	}
	if !r.Type.Valid() {
		return nil, &MalformedRecordError{Field: "type", Reason: fmt.Sprintf("unknown value %q", r.Type)}
	}
	if err := requiredField(raw, "status", &r.Status); err != nil {
		return nil, err
	}
	if !r.Status.Valid() {
		return nil, &MalformedRecordError{Field: "status", Reason: fmt.Sprintf("unknown value %q", r.Status)}
	}

	date, err := parseWireDate(raw["date"])
	if err != nil {
		return nil, err
	}
	r.Date = date

	// Phase two: optional fields, best-effort with defaults.
	if err := optionalField(raw, "aiDetected", &r.AIDetected); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "summary", &r.Summary); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "sentiment", &r.Sentiment); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "transcript", &r.Transcript); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "actionItems", &r.ActionItems); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "keyPoints", &r.KeyPoints); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "decisions", &r.Decisions); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "audioFileURL", &r.AudioFileURL); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "transcriptText", &r.TranscriptText); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "transcriptProgress", &r.TranscriptProgress); err != nil {
		return nil, err
	}
	if err := optionalField(raw, "analysisStage", &r.AnalysisStage); err != nil {
		return nil, err
	}

	return r, nil
}

// requiredField extracts a mandatory key; absence, null, or the wrong shape
// all fail the decode.
func requiredField[T any](raw map[string]json.RawMessage, key string, dst *T) error {
	v, ok := raw[key]
	if !ok || bytes.Equal(v, jsonNull) {
		return &MalformedRecordError{Field: key, Reason: "missing"}
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return &MalformedRecordError{Field: key, Reason: "wrong shape"}
	}
	return nil
}

// optionalField extracts a key when present; absence and null leave the
// default in place. A present value of the wrong shape still fails: partial
// documents omit fields, they do not mistype them.
func optionalField[T any](raw map[string]json.RawMessage, key string, dst *T) error {
	v, ok := raw[key]
	if !ok || bytes.Equal(v, jsonNull) {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return &MalformedRecordError{Field: key, Reason: "wrong shape"}
	}
	return nil
}

// parseWireDate accepts an ISO-8601 string, with or without fractional
// seconds, or a numeric Unix timestamp in seconds.
func parseWireDate(v json.RawMessage) (time.Time, error) {
	if len(v) == 0 || bytes.Equal(v, jsonNull) {
		return time.Time{}, &MalformedRecordError{Field: "date", Reason: "missing"}
	}

	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		// RFC3339Nano covers both fractional and whole-second forms.
		t, perr := time.Parse(time.RFC3339Nano, s)
		if perr != nil {
			return time.Time{}, &MalformedRecordError{Field: "date", Reason: fmt.Sprintf("unparseable %q", s)}
		}
		return t, nil
	}

	var unix float64
	if err := json.Unmarshal(v, &unix); err == nil {
		sec := int64(unix)
		nsec := int64((unix - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).UTC(), nil
	}

	return time.Time{}, &MalformedRecordError{Field: "date", Reason: "wrong shape"}
}
