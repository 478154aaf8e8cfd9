// Package models defines the Recording entity, its derived analysis values,
// and the tolerant wire codec used for backend snapshots.
package models

// RecordingType classifies a recording.
type RecordingType string

const (
	TypeMeeting  RecordingType = "meeting"
	TypeLecture  RecordingType = "lecture"
	TypePersonal RecordingType = "personal"
)

func (t RecordingType) Valid() bool {
	switch t {
	case TypeMeeting, TypeLecture, TypePersonal:
		return true
	}
	return false
}

// DisplayName returns the human-readable label for the type.
func (t RecordingType) DisplayName() string {
	switch t {
	case TypeMeeting:
		return "Meeting"
	case TypeLecture:
		return "Lecture"
	case TypePersonal:
		return "Personal"
	default:
		return string(t)
	}
}

// RecordingStatus is the processing lifecycle state reported by the backend.
//
// The lifecycle is ordered but not strictly linear: the backend normally
// moves forward through the states, and failed may arrive from any of them.
type RecordingStatus string

const (
	StatusProcessing      RecordingStatus = "processing"
	StatusTranscribing    RecordingStatus = "transcribing"
	StatusTranscriptReady RecordingStatus = "transcript_ready"
	StatusAnalyzingQuick  RecordingStatus = "analyzing_quick"
	StatusPreviewReady    RecordingStatus = "preview_ready"
	StatusAnalyzingDeep   RecordingStatus = "analyzing_deep"
	StatusCompleted       RecordingStatus = "completed"
	StatusFailed          RecordingStatus = "failed"
)

func (s RecordingStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusTranscribing, StatusTranscriptReady,
		StatusAnalyzingQuick, StatusPreviewReady, StatusAnalyzingDeep,
		StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further snapshots are meaningful.
func (s RecordingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress returns the nominal progress fraction displayed for the status.
func (s RecordingStatus) Progress() float64 {
	switch s {
	case StatusProcessing:
		return 0.10
	case StatusTranscribing:
		return 0.30
	case StatusTranscriptReady:
		return 0.50
	case StatusAnalyzingQuick:
		return 0.60
	case StatusPreviewReady:
		return 0.75
	case StatusAnalyzingDeep:
		return 0.90
	case StatusCompleted:
		return 1.00
	default:
		return 0.00
	}
}

// DisplayName returns the label shown while the status is active.
func (s RecordingStatus) DisplayName() string {
	switch s {
	case StatusProcessing:
		return "Processing"
	case StatusTranscribing:
		return "Transcribing"
	case StatusTranscriptReady:
		return "Transcript ready"
	case StatusAnalyzingQuick:
		return "Analyzing"
	case StatusPreviewReady:
		return "Preview ready"
	case StatusAnalyzingDeep:
		return "Deep analysis"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}
