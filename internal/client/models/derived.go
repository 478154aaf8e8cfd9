package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Derived analysis values. Each carries a generated ID used only for UI
// diffing; it is assigned at decode or construction and never serialized.

// RecordingSummary is the AI-produced summary of a recording.
type RecordingSummary struct {
	Brief        string   `json:"brief"`
	Detailed     string   `json:"detailed"`
	KeyTakeaways []string `json:"keyTakeaways"`
}

// SentimentData aggregates sentiment over the whole recording.
type SentimentData struct {
	Overall      string            `json:"overall"` // positive, neutral, negative, mixed
	Score        int               `json:"score"`   // 0-100
	Moments      []SentimentMoment `json:"moments"`
	SpeakerMoods []SpeakerMood     `json:"speakerMoods"`
}

// SentimentMoment marks a notable emotional point in the recording.
type SentimentMoment struct {
	ID          string `json:"-"`
	Timestamp   string `json:"timestamp"` // "MM:SS"
	Type        string `json:"type"`      // positive, tension, negative, neutral
	Description string `json:"description"`
}

func (m *SentimentMoment) UnmarshalJSON(data []byte) error {
	type alias SentimentMoment
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = SentimentMoment(a)
	m.ID = uuid.NewString()
	return nil
}

// SpeakerMood summarizes one speaker's disposition.
type SpeakerMood struct {
	ID                 string `json:"-"`
	Speaker            string `json:"speaker"`
	Mood               string `json:"mood"`   // positive, neutral, negative
	Energy             int    `json:"energy"` // 0-100
	TalkTimePercentage int    `json:"talkTimePercentage"`
}

func (m *SpeakerMood) UnmarshalJSON(data []byte) error {
	type alias SpeakerMood
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = SpeakerMood(a)
	m.ID = uuid.NewString()
	return nil
}

// TranscriptSegment is one diarized utterance.
type TranscriptSegment struct {
	ID        string  `json:"-"`
	Speaker   string  `json:"speaker"`
	Timestamp string  `json:"timestamp"` // "MM:SS"
	Text      string  `json:"text"`
	Sentiment *string `json:"sentiment,omitempty"` // positive, neutral, negative
}

func (s *TranscriptSegment) UnmarshalJSON(data []byte) error {
	type alias TranscriptSegment
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = TranscriptSegment(a)
	s.ID = uuid.NewString()
	return nil
}

// ActionItem is a task extracted from the conversation.
//
// IsCompleted is client-local UI state layered on top of the wire value via
// CompletionOverlay; it is not synced back to the backend.
type ActionItem struct {
	ID          string  `json:"-"`
	Task        string  `json:"task"`
	Assignee    string  `json:"assignee"`          // name or "You"
	DueDate     *string `json:"dueDate,omitempty"` // relative, like "2 days later"
	Priority    string  `json:"priority"`          // high, medium, low
	Timestamp   string  `json:"timestamp"`         // "MM:SS"
	Context     string  `json:"context"`           // why the task came up
	IsCompleted bool    `json:"isCompleted"`
}

func (a *ActionItem) UnmarshalJSON(data []byte) error {
	type alias ActionItem
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = ActionItem(v)
	a.ID = uuid.NewString()
	return nil
}

// KeyPoint is a highlighted moment of the discussion.
type KeyPoint struct {
	ID        string  `json:"-"`
	Timestamp string  `json:"timestamp"` // "MM:SS"
	Point     string  `json:"point"`
	Category  string  `json:"category"` // decision, discussion, information
	Sentiment *string `json:"sentiment,omitempty"`
}

func (k *KeyPoint) UnmarshalJSON(data []byte) error {
	type alias KeyPoint
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*k = KeyPoint(a)
	k.ID = uuid.NewString()
	return nil
}

// Emoji returns the mood glyph rendered next to the key point.
func (k KeyPoint) Emoji() string {
	if k.Sentiment == nil {
		return "😐"
	}
	switch *k.Sentiment {
	case "positive":
		return "😊"
	case "negative":
		return "😔"
	default:
		return "😐"
	}
}

// Decision records an agreement reached during the recording.
type Decision struct {
	ID           string   `json:"-"`
	Decision     string   `json:"decision"`
	Timestamp    string   `json:"timestamp"` // "MM:SS"
	Participants []string `json:"participants"`
	Impact       string   `json:"impact"` // high, medium, low
}

func (d *Decision) UnmarshalJSON(data []byte) error {
	type alias Decision
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Decision(a)
	d.ID = uuid.NewString()
	return nil
}
