// Package pipeline drives an emulated analysis lifecycle over recording
// documents: staged status progression with the fields each stage unlocks.
// Analysis artifacts are canned text derived from the recording, not real
// AI output.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/emulator/store"
	"github.com/braindumpster/braindumpster-go/internal/logging"
)

const (
	// Audio below either bound is "trivially short" and completes within
	// the upload request instead of going through the async pipeline.
	shortAudioSeconds = 3.0
	shortAudioBytes   = 64 * 1024

	// PoisonTitle drives the failure path, for tests and demos.
	PoisonTitle = "fail"

	defaultStageInterval = 700 * time.Millisecond
)

// forward is the stage order between the initial processing state and
// completion. failed can replace any of them.
var forward = []models.RecordingStatus{
	models.StatusTranscribing,
	models.StatusTranscriptReady,
	models.StatusAnalyzingQuick,
	models.StatusPreviewReady,
	models.StatusAnalyzingDeep,
	models.StatusCompleted,
}

// Runner advances recordings through the emulated pipeline, persisting every
// stage snapshot so subscribers see the full progression.
type Runner struct {
	store         *store.Store
	stageInterval time.Duration
	log           logging.Logger
}

func NewRunner(st *store.Store, stageInterval time.Duration, log logging.Logger) *Runner {
	if stageInterval <= 0 {
		stageInterval = defaultStageInterval
	}
	if log == nil {
		log = logging.New()
	}
	return &Runner{store: st, stageInterval: stageInterval, log: log}
}

// Start stores rec and begins its lifecycle. Trivially short audio and
// poisoned titles resolve synchronously; the returned snapshot is then
// already terminal. Otherwise the returned snapshot is the stored
// processing state and the pipeline continues in the background.
func (r *Runner) Start(ctx context.Context, userID string, rec models.Recording, audioSize int64) models.Recording {
	rec.Status = models.StatusProcessing

	if strings.EqualFold(strings.TrimSpace(rec.Title), PoisonTitle) {
		rec.Status = models.StatusFailed
		r.store.Put(userID, rec)
		r.log.Warn(ctx, "recording failed by poison title", "recordingId", rec.ID)
		return rec
	}

	if rec.Duration > 0 && rec.Duration < shortAudioSeconds || audioSize < shortAudioBytes {
		for _, stage := range forward {
			rec = advance(rec, stage)
		}
		r.store.Put(userID, rec)
		r.log.Info(ctx, "short recording completed synchronously", "recordingId", rec.ID)
		return rec
	}

	r.store.Put(userID, rec)
	go r.run(userID, rec)
	return rec
}

// run walks the forward stages, persisting each snapshot.
func (r *Runner) run(userID string, rec models.Recording) {
	for _, stage := range forward {
		time.Sleep(r.stageInterval)
		rec = advance(rec, stage)
		r.store.Put(userID, rec)
	}
}

// advance applies one stage transition, filling in the fields that become
// available at that stage.
func advance(rec models.Recording, stage models.RecordingStatus) models.Recording {
	rec.Status = stage

	switch stage {
	case models.StatusTranscribing:
		p := 0.5
		rec.TranscriptProgress = &p
		text := transcriptText(rec)
		half := text[:len(text)/2]
		rec.TranscriptText = &half

	case models.StatusTranscriptReady:
		p := 1.0
		rec.TranscriptProgress = &p
		text := transcriptText(rec)
		rec.TranscriptText = &text
		rec.Transcript = transcriptSegments(rec)

	case models.StatusAnalyzingQuick:
		stageName := "quick"
		rec.AnalysisStage = &stageName

	case models.StatusPreviewReady:
		rec.AnalysisStage = nil
		rec.Summary = &models.RecordingSummary{
			Brief: fmt.Sprintf("Preview summary of %q.", rec.Title),
		}
		rec.KeyPoints = keyPoints(rec)

	case models.StatusAnalyzingDeep:
		stageName := "deep"
		rec.AnalysisStage = &stageName

	case models.StatusCompleted:
		rec.AnalysisStage = nil
		rec.TranscriptProgress = nil
		rec.TranscriptText = nil
		rec.AIDetected = true
		rec.Summary = summary(rec)
		rec.KeyPoints = keyPoints(rec)
		rec.ActionItems = actionItems(rec)
		rec.Decisions = decisions(rec)
		rec.Sentiment = sentiment(rec)
	}

	return rec
}

func transcriptText(rec models.Recording) string {
	return fmt.Sprintf(
		"Speaker 1: Let's get started with %s. Speaker 2: Agreed, the main topic today is the plan.",
		rec.Title)
}

func transcriptSegments(rec models.Recording) []models.TranscriptSegment {
	positive := "positive"
	return []models.TranscriptSegment{
		{Speaker: "Speaker 1", Timestamp: "00:00", Text: fmt.Sprintf("Let's get started with %s.", rec.Title)},
		{Speaker: "Speaker 2", Timestamp: "00:12", Text: "Agreed, the main topic today is the plan.", Sentiment: &positive},
	}
}

func summary(rec models.Recording) *models.RecordingSummary {
	return &models.RecordingSummary{
		Brief:    fmt.Sprintf("Summary of %q.", rec.Title),
		Detailed: fmt.Sprintf("The recording %q covers a short discussion and ends with agreed next steps.", rec.Title),
		KeyTakeaways: []string{
			"A plan was agreed",
			"One task was assigned",
		},
	}
}

func keyPoints(rec models.Recording) []models.KeyPoint {
	positive := "positive"
	return []models.KeyPoint{
		{Timestamp: "00:12", Point: "The plan was agreed", Category: "decision", Sentiment: &positive},
	}
}

func actionItems(rec models.Recording) []models.ActionItem {
	return []models.ActionItem{
		{
			Task:      "Write down the agreed plan",
			Assignee:  "You",
			Priority:  "high",
			Timestamp: "00:20",
			Context:   fmt.Sprintf("follow-up from %q", rec.Title),
		},
	}
}

func decisions(rec models.Recording) []models.Decision {
	return []models.Decision{
		{
			Decision:     "Proceed with the plan",
			Timestamp:    "00:12",
			Participants: []string{"Speaker 1", "Speaker 2"},
			Impact:       "medium",
		},
	}
}

func sentiment(rec models.Recording) *models.SentimentData {
	return &models.SentimentData{
		Overall: "positive",
		Score:   78,
		Moments: []models.SentimentMoment{
			{Timestamp: "00:12", Type: "positive", Description: "Agreement on the plan"},
		},
		SpeakerMoods: []models.SpeakerMood{
			{Speaker: "Speaker 1", Mood: "positive", Energy: 70, TalkTimePercentage: 55},
			{Speaker: "Speaker 2", Mood: "neutral", Energy: 60, TalkTimePercentage: 45},
		},
	}
}
