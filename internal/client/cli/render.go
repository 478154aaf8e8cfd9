package cli

import (
	"fmt"
	"io"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
)

func renderList(w io.Writer, recs []models.Recording) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recordings yet.")
		return
	}
	for _, r := range recs {
		fmt.Fprintf(w, "%s  %-12s %-10s %8s  %s\n",
			r.Date.Format("2006-01-02 15:04"),
			r.Status,
			r.Type.DisplayName(),
			r.DurationFormatted(),
			r.Title)
		fmt.Fprintf(w, "    id: %s\n", r.ID)
	}
}

func renderRecording(w io.Writer, r models.Recording, overlay *models.CompletionOverlay) {
	fmt.Fprintf(w, "%s (%s, %s)\n", r.Title, r.Type.DisplayName(), r.DurationFormatted())
	fmt.Fprintf(w, "recorded %s, status: %s\n", r.Date.Format("2006-01-02 15:04"), r.Status.DisplayName())

	if !r.Status.Terminal() {
		if r.TranscriptProgress != nil {
			fmt.Fprintf(w, "transcription %.0f%%\n", *r.TranscriptProgress*100)
		}
		if r.AnalysisStage != nil {
			fmt.Fprintf(w, "analysis stage: %s\n", *r.AnalysisStage)
		}
	}

	if r.Summary != nil {
		fmt.Fprintf(w, "\nSummary\n  %s\n", r.Summary.Brief)
		for _, kt := range r.Summary.KeyTakeaways {
			fmt.Fprintf(w, "  - %s\n", kt)
		}
	}

	if len(r.KeyPoints) > 0 {
		fmt.Fprintln(w, "\nKey points")
		for _, kp := range r.KeyPoints {
			fmt.Fprintf(w, "  %s [%s] %s\n", kp.Emoji(), kp.Timestamp, kp.Point)
		}
	}

	if len(r.Decisions) > 0 {
		fmt.Fprintln(w, "\nDecisions")
		for _, d := range r.Decisions {
			fmt.Fprintf(w, "  [%s] %s (impact: %s)\n", d.Timestamp, d.Decision, d.Impact)
		}
	}

	renderActionItems(w, r.ActionItems, overlay)

	if r.Sentiment != nil {
		fmt.Fprintf(w, "\nSentiment: %s (%d/100)\n", r.Sentiment.Overall, r.Sentiment.Score)
	}

	if len(r.Transcript) > 0 {
		fmt.Fprintf(w, "\nTranscript: %d segments, %d speakers\n", len(r.Transcript), r.SpeakerCount())
	}
}

func renderActionItems(w io.Writer, items []models.ActionItem, overlay *models.CompletionOverlay) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, "\nAction items")
	for i, item := range items {
		mark := " "
		if overlay.IsCompleted(item) {
			mark = "x"
		}
		fmt.Fprintf(w, "  %2d. [%s] %s (%s, %s)\n", i+1, mark, item.Task, item.Assignee, item.Priority)
	}
}
