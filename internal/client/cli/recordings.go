package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/braindumpster/braindumpster-go/internal/client/api"
	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/client/status"
)

// Import uploads an audio file and follows the analysis pipeline, printing
// progress and stage transitions as they arrive. The finished recording is
// rendered the same way "show" renders it.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: import <file> [title]")
	}
	path := args[0]
	title := strings.Join(args[1:], " ")

	var lastStage models.RecordingStatus
	cb := status.Callbacks{
		OnProgress: func(f float64) {
			fmt.Fprintf(a.out, "\r%3.0f%%", f*100)
		},
		OnSnapshot: func(r models.Recording) {
			if r.Status != lastStage {
				lastStage = r.Status
				fmt.Fprintf(a.out, "\n%s\n", r.Status.DisplayName())
			}
		},
	}

	rec, err := a.recordings.AnalyzeAndTrack(ctx, path, title, cb)
	fmt.Fprintln(a.out)
	if err != nil {
		var netErr *api.NetworkError
		if errors.As(err, &netErr) {
			return errors.New(netErr.UserMessage())
		}
		return err
	}

	a.remember(rec)
	renderRecording(a.out, *rec, a.overlay)
	return nil
}

func (a *App) List(ctx context.Context) error {
	recs, err := a.recordings.List(ctx)
	if err != nil {
		return err
	}
	renderList(a.out, recs)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <id>")
	}
	rec, err := a.recordings.Get(ctx, args[0])
	if err != nil {
		return err
	}
	a.remember(rec)
	renderRecording(a.out, *rec, a.overlay)
	return nil
}

func (a *App) Chat(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: chat <id> <question>")
	}
	answer, err := a.recordings.Chat(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, answer)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	if err := a.recordings.Delete(ctx, args[0]); err != nil {
		return err
	}
	if a.lastShown != nil && a.lastShown.ID == args[0] {
		a.lastShown = nil
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

// Done toggles the completion of action item n (1-based) of the last shown
// recording. The toggle is local UI state and never synced to the backend.
func (a *App) Done(ctx context.Context, args []string) error {
	if a.lastShown == nil {
		return fmt.Errorf("show a recording first")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: done <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lastShown.ActionItems) {
		return fmt.Errorf("no action item %q", args[0])
	}

	a.overlay.Toggle(a.lastShown.ActionItems[n-1])
	renderActionItems(a.out, a.lastShown.ActionItems, a.overlay)
	return nil
}

// remember makes rec the target of "done", with a fresh overlay.
func (a *App) remember(rec *models.Recording) {
	a.lastShown = rec
	a.overlay.Reset()
}
