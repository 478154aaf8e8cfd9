package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/braindumpster/braindumpster-go/internal/client/api"
	"github.com/braindumpster/braindumpster-go/internal/client/config"
	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/client/services"
	"github.com/braindumpster/braindumpster-go/internal/logging"
)

// App wires the services behind the REPL and holds per-session UI state:
// the last shown recording and its action-item completion overlay.
type App struct {
	config     *config.Config
	auth       *services.AuthService
	recordings *services.RecordingService
	log        logging.Logger

	reader *bufio.Reader
	out    io.Writer

	lastShown *models.Recording
	overlay   *models.CompletionOverlay
}

func NewApp(c *config.Config) *App {
	log := logging.New()

	client := api.NewHTTPClient(api.Options{
		BaseURL:        c.ServerURL,
		Timeout:        c.UploadTimeout,
		MaxUploadBytes: c.MaxUploadBytes,
		Logger:         log,
	})

	return &App{
		config:     c,
		auth:       services.NewAuthService(client, log),
		recordings: services.NewRecordingService(client, c.WSURL, log),
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		overlay:    models.NewCompletionOverlay(),
	}
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.auth.LoggedIn()
}

func (a *App) statusLine() string {
	if a.isLoggedIn() {
		return "logged in"
	}
	return "logged out"
}
