package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/braindumpster/braindumpster-go/internal/buildinfo"
	"github.com/braindumpster/braindumpster-go/internal/emulator/auth"
	"github.com/braindumpster/braindumpster-go/internal/emulator/httpapi"
	"github.com/braindumpster/braindumpster-go/internal/emulator/pipeline"
	"github.com/braindumpster/braindumpster-go/internal/emulator/store"
	"github.com/braindumpster/braindumpster-go/internal/logging"
)

func main() {
	_ = godotenv.Load()

	buildinfo.PrintBuildData(os.Stdout)

	logger := logging.New()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
		logger.Warn(context.Background(), "JWT_SECRET not set, using insecure dev secret")
	}

	stageInterval := 700 * time.Millisecond
	if v := os.Getenv("STAGE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid STAGE_INTERVAL %q: %v", v, err)
		}
		stageInterval = d
	}

	st := store.New()
	am := auth.NewManager([]byte(secret), 15*time.Minute, 30*24*time.Hour)
	pl := pipeline.NewRunner(st, stageInterval, logger)
	srv := httpapi.NewServer(am, st, pl, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info(context.Background(), "emulator listening", "port", port, "stageInterval", stageInterval)
	if err := srv.Router().Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
