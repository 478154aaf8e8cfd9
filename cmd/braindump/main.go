package main

import (
	"context"
	"fmt"
	"os"

	"github.com/braindumpster/braindumpster-go/internal/buildinfo"
	"github.com/braindumpster/braindumpster-go/internal/client/cli"
	"github.com/braindumpster/braindumpster-go/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	fmt.Println("Braindumpster CLI (type 'help' for commands)")

	app := cli.NewApp(cfg)
	app.Run(ctx)
}
