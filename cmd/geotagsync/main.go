package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sdejongh/geotagsync/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], cli.Options{
		Build: cli.BuildInfo{Version: version, Commit: commit, BuildDate: date},
	})
	stop()
	os.Exit(code)
}
