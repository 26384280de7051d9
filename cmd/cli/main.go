package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dkraev/mycolog/internal/buildinfo"
	"github.com/dkraev/mycolog/internal/client/cli"
	"github.com/dkraev/mycolog/internal/client/config"
	"github.com/dkraev/mycolog/internal/logging"

	stdlog "log"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(openLogSink(), nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		stdlog.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

// openLogSink sends background sync logs to a file so they do not interleave
// with the interactive prompt. Falling back to discard keeps the CLI usable
// when the file cannot be opened.
func openLogSink() io.Writer {
	f, err := os.OpenFile("mycolog.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard
	}
	return f
}
