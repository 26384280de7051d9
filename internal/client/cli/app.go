package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/dkraev/mycolog/internal/client/config"
	"github.com/dkraev/mycolog/internal/client/connectivity"
	"github.com/dkraev/mycolog/internal/client/identity"
	"github.com/dkraev/mycolog/internal/client/remote"
	"github.com/dkraev/mycolog/internal/client/repositories/settings"
	"github.com/dkraev/mycolog/internal/client/store"
	"github.com/dkraev/mycolog/internal/client/syncer"
	"github.com/dkraev/mycolog/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the local store, the cloud clients and the sync machinery behind
// the interactive command loop.
type App struct {
	config    *config.Config
	store     *store.Repositories
	auth      *remote.AuthClient
	remote    *remote.HTTPStore
	identity  identity.Provider
	monitor   *connectivity.ProbeMonitor
	engine    *syncer.Engine
	scheduler *syncer.Scheduler
	logger    logging.Logger
	reader    *bufio.Reader
	userName  string
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	tokenSource := func(ctx context.Context) (string, error) {
		return repos.Settings.Get(ctx, settings.KeyAuthToken)
	}
	httpStore := remote.NewHTTPStore(c.ServerBaseURL, tokenSource)
	provider := identity.NewTokenProvider(repos.Settings)
	monitor := connectivity.NewProbeMonitor(
		connectivity.HTTPProbe(c.ServerBaseURL), c.OnlineCheckInterval)

	engine := syncer.NewEngine(repos.Records, repos.Settings, httpStore, provider,
		monitor, syncer.JPEGTranscoder{}, logger, syncer.Options{
			MaxPhotoDim: c.MaxPhotoDim,
			JPEGQuality: c.JPEGQuality,
		})
	scheduler := syncer.NewScheduler(engine, repos.Records, monitor, httpStore,
		logger, c.SyncInterval)

	return &App{
		config:    c,
		store:     repos,
		auth:      remote.NewAuthClient(c.ServerBaseURL),
		remote:    httpStore,
		identity:  provider,
		monitor:   monitor,
		engine:    engine,
		scheduler: scheduler,
		logger:    logger,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the background machinery and enters the command loop. It
// returns when the user exits; background goroutines are stopped before
// the database is closed.
func (a *App) Run(ctx context.Context) {
	if a.remote.Configured() {
		a.monitor.Start(ctx)
		a.scheduler.Start(ctx)
	}

	a.Root(ctx)

	if a.remote.Configured() {
		a.scheduler.Stop()
		a.monitor.Stop()
	}
	if err := a.store.Close(); err != nil {
		log.Printf("error closing database: %s", err.Error())
	}
}

func (a *App) isLoggedIn() bool {
	id, err := a.identity.Resolve(context.Background())
	return err == nil && id != nil
}
