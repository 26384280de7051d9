package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/dkraev/mycolog/internal/client/connectivity"
	"github.com/dkraev/mycolog/internal/client/remote"
	"github.com/dkraev/mycolog/internal/client/repositories/records"
	"github.com/dkraev/mycolog/internal/logging"
)

const (
	DefaultSyncInterval = 5 * time.Minute
	defaultStartupDelay = 3 * time.Second
)

// Scheduler triggers sync cycles: on a periodic ticker, on the device coming
// back online, and once shortly after startup when there is anything to
// sync. Every timer and subscription it acquires is released by Stop.
type Scheduler struct {
	engine  *Engine
	records records.Repository
	monitor connectivity.Monitor
	remote  remote.Store
	logger  logging.Logger

	interval     time.Duration
	startupDelay time.Duration

	online chan struct{}

	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewScheduler(
	engine *Engine,
	recordRepo records.Repository,
	monitor connectivity.Monitor,
	remoteStore remote.Store,
	logger logging.Logger,
	interval time.Duration,
) *Scheduler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Scheduler{
		engine:       engine,
		records:      recordRepo,
		monitor:      monitor,
		remote:       remoteStore,
		logger:       logger.With("component", "scheduler"),
		interval:     interval,
		startupDelay: defaultStartupDelay,
		online:       make(chan struct{}, 1),
	}
}

// Start begins scheduling. The engine's own guards decide whether a
// triggered cycle actually runs, so triggers are cheap to fire.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	// The callback only hands the event to the loop. The monitor may still
	// invoke a callback it snapshotted before unsubscribe, so the callback
	// itself must never spawn work that Stop has to wait for.
	s.unsubscribe = s.monitor.OnOnline(func() {
		select {
		case s.online <- struct{}{}:
		default:
		}
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

// Stop tears down the ticker and the connectivity subscription and waits for
// the scheduling goroutine to exit. An in-flight cycle is not interrupted.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.wg.Wait()
}

// ForceSync runs a cycle immediately on the calling goroutine. This is the
// operator's "sync now" entry point; the engine's guards still apply.
func (s *Scheduler) ForceSync(ctx context.Context) {
	s.engine.Sync(ctx)
}

// ConfigDump is the operator-facing snapshot of the sync configuration.
type ConfigDump struct {
	BackendConfigured bool
	Enabled           bool
	Online            bool
	Status            Status
	LastSync          time.Time
}

// DumpConfig reports the current sync configuration for debugging.
func (s *Scheduler) DumpConfig(ctx context.Context) ConfigDump {
	return ConfigDump{
		BackendConfigured: s.remote.Configured(),
		Enabled:           s.engine.Enabled(ctx),
		Online:            s.monitor.Online(),
		Status:            s.engine.Status(),
		LastSync:          s.engine.LastSync(),
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	startup := time.NewTimer(s.startupDelay)
	defer startup.Stop()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-startup.C:
			s.startupKick(ctx)
		case <-ticker.C:
			s.trigger(ctx)
		case <-s.online:
			s.logger.Info(ctx, "connectivity restored, triggering sync")
			s.trigger(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// startupKick runs the initial cycle after the settling delay, but only when
// sync is enabled and the store is non-empty: syncing an empty store on
// every launch would be a pointless network round trip.
func (s *Scheduler) startupKick(ctx context.Context) {
	if !s.engine.Enabled(ctx) {
		return
	}
	count, err := s.records.Count(ctx)
	if err != nil {
		s.logger.Warn(ctx, "startup sync skipped", "error", err)
		return
	}
	if count == 0 {
		return
	}
	s.trigger(ctx)
}

// trigger is only called from the loop goroutine, so the Add always happens
// while the wait group still counts the loop and cannot race Stop's Wait.
func (s *Scheduler) trigger(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.engine.Sync(ctx)
	}()
}
