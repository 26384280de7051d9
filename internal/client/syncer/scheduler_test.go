package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduler(h *harness, interval time.Duration) *Scheduler {
	s := NewScheduler(h.engine, h.records, h.monitor, h.remote, h.engine.logger, interval)
	s.startupDelay = 5 * time.Millisecond
	return s
}

func TestScheduler_StartupKickSyncsNonEmptyStore(t *testing.T) {
	h := newHarness(t)
	h.seedLocal("r1", 100, []byte("p"))

	s := newScheduler(h, time.Hour)
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		inserts, _, _, _ := h.remote.counts()
		return inserts == 1
	}, time.Second, time.Millisecond)
}

func TestScheduler_StartupKickSkipsEmptyStore(t *testing.T) {
	h := newHarness(t)

	s := newScheduler(h, time.Hour)
	s.Start(context.Background())

	time.Sleep(50 * time.Millisecond)
	s.Stop()

	_, _, _, lists := h.remote.counts()
	assert.Zero(t, lists, "an empty store must not sync at startup")
}

func TestScheduler_StartupKickSkipsWhenDisabled(t *testing.T) {
	h := newHarness(t)
	h.seedLocal("r1", 100, []byte("p"))
	require.NoError(t, h.engine.SetEnabled(context.Background(), false))

	s := newScheduler(h, time.Hour)
	s.Start(context.Background())

	time.Sleep(50 * time.Millisecond)
	s.Stop()

	inserts, _, _, lists := h.remote.counts()
	assert.Zero(t, inserts+lists)
}

func TestScheduler_TickerTriggersRepeatedCycles(t *testing.T) {
	h := newHarness(t)
	h.seedRemote("r1", 100, []byte("p"))

	s := newScheduler(h, 15*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		_, _, _, lists := h.remote.counts()
		return lists >= 2
	}, time.Second, time.Millisecond)
}

func TestScheduler_OnlineTransitionTriggersSync(t *testing.T) {
	h := newHarness(t)
	h.monitor.online = false
	h.seedLocal("r1", 100, []byte("p"))

	s := newScheduler(h, time.Hour)
	s.startupDelay = time.Hour // isolate the connectivity path
	s.Start(context.Background())
	defer s.Stop()

	h.monitor.comeOnline()

	require.Eventually(t, func() bool {
		inserts, _, _, _ := h.remote.counts()
		return inserts == 1
	}, time.Second, time.Millisecond)
}

func TestScheduler_OnlineCallbackAfterStopStaysQuiet(t *testing.T) {
	h := newHarness(t)
	h.monitor.online = false
	h.seedLocal("r1", 100, []byte("p"))

	s := newScheduler(h, time.Hour)
	s.startupDelay = time.Hour
	s.Start(context.Background())
	s.Stop()

	// the fake monitor keeps its subscriber list, standing in for a
	// callback the real monitor snapshotted before unsubscribe took effect
	h.monitor.comeOnline()

	time.Sleep(40 * time.Millisecond)
	inserts, _, _, lists := h.remote.counts()
	assert.Zero(t, inserts+lists, "a late connectivity callback must not start a cycle after Stop")
}

func TestScheduler_StopWaitsForInFlightTriggers(t *testing.T) {
	h := newHarness(t)
	h.seedLocal("r1", 100, []byte("p"))

	s := newScheduler(h, time.Hour)
	s.Start(context.Background())

	require.Eventually(t, func() bool {
		inserts, _, _, _ := h.remote.counts()
		return inserts == 1
	}, time.Second, time.Millisecond)

	s.Stop()
	// returning from Stop means the goroutines are gone; further waiting
	// must observe no new activity
	_, _, _, lists := h.remote.counts()
	time.Sleep(40 * time.Millisecond)
	_, _, _, after := h.remote.counts()
	assert.Equal(t, lists, after)
}

func TestScheduler_ForceSyncRunsSynchronously(t *testing.T) {
	h := newHarness(t)
	h.seedLocal("r1", 100, []byte("p"))

	s := newScheduler(h, time.Hour)
	s.ForceSync(context.Background())

	inserts, _, _, _ := h.remote.counts()
	assert.Equal(t, 1, inserts)
	assert.Equal(t, StateSuccess, h.engine.Status().State)
}

func TestScheduler_DumpConfigReflectsState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s := newScheduler(h, time.Hour)

	dump := s.DumpConfig(ctx)
	assert.True(t, dump.BackendConfigured)
	assert.True(t, dump.Enabled)
	assert.True(t, dump.Online)
	assert.Equal(t, StateIdle, dump.Status.State)
	assert.True(t, dump.LastSync.IsZero())

	require.NoError(t, h.engine.SetEnabled(ctx, false))
	h.monitor.online = false
	h.remote.configured = false

	dump = s.DumpConfig(ctx)
	assert.False(t, dump.BackendConfigured)
	assert.False(t, dump.Enabled)
	assert.False(t, dump.Online)
}
