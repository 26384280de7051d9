// Package syncer implements the offline-first bidirectional synchronization
// between the device-local record store and the cloud record table.
//
// Conflict resolution is last-writer-wins by watermark: whichever replica
// carries the newer meta.detail.updatedAt (falling back to createdAt) wins
// wholesale. Concurrent edits to different fields of the same record on two
// devices between syncs lose one side's edits entirely; they are not merged
// field by field.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dkraev/mycolog/internal/client/connectivity"
	"github.com/dkraev/mycolog/internal/client/identity"
	"github.com/dkraev/mycolog/internal/client/models"
	"github.com/dkraev/mycolog/internal/client/remote"
	"github.com/dkraev/mycolog/internal/client/repositories/records"
	"github.com/dkraev/mycolog/internal/client/repositories/settings"
	"github.com/dkraev/mycolog/internal/common"
	"github.com/dkraev/mycolog/internal/imagex"
	"github.com/dkraev/mycolog/internal/logging"
	"github.com/dkraev/mycolog/internal/quota"
)

// Transcoder converts photo blobs between storage and wire forms. The
// default implementation lives in internal/imagex; tests substitute a
// pass-through.
type Transcoder interface {
	Compress(blob []byte, maxDim, quality int) ([]byte, error)
	ToBase64(blob []byte) string
	FromBase64(s string) ([]byte, error)
}

// JPEGTranscoder is the production Transcoder.
type JPEGTranscoder struct{}

func (JPEGTranscoder) Compress(blob []byte, maxDim, quality int) ([]byte, error) {
	return imagex.Compress(blob, maxDim, quality)
}
func (JPEGTranscoder) ToBase64(blob []byte) string         { return imagex.ToBase64(blob) }
func (JPEGTranscoder) FromBase64(s string) ([]byte, error) { return imagex.FromBase64(s) }

// Options tune a sync engine. Zero values are replaced by defaults.
type Options struct {
	MaxPhotoDim   int           // longest photo side after compression
	JPEGQuality   int           // 1..100
	SuccessLinger time.Duration // how long the success status stays visible
	ErrorLinger   time.Duration // how long the error status stays visible
}

func (o Options) withDefaults() Options {
	if o.MaxPhotoDim == 0 {
		o.MaxPhotoDim = 1600
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = 82
	}
	if o.SuccessLinger == 0 {
		o.SuccessLinger = 3 * time.Second
	}
	if o.ErrorLinger == 0 {
		o.ErrorLinger = 5 * time.Second
	}
	return o
}

// Engine orchestrates sync cycles. All state lives on the instance, so tests
// can run independent engines side by side; there is no package-level state.
type Engine struct {
	records   records.Repository
	settings  settings.Repository
	remote    remote.Store
	identity  identity.Provider
	monitor   connectivity.Monitor
	transcode Transcoder
	logger    logging.Logger
	opts      Options
	now       func() time.Time

	mu           sync.Mutex
	running      bool
	status       Status
	lastSync     time.Time
	observers    map[int]func(Status)
	nextObserver int
}

func NewEngine(
	recordRepo records.Repository,
	settingsRepo settings.Repository,
	remoteStore remote.Store,
	identityProvider identity.Provider,
	monitor connectivity.Monitor,
	transcoder Transcoder,
	logger logging.Logger,
	opts Options,
) *Engine {
	return &Engine{
		records:   recordRepo,
		settings:  settingsRepo,
		remote:    remoteStore,
		identity:  identityProvider,
		monitor:   monitor,
		transcode: transcoder,
		logger:    logger.With("component", "syncer"),
		opts:      opts.withDefaults(),
		now:       time.Now,
		status:    Status{State: StateIdle},
		observers: make(map[int]func(Status)),
	}
}

// Enabled reads the persisted cloud-sync preference, defaulting to on. A
// read failure keeps the default, so a transient store error cannot disable
// sync behind the user's back.
func (e *Engine) Enabled(ctx context.Context) bool {
	v, err := e.settings.Get(ctx, settings.KeySyncEnabled)
	if err != nil {
		e.logger.Warn(ctx, "failed to read sync preference", "error", err)
		return true
	}
	return v != "false"
}

// SetEnabled persists the cloud-sync preference.
func (e *Engine) SetEnabled(ctx context.Context, enabled bool) error {
	return e.settings.Set(ctx, settings.KeySyncEnabled, strconv.FormatBool(enabled))
}

// Sync runs one full cycle: guards, identity, quota, upload reconciliation,
// download reconciliation, bookkeeping. It is safe to invoke from timers and
// event callbacks: re-entrant calls while a cycle is in flight are no-ops,
// and no error or panic ever escapes.
//
// Local deletions do not propagate: the cloud row outlives a local delete
// and the record is re-downloaded on a later cycle.
func (e *Engine) Sync(ctx context.Context) {
	// The in-flight flag flips before the first suspension point; a second
	// invocation observing it no-ops instead of racing.
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			e.logger.Error(ctx, "sync cycle panicked", "panic", p)
			e.fail(KindFailure, fmt.Sprintf("internal error: %v", p))
		}
	}()

	if !e.Enabled(ctx) || !e.remote.Configured() || !e.monitor.Online() {
		e.idle()
		return
	}

	e.setStatus(StateSyncing, KindNone, "")

	e.runCycle(ctx)
}

func (e *Engine) runCycle(ctx context.Context) {
	id, err := e.identity.Resolve(ctx)
	if err != nil {
		e.logger.Error(ctx, "identity resolution failed", "error", err)
		e.fail(KindFailure, "could not resolve cloud identity")
		return
	}
	if id == nil {
		// Not logged in is the expected steady state, not an error.
		e.idle()
		return
	}

	count, err := e.records.Count(ctx)
	if err != nil {
		e.logger.Error(ctx, "failed to count local records", "error", err)
		e.fail(KindFailure, "could not read local store")
		return
	}

	verdict := quota.Check(id.Tier, count)
	if verdict.Allowed {
		e.uploadPhase(ctx)
	} else {
		e.logger.Warn(ctx, "upload blocked by quota",
			"tier", string(id.Tier), "count", count, "limit", verdict.Limit)
	}

	// Download runs even when the quota blocks uploads: pulling remote state
	// into the local store consumes no cloud quota.
	if err := e.downloadPhase(ctx); err != nil {
		e.logger.Error(ctx, "download phase failed", "error", err)
		e.fail(KindFailure, "could not fetch cloud records")
		return
	}

	if !verdict.Allowed {
		e.fail(KindQuotaExceeded, verdict.Message)
		return
	}

	e.succeed(ctx)
}

// uploadPhase reconciles every local record against its cloud row. Failures
// are isolated per record: one bad record is logged and skipped, the rest of
// the batch is still attempted.
func (e *Engine) uploadPhase(ctx context.Context) {
	local, err := e.records.List(ctx)
	if err != nil {
		e.logger.Error(ctx, "failed to list local records", "error", err)
		return
	}

	for _, rec := range local {
		if err := e.uploadOne(ctx, rec); err != nil {
			e.logger.Error(ctx, "record upload failed", "record_id", rec.ID, "error", err)
		}
	}
}

func (e *Engine) uploadOne(ctx context.Context, rec *models.Record) error {
	watermark := rec.Watermark()

	existing, err := e.remote.Lookup(ctx, rec.ID)
	switch {
	case err == nil:
		if existing.UpdatedAt >= watermark {
			// Remote is current or newer; ties favor the existing row to
			// avoid redundant writes.
			return nil
		}
	case errors.Is(err, common.ErrNotFound):
		existing = nil
	default:
		return fmt.Errorf("lookup failed: %w", err)
	}

	payload, err := e.encodeRecord(rec, watermark)
	if err != nil {
		return err
	}

	if existing == nil {
		if err := e.remote.Insert(ctx, payload); err != nil {
			return fmt.Errorf("insert failed: %w", err)
		}
		return nil
	}
	if err := e.remote.Update(ctx, existing.ServerID, payload); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

func (e *Engine) encodeRecord(rec *models.Record, watermark int64) (*remote.Record, error) {
	photo, err := e.transcode.Compress(rec.Photo, e.opts.MaxPhotoDim, e.opts.JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("transcode failed: %w", err)
	}

	extras := make([]string, 0, len(rec.ExtraPhotos))
	for i, blob := range rec.ExtraPhotos {
		c, err := e.transcode.Compress(blob, e.opts.MaxPhotoDim, e.opts.JPEGQuality)
		if err != nil {
			return nil, fmt.Errorf("transcode of extra photo %d failed: %w", i, err)
		}
		extras = append(extras, e.transcode.ToBase64(c))
	}

	return &remote.Record{
		LocalID:           rec.ID,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         watermark,
		PhotoBase64:       e.transcode.ToBase64(photo),
		ExtraPhotosBase64: extras,
		View:              rec.View,
		Meta:              rec.Meta,
	}, nil
}

// downloadPhase pulls the full cloud snapshot and merges newer rows into the
// local store. Fetching the snapshot is all-or-nothing; merging is isolated
// per row like the upload phase.
func (e *Engine) downloadPhase(ctx context.Context) error {
	rows, err := e.remote.List(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := e.downloadOne(ctx, row); err != nil {
			e.logger.Error(ctx, "record download failed", "record_id", row.LocalID, "error", err)
		}
	}
	return nil
}

func (e *Engine) downloadOne(ctx context.Context, row *remote.Record) error {
	local, err := e.records.Get(ctx, row.LocalID)
	if err != nil {
		return fmt.Errorf("local lookup failed: %w", err)
	}
	if local != nil && local.Watermark() >= row.UpdatedAt {
		return nil
	}

	photo, err := e.transcode.FromBase64(row.PhotoBase64)
	if err != nil {
		return fmt.Errorf("photo decode failed: %w", err)
	}
	extras := make([][]byte, 0, len(row.ExtraPhotosBase64))
	for i, s := range row.ExtraPhotosBase64 {
		b, err := e.transcode.FromBase64(s)
		if err != nil {
			return fmt.Errorf("extra photo %d decode failed: %w", i, err)
		}
		extras = append(extras, b)
	}

	rec := &models.Record{
		ID:          row.LocalID,
		CreatedAt:   row.CreatedAt,
		Photo:       photo,
		ExtraPhotos: extras,
		View:        row.View,
		Meta:        row.Meta,
	}
	if err := e.records.Put(ctx, rec); err != nil {
		return fmt.Errorf("local write failed: %w", err)
	}
	return nil
}

// idle ends a cycle that never got past the guards: back to idle, no linger.
func (e *Engine) idle() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	e.setStatus(StateIdle, KindNone, "")
}

// succeed records the sync time and shows the success status briefly so
// observers can render a transient confirmation.
func (e *Engine) succeed(ctx context.Context) {
	now := e.now()

	e.mu.Lock()
	e.lastSync = now
	e.mu.Unlock()

	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if err := e.settings.Set(ctx, settings.KeyLastSyncMs, ms); err != nil {
		e.logger.Warn(ctx, "failed to persist last sync time", "error", err)
	}

	e.setStatus(StateSuccess, KindNone, "")
	e.lingerThenIdle(e.opts.SuccessLinger)
}

func (e *Engine) fail(kind Kind, message string) {
	e.setStatus(StateError, kind, message)
	e.lingerThenIdle(e.opts.ErrorLinger)
}

// lingerThenIdle keeps the terminal status visible for the given duration.
// The in-flight flag stays set until the machine returns to idle, so a new
// cycle can only start once the previous one has fully wound down.
func (e *Engine) lingerThenIdle(d time.Duration) {
	time.AfterFunc(d, func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		e.setStatus(StateIdle, KindNone, "")
	})
}
