package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/config"
	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/native"
	"github.com/nowpeople/contact-sync/internal/store"
	"github.com/nowpeople/contact-sync/models"
)

// NoPendingWork is returned by NextRunTime when nothing is scheduled and
// no timer is armed.
const NoPendingWork = time.Duration(-1)

// uiRefreshInterval debounces store-change refresh callbacks so bulk
// writes during a sync do not flood the observer.
const uiRefreshInterval = 5 * time.Second

// phaseTable maps each sync mode to its phase sequence. A phase's
// successful completion advances to the next; any other outcome aborts
// the session.
var phaseTable = map[SyncMode][]EngineState{
	ModeFullSyncFirstTime: {StateFetchingServer, StateFetchingNative, StateUpdatingServer},
	ModeFullSync:          {StateFetchingServer, StateUpdatingServer},
	ModeServerSync:        {StateFetchingServer, StateUpdatingServer},
	ModeFetchNativeSync:   {StateFetchingNative, StateUpdatingServer},
	ModeUpdateNativeSync:  {StateUpdatingNative},
	ModeThumbnailSync:     {StateFetchingThumbnails, StateUpdatingThumbnails},
}

// Orchestrator is the top-level sync state machine. The host drives it
// through the scheduling contract: call NextRunTime to learn when the
// next Run is wanted, then call Run once. All orchestrator and processor
// code executes on the caller's goroutine; the only cross-thread inputs
// are the notification flags and the external request queue, which are
// the sole fields behind synchronization.
type Orchestrator struct {
	cfg       config.Sync
	accounts  []string
	contacts  store.ContactRepository
	changes   store.ChangeLogRepository
	stateRepo store.StateRepository
	transport adapter.Transport
	device    native.Accessor
	observer  Observer
	log       *logger.Logger
	now       func() time.Time

	responses *responseBuffer

	mode    SyncMode
	state   EngineState
	phases  []EngineState
	active  processor
	summary []string

	mu        sync.Mutex
	requested []SyncMode

	cancelRequested atomic.Bool
	removeUserData  atomic.Bool
	storeChanged    atomic.Bool
	nativeChanged   atomic.Bool

	serverDue       time.Time
	fetchNativeDue  time.Time
	updateNativeDue time.Time
	nextUIRefresh   time.Time

	firstTimeAttempts int
}

func NewOrchestrator(
	cfg config.Sync,
	accounts []string,
	contacts store.ContactRepository,
	changes store.ChangeLogRepository,
	stateRepo store.StateRepository,
	transport adapter.Transport,
	device native.Accessor,
	observer Observer,
	log *logger.Logger,
) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		accounts:  accounts,
		contacts:  contacts,
		changes:   changes,
		stateRepo: stateRepo,
		transport: transport,
		device:    device,
		observer:  observer,
		log:       log,
		now:       time.Now,
		responses: newResponseBuffer(),
	}
	o.armTimers(o.now())
	return o
}

func (o *Orchestrator) armTimers(now time.Time) {
	o.serverDue = now.Add(o.cfg.ServerInterval)
	o.fetchNativeDue = now.Add(o.cfg.FetchNativeInterval)
	o.updateNativeDue = now.Add(o.cfg.UpdateNativeInterval)
}

// RequestSync queues a sync session. Safe to call from any goroutine; the
// session starts on a later Run tick.
func (o *Orchestrator) RequestSync(mode SyncMode) {
	o.mu.Lock()
	o.requested = append(o.requested, mode)
	o.mu.Unlock()
}

// Cancel requests cooperative cancellation of the active session and
// clears all queued requests. With removeUserData the persisted
// first-time flags are reset too, forcing the next session to run as a
// first-time sync.
func (o *Orchestrator) Cancel(removeUserData bool) {
	if removeUserData {
		o.removeUserData.Store(true)
	}
	o.cancelRequested.Store(true)
}

// NotifyStoreChanged is the local-store change listener hook.
func (o *Orchestrator) NotifyStoreChanged() { o.storeChanged.Store(true) }

// NotifyNativeChanged is the device address-book observer hook; it pulls
// the next native fetch forward to the next tick.
func (o *Orchestrator) NotifyNativeChanged() { o.nativeChanged.Store(true) }

// State reports the currently executing phase.
func (o *Orchestrator) State() EngineState { return o.state }

// HandleResponse feeds one transport response into the engine's buffer.
// Must be called from the same goroutine that calls Run.
func (o *Orchestrator) HandleResponse(resp adapter.Response) { o.responses.Put(resp) }

// NextRunTime implements the scheduling contract: 0 means run now, a
// positive duration names the soonest pending timer, NoPendingWork means
// fully idle.
func (o *Orchestrator) NextRunTime() time.Duration {
	now := o.now()

	if o.cancelRequested.Load() || o.nativeChanged.Load() || o.pendingRequests() > 0 {
		return 0
	}
	if o.responses.Len() > 0 {
		return 0
	}
	if o.storeChanged.Load() && !now.Before(o.nextUIRefresh) {
		return 0
	}

	if o.active != nil {
		d, runnable := o.active.NextRunIn(now)
		if runnable {
			return d
		}
		// Suspended on a response; the host wakes us when one arrives.
		return NoPendingWork
	}

	soonest := NoPendingWork
	for _, due := range []time.Time{o.serverDue, o.fetchNativeDue, o.updateNativeDue} {
		d := due.Sub(now)
		if d < 0 {
			d = 0
		}
		if soonest == NoPendingWork || d < soonest {
			soonest = d
		}
	}
	return soonest
}

func (o *Orchestrator) pendingRequests() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.requested)
}

func (o *Orchestrator) takeRequest() (SyncMode, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.requested) == 0 {
		return ModeNone, false
	}
	mode := o.requested[0]
	o.requested = o.requested[1:]
	return mode, true
}

func (o *Orchestrator) clearRequests() {
	o.mu.Lock()
	o.requested = nil
	o.mu.Unlock()
}

// Run executes one scheduling tick: drain arrived responses, honor a
// pending cancel, start a session if one is due, otherwise advance the
// active processor by one tick.
func (o *Orchestrator) Run(ctx context.Context) {
	ctx = o.log.WithContext(ctx)

	defer o.discardOrphanResponses()

	o.drainResponses()

	if o.cancelRequested.Load() {
		o.handleCancel(ctx)
		return
	}

	o.maybeRefreshUI()

	if o.active == nil {
		if err := o.startDueSession(ctx); err != nil {
			o.log.Err(err).Msg("failed to start sync session")
		}
		return
	}

	done, err := o.active.Tick(ctx)
	if !done {
		return
	}

	status := o.active.Result()
	o.collectFailures()
	if err != nil {
		o.log.Err(err).
			Str("mode", o.mode.String()).
			Str("state", o.state.String()).
			Msg("sync phase failed")
	}
	if status != StatusSuccess {
		o.completeSession(ctx, status)
		return
	}
	o.advancePhase(ctx)
}

func (o *Orchestrator) drainResponses() {
	for {
		select {
		case resp := <-o.transport.Responses():
			o.responses.Put(resp)
		default:
			return
		}
	}
}

// discardOrphanResponses drops buffered responses once a Run ends with no
// active session. A response that outlived its session (the processor
// finished or was cancelled while the request was in flight) has no
// consumer left, and keeping it buffered would hold NextRunTime at zero
// indefinitely.
func (o *Orchestrator) discardOrphanResponses() {
	if o.active != nil || o.responses.Len() == 0 {
		return
	}
	for _, id := range o.responses.DiscardAll() {
		o.log.Warn().Str("request_id", string(id)).Msg("discarded response without awaiting processor")
	}
}

func (o *Orchestrator) maybeRefreshUI() {
	now := o.now()
	if !o.storeChanged.Load() || now.Before(o.nextUIRefresh) {
		return
	}
	o.storeChanged.Store(false)
	o.nextUIRefresh = now.Add(uiRefreshInterval)
	if o.observer != nil {
		o.observer.OnStoreRefresh()
	}
}

func (o *Orchestrator) handleCancel(ctx context.Context) {
	o.cancelRequested.Store(false)
	o.clearRequests()
	o.nativeChanged.Store(false)

	if o.removeUserData.Swap(false) {
		for _, flag := range []string{store.FlagFirstTimeSyncComplete, store.FlagFirstTimeNativeSyncComplete} {
			if err := o.stateRepo.SetFlag(ctx, flag, false); err != nil {
				o.log.Err(err).Str("flag", flag).Msg("failed to reset sync flag")
			}
		}
	}

	if o.active != nil {
		o.active.Cancel()
	}
	o.completeSession(ctx, StatusUserCancelled)
}

// startDueSession picks the next session to run: explicit requests first,
// then the persisted first-time and thumbnail obligations, then the
// interval timers.
func (o *Orchestrator) startDueSession(ctx context.Context) error {
	now := o.now()

	if mode, ok := o.takeRequest(); ok {
		return o.startSession(ctx, mode)
	}

	firstTimeDone, err := o.stateRepo.GetFlag(ctx, store.FlagFirstTimeSyncComplete)
	if err != nil {
		return err
	}
	if !firstTimeDone {
		return o.startSession(ctx, ModeFullSyncFirstTime)
	}

	if o.nativeChanged.Swap(false) {
		return o.startSession(ctx, ModeFetchNativeSync)
	}

	thumbnails, err := o.stateRepo.GetFlag(ctx, store.FlagThumbnailSyncRequired)
	if err != nil {
		return err
	}
	if thumbnails {
		return o.startSession(ctx, ModeThumbnailSync)
	}

	switch {
	case !now.Before(o.serverDue):
		return o.startSession(ctx, ModeServerSync)
	case !now.Before(o.fetchNativeDue):
		return o.startSession(ctx, ModeFetchNativeSync)
	case !now.Before(o.updateNativeDue):
		return o.startSession(ctx, ModeUpdateNativeSync)
	}
	return nil
}

func (o *Orchestrator) startSession(ctx context.Context, mode SyncMode) error {
	phases, ok := phaseTable[mode]
	if !ok {
		o.log.Error().Str("mode", mode.String()).Msg("mode without phase table")
		o.notifyComplete(StatusSyncFailed)
		return nil
	}

	o.mode = mode
	o.phases = append([]EngineState(nil), phases...)
	o.summary = nil
	o.log.Info().Str("mode", mode.String()).Msg("sync session started")
	o.advancePhase(ctx)
	return nil
}

// advancePhase moves the session to its next phase, or wraps it up when
// none remain.
func (o *Orchestrator) advancePhase(ctx context.Context) {
	o.active = nil
	if len(o.phases) == 0 {
		o.finishSession(ctx)
		return
	}

	next := o.phases[0]
	o.phases = o.phases[1:]
	o.transition(next)
	o.active = o.processorFor(next)
	if o.active == nil {
		o.log.Error().Str("state", next.String()).Msg("phase without processor")
		o.completeSession(ctx, StatusSyncFailed)
	}
}

func (o *Orchestrator) transition(next EngineState) {
	old := o.state
	o.state = next
	if o.observer != nil {
		o.observer.OnStateChange(o.mode, old, next)
	}
}

func (o *Orchestrator) processorFor(phase EngineState) processor {
	progress := func(st models.SyncStatus) {
		if o.observer != nil {
			o.observer.OnProgress(o.state, st)
		}
	}

	switch phase {
	case StateFetchingNative:
		return newImporter(o.contacts, o.changes, o.device, o.accounts, o.cfg.TickBudget, progress, o.log)
	case StateUpdatingNative:
		return newExporter(o.contacts, o.device, o.cfg.ApplyBatchSize, progress, o.log)
	case StateFetchingServer:
		return newDownloader(o.contacts, o.stateRepo, o.transport, o.responses,
			o.cfg.PageSize, o.cfg.PagesPerBatch, o.cfg.ApplyBatchSize, progress, o.log)
	case StateUpdatingServer:
		return newUploader(o.contacts, o.changes, o.transport, o.responses,
			o.cfg.PageSize, o.cfg.Duplicates, progress, o.log)
	case StateFetchingThumbnails:
		return newThumbnailer(o.contacts, o.transport, o.responses, false, o.cfg.PageSize, progress, o.log)
	case StateUpdatingThumbnails:
		return newThumbnailer(o.contacts, o.transport, o.responses, true, o.cfg.PageSize, progress, o.log)
	default:
		return nil
	}
}

// finishSession runs the successful-session epilogue: persisting the
// flags the completed mode owes and re-arming its timer.
func (o *Orchestrator) finishSession(ctx context.Context) {
	now := o.now()

	switch o.mode {
	case ModeFullSyncFirstTime:
		o.setFlag(ctx, store.FlagFirstTimeSyncComplete, true)
		o.setFlag(ctx, store.FlagFirstTimeNativeSyncComplete, true)
		o.setFlag(ctx, store.FlagThumbnailSyncRequired, true)
		o.firstTimeAttempts = 0
		o.serverDue = now.Add(o.cfg.ServerInterval)
	case ModeFullSync, ModeServerSync:
		o.setFlag(ctx, store.FlagThumbnailSyncRequired, true)
		o.serverDue = now.Add(o.cfg.ServerInterval)
	case ModeFetchNativeSync:
		o.fetchNativeDue = now.Add(o.cfg.FetchNativeInterval)
	case ModeUpdateNativeSync:
		o.updateNativeDue = now.Add(o.cfg.UpdateNativeInterval)
	case ModeThumbnailSync:
		o.setFlag(ctx, store.FlagThumbnailSyncRequired, false)
	}

	o.completeSession(ctx, StatusSuccess)
}

// completeSession tears the session down and reports its terminal status.
// First-time failures re-arm a retry instead of giving up, up to the
// configured attempt count; the final attempt's status is surfaced as-is.
func (o *Orchestrator) completeSession(ctx context.Context, status ServiceStatus) {
	if o.mode == ModeFullSyncFirstTime && status != StatusSuccess && status != StatusUserCancelled {
		o.firstTimeAttempts++
		if o.firstTimeAttempts < o.cfg.FirstTimeRetries {
			// Retry goes through the same pending-work queue as external
			// requests; the scheduler holds no hidden retry state.
			o.RequestSync(ModeFullSyncFirstTime)
			o.log.Warn().
				Int("attempt", o.firstTimeAttempts).
				Str("status", status.String()).
				Msg("first-time sync failed, retry armed")
		}
	}

	o.log.Info().
		Str("mode", o.mode.String()).
		Str("status", status.String()).
		Msg("sync session finished")

	o.active = nil
	o.phases = nil
	o.mode = ModeNone
	o.transition(StateIdle)
	o.notifyComplete(status)
}

func (o *Orchestrator) notifyComplete(status ServiceStatus) {
	if o.observer == nil {
		return
	}
	summary := ""
	if len(o.summary) > 0 {
		summary = o.summary[0]
		for _, s := range o.summary[1:] {
			summary += "; " + s
		}
	}
	o.observer.OnSyncComplete(status, summary)
	o.summary = nil
}

// collectFailures pulls per-item failure summaries out of processors that
// track them. Per-item failures never fail the session on their own.
func (o *Orchestrator) collectFailures() {
	type summarizer interface{ failureSummary() string }
	if s, ok := o.active.(summarizer); ok {
		if text := s.failureSummary(); text != "" {
			o.summary = append(o.summary, text)
		}
	}
}

func (o *Orchestrator) setFlag(ctx context.Context, name string, value bool) {
	if err := o.stateRepo.SetFlag(ctx, name, value); err != nil {
		o.log.Err(err).Str("flag", name).Msg("failed to persist sync flag")
	}
}
