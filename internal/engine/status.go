// Package engine implements the contact synchronization core: the
// orchestrator state machine, the tick-driven native import/export
// machines, the revision-anchored download reconciler, the change-log
// upload reconciler and the diff algorithm they share.
//
// Everything in this package runs on one cooperative worker: progress is
// driven by explicit re-invocation of Run/Tick, never by preemptive
// threads. Long operations are chopped into bounded units so no single
// invocation blocks the host beyond one tick budget.
package engine

import (
	"context"
	"errors"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/store"
	"github.com/nowpeople/contact-sync/models"
)

// ServiceStatus is the result taxonomy shared by every processor and the
// orchestrator.
type ServiceStatus int

const (
	// StatusUnknown is the initial value before a run has completed.
	StatusUnknown ServiceStatus = iota
	StatusSuccess
	// StatusCommsError: backend unreachable or transport failure.
	StatusCommsError
	// StatusCommsBadResponse: protocol/shape violation (missing revision
	// anchor, count mismatch between sent and returned items).
	StatusCommsBadResponse
	// StatusDatabaseCorrupt: the storage collaborator signaled an
	// unrecoverable read/write failure.
	StatusDatabaseCorrupt
	StatusUserCancelled
	// StatusSyncFailed: catch-all for unexpected state transitions.
	StatusSyncFailed
)

func (s ServiceStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCommsError:
		return "comms_error"
	case StatusCommsBadResponse:
		return "comms_bad_response"
	case StatusDatabaseCorrupt:
		return "database_corrupt"
	case StatusUserCancelled:
		return "user_cancelled"
	case StatusSyncFailed:
		return "sync_failed"
	default:
		return "unknown"
	}
}

// StatusFromError maps collaborator errors onto the status taxonomy.
func StatusFromError(err error) ServiceStatus {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, ErrCancelled):
		return StatusUserCancelled
	case errors.Is(err, adapter.ErrUnavailable):
		return StatusCommsError
	case errors.Is(err, adapter.ErrBadResponse),
		errors.Is(err, adapter.ErrUnknownPayload),
		errors.Is(err, ErrBadResponse):
		return StatusCommsBadResponse
	case errors.Is(err, store.ErrExecutingQuery),
		errors.Is(err, store.ErrExecutingStatement),
		errors.Is(err, store.ErrBeginningTransaction),
		errors.Is(err, store.ErrCommitingTransaction),
		errors.Is(err, store.ErrScanningRow),
		errors.Is(err, store.ErrScanningRows),
		errors.Is(err, store.ErrBuildingSQLQuery):
		return StatusDatabaseCorrupt
	default:
		return StatusSyncFailed
	}
}

// SyncMode selects the phase ordering of one sync session.
type SyncMode int

const (
	ModeNone SyncMode = iota
	ModeFullSyncFirstTime
	ModeFullSync
	ModeServerSync
	ModeThumbnailSync
	ModeFetchNativeSync
	ModeUpdateNativeSync
)

func (m SyncMode) String() string {
	switch m {
	case ModeFullSyncFirstTime:
		return "full_sync_first_time"
	case ModeFullSync:
		return "full_sync"
	case ModeServerSync:
		return "server_sync"
	case ModeThumbnailSync:
		return "thumbnail_sync"
	case ModeFetchNativeSync:
		return "fetch_native_sync"
	case ModeUpdateNativeSync:
		return "update_native_sync"
	default:
		return "none"
	}
}

// EngineState names the orchestrator's active phase.
type EngineState int

const (
	StateIdle EngineState = iota
	StateFetchingNative
	StateUpdatingNative
	StateFetchingServer
	StateUpdatingServer
	StateFetchingThumbnails
	StateUpdatingThumbnails
)

func (s EngineState) String() string {
	switch s {
	case StateFetchingNative:
		return "fetching_native"
	case StateUpdatingNative:
		return "updating_native"
	case StateFetchingServer:
		return "fetching_server"
	case StateUpdatingServer:
		return "updating_server"
	case StateFetchingThumbnails:
		return "fetching_thumbnails"
	case StateUpdatingThumbnails:
		return "updating_thumbnails"
	default:
		return "idle"
	}
}

// Observer receives orchestrator callbacks. Implementations must be fast;
// they are invoked on the engine's worker.
type Observer interface {
	OnStateChange(mode SyncMode, oldState, newState EngineState)
	OnProgress(state EngineState, status models.SyncStatus)
	OnSyncComplete(status ServiceStatus, failureSummary string)

	// OnStoreRefresh signals that local-store contents changed and any
	// displayed contact list should be re-read. Debounced by the
	// orchestrator.
	OnStoreRefresh()
}

// progressFunc is handed to processors so they can publish SyncStatus
// snapshots without knowing about the observer.
type progressFunc func(models.SyncStatus)
