package store

import (
	"context"

	"github.com/nowpeople/contact-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ContactRepository is the storage collaborator for contacts and their
// details. Batch writes return the number of affected rows alongside the
// error so callers can detect partial persistence.
type ContactRepository interface {
	FetchByLocalID(ctx context.Context, localID int64) (models.Contact, error)
	FetchByBackendID(ctx context.Context, backendID int64) (models.Contact, error)
	FetchByNativeID(ctx context.Context, nativeID int64) (models.Contact, error)

	// Fetch*IDs return ascending id lists; the engine relies on the order
	// for merge walks and binary search.
	FetchLocalIDs(ctx context.Context) ([]int64, error)
	FetchBackendIDs(ctx context.Context) ([]int64, error)
	FetchNativeIDs(ctx context.Context) ([]int64, error)

	InsertBatch(ctx context.Context, contacts []models.Contact) (int, error)
	UpdateBatch(ctx context.Context, contacts []models.Contact) (int, error)
	DeleteBatch(ctx context.Context, localIDs []int64) (int, error)

	InsertDetails(ctx context.Context, details []models.ContactDetail) (int, error)
	UpdateDetails(ctx context.Context, details []models.ContactDetail) (int, error)
	DeleteDetails(ctx context.Context, localDetailIDs []int64) (int, error)

	// SetBackendIDs persists server-assigned identifiers for one contact:
	// the contact id plus detail ids keyed by local detail id.
	SetBackendIDs(ctx context.Context, localID, backendID int64, detailIDs map[int64]int64) error

	// NativeSyncableIDs lists local contact ids with changes still pending
	// toward the device address book, ascending.
	NativeSyncableIDs(ctx context.Context) ([]int64, error)

	// NativeChangeRecords projects one contact's pending native-bound
	// changes into ChangeRecords (reader side of the export path).
	NativeChangeRecords(ctx context.Context, localID int64) ([]models.ChangeRecord, error)

	// AcknowledgeNativeIDs persists natively-assigned identifiers and
	// clears the pending flag on the consumed details.
	AcknowledgeNativeIDs(ctx context.Context, records []models.ChangeRecord) error
}

// ChangeLogRepository is the storage collaborator for the outbound
// change log drained by the upload reconciler.
type ChangeLogRepository interface {
	Append(ctx context.Context, entries ...models.ChangeLogEntry) error
	Count(ctx context.Context, partition models.ChangeLogType) (int, error)
	FetchPage(ctx context.Context, partition models.ChangeLogType, limit int) ([]models.ChangeLogEntry, error)
	DeleteRows(ctx context.Context, rowIDs []int64) (int, error)
}

// StateRepository is the storage collaborator for sync bookkeeping: the
// download revision anchor and persisted boolean flags.
type StateRepository interface {
	GetRevisionAnchor(ctx context.Context) (int64, error)
	SetRevisionAnchor(ctx context.Context, revision int64) error
	GetFlag(ctx context.Context, name string) (bool, error)
	SetFlag(ctx context.Context, name string, value bool) error
}

// Persisted flag names used by the orchestrator.
const (
	FlagFirstTimeSyncComplete       = "first_time_sync_complete"
	FlagFirstTimeNativeSyncComplete = "first_time_native_sync_complete"
	FlagThumbnailSyncRequired       = "thumbnail_sync_required"
)
