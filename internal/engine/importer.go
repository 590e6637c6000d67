package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/native"
	"github.com/nowpeople/contact-sync/internal/store"
	"github.com/nowpeople/contact-sync/models"
)

type importState int

const (
	importIDLists importState = iota
	importIterate
	importDeleted
)

// importer is the tick-driven state machine that pulls the device address
// book into the local store. One run walks three states:
//
//	importIDLists — read the native and local id lists;
//	importIterate — diff native contacts against the store, a bounded
//	                number per tick;
//	importDeleted — remove local contacts whose native id vanished from
//	                the device.
//
// The per-tick item count adapts toward the configured tick budget: after
// each iterate tick the count is rescaled by budget/elapsed, so slow
// device reads shrink the batch and fast ones grow it.
type importer struct {
	baseTask

	contacts store.ContactRepository
	changes  store.ChangeLogRepository
	device   native.Accessor
	log      *logger.Logger
	progress progressFunc

	accounts   []string
	tickBudget time.Duration
	now        func() time.Time

	state importState

	deviceIDs      []int64
	accountOf      map[int64]string
	localNativeIDs []int64
	deleteQueue    []int64

	pos          int
	itemsPerTick int
	total        int
	completed    int
}

func newImporter(
	contacts store.ContactRepository,
	changes store.ChangeLogRepository,
	device native.Accessor,
	accounts []string,
	tickBudget time.Duration,
	progress progressFunc,
	log *logger.Logger,
) *importer {
	return &importer{
		contacts:     contacts,
		changes:      changes,
		device:       device,
		log:          log,
		progress:     progress,
		accounts:     accounts,
		tickBudget:   tickBudget,
		now:          time.Now,
		itemsPerTick: 1,
	}
}

func (m *importer) Tick(ctx context.Context) (bool, error) {
	if m.isCancelled() {
		return m.finish(ErrCancelled)
	}

	switch m.state {
	case importIDLists:
		return m.tickIDLists(ctx)
	case importIterate:
		return m.tickIterate(ctx)
	case importDeleted:
		return m.tickDeleted(ctx)
	default:
		return m.finish(fmt.Errorf("%w: import state %d", ErrUnexpectedState, m.state))
	}
}

func (m *importer) tickIDLists(ctx context.Context) (bool, error) {
	accounts := m.accounts
	if len(accounts) == 0 {
		accounts = []string{""}
	}

	m.accountOf = make(map[int64]string)
	m.deviceIDs = m.deviceIDs[:0]
	for _, account := range accounts {
		ids, err := m.device.ContactIDs(account)
		if err != nil {
			return m.finish(fmt.Errorf("reading native id list: %w", err))
		}
		for _, id := range ids {
			m.accountOf[id] = account
		}
		m.deviceIDs = append(m.deviceIDs, ids...)
	}
	sort.Slice(m.deviceIDs, func(i, j int) bool { return m.deviceIDs[i] < m.deviceIDs[j] })

	localIDs, err := m.contacts.FetchNativeIDs(ctx)
	if err != nil {
		return m.finish(fmt.Errorf("reading local native id list: %w", err))
	}
	m.localNativeIDs = localIDs

	for _, id := range localIDs {
		if id == models.InvalidID {
			continue
		}
		if FindIDInOrderedList(id, m.deviceIDs) < 0 {
			m.deleteQueue = append(m.deleteQueue, id)
		}
	}

	m.total = len(m.deviceIDs) + len(m.deleteQueue)
	m.state = importIterate
	m.setTimeout(m.now(), 0)

	m.log.Debug().
		Int("device_contacts", len(m.deviceIDs)).
		Int("local_contacts", len(localIDs)).
		Int("pending_deletes", len(m.deleteQueue)).
		Msg("native import started")
	return false, nil
}

func (m *importer) tickIterate(ctx context.Context) (bool, error) {
	start := m.now()

	name := ""
	for n := 0; n < m.itemsPerTick && m.pos < len(m.deviceIDs); n++ {
		id := m.deviceIDs[m.pos]
		contactName, err := m.importOne(ctx, id)
		if err != nil {
			return m.finish(err)
		}
		name = contactName
		m.pos++
		m.completed++
	}
	m.reportProgress(name)

	m.rescaleBatch(m.now().Sub(start))

	if m.pos >= len(m.deviceIDs) {
		m.state = importDeleted
		m.pos = 0
	}
	m.setTimeout(m.now(), 0)
	return false, nil
}

func (m *importer) tickDeleted(ctx context.Context) (bool, error) {
	for n := 0; n < m.itemsPerTick && m.pos < len(m.deleteQueue); n++ {
		if err := m.deleteOne(ctx, m.deleteQueue[m.pos]); err != nil {
			return m.finish(err)
		}
		m.pos++
		m.completed++
	}
	m.reportProgress("")

	if m.pos >= len(m.deleteQueue) {
		m.log.Info().Int("contacts", m.total).Msg("native import complete")
		return m.finish(nil)
	}
	m.setTimeout(m.now(), 0)
	return false, nil
}

// importOne reconciles a single native contact into the local store and
// returns its display name for progress reporting. A contact the device
// cannot read back (deleted mid-run, provider hiccup) is logged and
// skipped; only storage failures abort the run.
func (m *importer) importOne(ctx context.Context, nativeID int64) (string, error) {
	fresh, err := m.device.Contact(nativeID)
	if err != nil {
		m.log.Warn().
			Int64("native_id", nativeID).
			Err(err).
			Msg("native contact unreadable, skipped")
		return "", nil
	}

	if FindIDInOrderedList(nativeID, m.localNativeIDs) < 0 {
		return m.insertImported(ctx, nativeID, fresh)
	}

	local, err := m.contacts.FetchByNativeID(ctx, nativeID)
	if err != nil {
		return "", fmt.Errorf("fetching contact by native id %d: %w", nativeID, err)
	}

	delta := ComputeDelta(local.ChangeRecords(models.ChangeUnknown), fresh, m.device)
	if delta == nil {
		return local.DisplayName(), nil
	}
	if err := m.applyDelta(ctx, local, delta); err != nil {
		return "", err
	}
	return local.DisplayName(), nil
}

// insertImported stores a contact seen on the device for the first time
// and logs it for upload.
func (m *importer) insertImported(ctx context.Context, nativeID int64, records []models.ChangeRecord) (string, error) {
	contact := contactFromNativeRecords(nativeID, m.accountOf[nativeID], records)
	if contact.IsEmpty() {
		return "", nil
	}

	if _, err := m.contacts.InsertBatch(ctx, []models.Contact{contact}); err != nil {
		return "", fmt.Errorf("inserting imported contact: %w", err)
	}
	stored, err := m.contacts.FetchByNativeID(ctx, nativeID)
	if err != nil {
		return "", fmt.Errorf("re-reading imported contact: %w", err)
	}
	if err := m.changes.Append(ctx, models.ChangeLogEntry{
		Type:           models.ChangeLogNewContact,
		LocalContactID: stored.LocalID,
	}); err != nil {
		return "", fmt.Errorf("logging imported contact: %w", err)
	}
	return stored.DisplayName(), nil
}

// applyDelta writes one contact's diff to the store and records the
// outbound change-log rows the upload reconciler will drain.
func (m *importer) applyDelta(ctx context.Context, local models.Contact, delta []models.ChangeRecord) error {
	var entries []models.ChangeLogEntry

	for _, rec := range delta {
		switch rec.Type {
		case models.ChangeAddDetail:
			detail := detailFromRecord(rec)
			detail.LocalContactID = local.LocalID
			if _, err := m.contacts.InsertDetails(ctx, []models.ContactDetail{detail}); err != nil {
				return fmt.Errorf("inserting detail: %w", err)
			}
			entries = append(entries, models.ChangeLogEntry{
				Type:             models.ChangeLogModifiedDetail,
				LocalContactID:   local.LocalID,
				BackendContactID: local.BackendID,
				Key:              rec.Key,
				Value:            rec.Value(),
				Flags:            rec.Flags,
			})

		case models.ChangeUpdateDetail:
			detail := detailFromRecord(rec)
			detail.LocalContactID = local.LocalID
			if _, err := m.contacts.UpdateDetails(ctx, []models.ContactDetail{detail}); err != nil {
				return fmt.Errorf("updating detail: %w", err)
			}
			entries = append(entries, models.ChangeLogEntry{
				Type:             models.ChangeLogModifiedDetail,
				LocalContactID:   local.LocalID,
				LocalDetailID:    rec.InternalDetailID,
				BackendContactID: local.BackendID,
				BackendDetailID:  rec.BackendDetailID,
				Key:              rec.Key,
				Value:            rec.Value(),
				Flags:            rec.Flags,
			})

		case models.ChangeDeleteDetail:
			if _, err := m.contacts.DeleteDetails(ctx, []int64{rec.InternalDetailID}); err != nil {
				return fmt.Errorf("deleting detail: %w", err)
			}
			if rec.BackendDetailID != models.InvalidID {
				entries = append(entries, models.ChangeLogEntry{
					Type:             models.ChangeLogDeletedDetail,
					LocalContactID:   local.LocalID,
					BackendContactID: local.BackendID,
					BackendDetailID:  rec.BackendDetailID,
					Key:              rec.Key,
				})
			}

		default:
			m.log.Warn().Str("change", rec.LogValue()).Msg("unexpected delta record, skipped")
		}
	}

	if len(entries) == 0 {
		return nil
	}
	if err := m.changes.Append(ctx, entries...); err != nil {
		return fmt.Errorf("logging contact diff: %w", err)
	}
	return nil
}

// deleteOne removes a contact whose native id no longer exists on the
// device, logging a backend delete when the contact was ever uploaded.
func (m *importer) deleteOne(ctx context.Context, nativeID int64) error {
	local, err := m.contacts.FetchByNativeID(ctx, nativeID)
	if err != nil {
		return fmt.Errorf("fetching vanished contact %d: %w", nativeID, err)
	}
	if local.BackendID != models.InvalidID {
		if err := m.changes.Append(ctx, models.ChangeLogEntry{
			Type:             models.ChangeLogDeletedContact,
			LocalContactID:   local.LocalID,
			BackendContactID: local.BackendID,
		}); err != nil {
			return fmt.Errorf("logging contact delete: %w", err)
		}
	}
	if _, err := m.contacts.DeleteBatch(ctx, []int64{local.LocalID}); err != nil {
		return fmt.Errorf("deleting vanished contact: %w", err)
	}
	return nil
}

// rescaleBatch adapts the per-tick item count toward the tick budget.
// The scaling factor is clamped so one outlier tick cannot swing the
// batch size by more than an order of magnitude.
func (m *importer) rescaleBatch(elapsed time.Duration) {
	if m.tickBudget <= 0 {
		return
	}
	factor := 10.0
	if elapsed > 0 {
		factor = float64(m.tickBudget) / float64(elapsed)
	}
	if factor > 10 {
		factor = 10
	}
	if factor < 0.1 {
		factor = 0.1
	}
	next := int(float64(m.itemsPerTick) * factor)
	if next < 1 {
		next = 1
	}
	m.itemsPerTick = next
}

func (m *importer) reportProgress(name string) {
	if m.progress == nil || m.total == 0 {
		return
	}
	percent := m.completed * 100 / m.total
	m.progress(models.NewSyncStatus(
		percent, name, models.TaskFetchNativeContacts, models.SubStatusNone, m.completed, m.total))
}

// contactFromNativeRecords materializes a Contact from a native read.
// Details inherit the record identity; internal and backend ids stay
// unassigned until the store and the upload path fill them in.
func contactFromNativeRecords(nativeID int64, account string, records []models.ChangeRecord) models.Contact {
	contact := models.Contact{
		LocalID:   models.InvalidID,
		BackendID: models.InvalidID,
		NativeID:  nativeID,
		UserID:    models.InvalidID,
	}
	if account != "" {
		contact.Sources = []string{account}
	}
	for _, rec := range records {
		if rec.Value() == "" {
			continue
		}
		contact.Details = append(contact.Details, detailFromRecord(rec))
	}
	return contact
}

// detailFromRecord converts one ChangeRecord into its ContactDetail shape.
func detailFromRecord(rec models.ChangeRecord) models.ContactDetail {
	return models.ContactDetail{
		LocalDetailID:   rec.InternalDetailID,
		LocalContactID:  rec.InternalContactID,
		BackendDetailID: rec.BackendDetailID,
		NativeDetailID:  rec.NativeDetailID,
		Key:             rec.Key,
		Value:           rec.Value(),
		Flags:           rec.Flags,
	}
}
