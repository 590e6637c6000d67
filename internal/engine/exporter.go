package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/native"
	"github.com/nowpeople/contact-sync/internal/store"
	"github.com/nowpeople/contact-sync/models"
)

type exportState int

const (
	exportIDList exportState = iota
	exportIterate
)

// exporter is the tick-driven state machine that pushes locally stored
// changes out to the device address book. Unlike the importer it works a
// fixed-size batch per tick: device writes are the dominant cost and the
// platform APIs already batch internally.
//
// A contact that the device refuses to store (no supported details, for
// instance) is recorded in the failure summary and skipped; the run keeps
// going so one bad contact cannot starve the rest of the queue.
type exporter struct {
	baseTask

	contacts store.ContactRepository
	device   native.Accessor
	log      *logger.Logger
	progress progressFunc

	batchSize int
	now       func() time.Time

	state    exportState
	queue    []int64
	pos      int
	failures []string
}

func newExporter(
	contacts store.ContactRepository,
	device native.Accessor,
	batchSize int,
	progress progressFunc,
	log *logger.Logger,
) *exporter {
	if batchSize < 1 {
		batchSize = 1
	}
	return &exporter{
		contacts:  contacts,
		device:    device,
		log:       log,
		progress:  progress,
		batchSize: batchSize,
		now:       time.Now,
	}
}

func (e *exporter) Tick(ctx context.Context) (bool, error) {
	if e.isCancelled() {
		return e.finish(ErrCancelled)
	}

	switch e.state {
	case exportIDList:
		ids, err := e.contacts.NativeSyncableIDs(ctx)
		if err != nil {
			return e.finish(fmt.Errorf("listing native-syncable contacts: %w", err))
		}
		e.queue = ids
		e.state = exportIterate
		if len(ids) == 0 {
			return e.finish(nil)
		}
		e.log.Debug().Int("contacts", len(ids)).Msg("native export started")
		e.setTimeout(e.now(), 0)
		return false, nil

	case exportIterate:
		for n := 0; n < e.batchSize && e.pos < len(e.queue); n++ {
			if err := e.exportOne(ctx, e.queue[e.pos]); err != nil {
				return e.finish(err)
			}
			e.pos++
		}
		e.reportProgress()
		if e.pos >= len(e.queue) {
			e.log.Info().
				Int("contacts", len(e.queue)).
				Int("failures", len(e.failures)).
				Msg("native export complete")
			return e.finish(nil)
		}
		e.setTimeout(e.now(), 0)
		return false, nil

	default:
		return e.finish(fmt.Errorf("%w: export state %d", ErrUnexpectedState, e.state))
	}
}

// exportOne pushes one contact's pending changes to the device and
// acknowledges the consumed rows. Classification follows the leading
// record: a contact delete or add subsumes any detail-level records.
func (e *exporter) exportOne(ctx context.Context, localID int64) error {
	records, err := e.contacts.NativeChangeRecords(ctx, localID)
	if err != nil {
		return fmt.Errorf("reading pending changes for contact %d: %w", localID, err)
	}
	if len(records) == 0 {
		return nil
	}

	switch records[0].Type {
	case models.ChangeDeleteContact:
		return e.removeContact(ctx, records)
	case models.ChangeAddContact:
		return e.addContact(ctx, localID, records)
	default:
		return e.updateContact(ctx, localID, records)
	}
}

func (e *exporter) removeContact(ctx context.Context, records []models.ChangeRecord) error {
	nativeID := records[0].NativeContactID
	if nativeID != models.InvalidID {
		if err := e.device.RemoveContact(nativeID); err != nil {
			return fmt.Errorf("removing native contact %d: %w", nativeID, err)
		}
	}
	if err := e.contacts.AcknowledgeNativeIDs(ctx, records); err != nil {
		return fmt.Errorf("acknowledging contact removal: %w", err)
	}
	return nil
}

func (e *exporter) addContact(ctx context.Context, localID int64, records []models.ChangeRecord) error {
	local, err := e.contacts.FetchByLocalID(ctx, localID)
	if err != nil {
		return fmt.Errorf("fetching contact %d: %w", localID, err)
	}

	feedback, err := e.device.AddContact(accountOf(local), records)
	if err != nil {
		return fmt.Errorf("adding native contact: %w", err)
	}
	if feedback == nil {
		// The device stored nothing usable. Remember the contact and move
		// on; the pending rows stay for the next export run.
		e.failures = append(e.failures, local.DisplayName())
		e.log.Warn().
			Int64("local_id", localID).
			Str("name", local.DisplayName()).
			Msg("device rejected contact")
		return nil
	}
	if err := e.contacts.AcknowledgeNativeIDs(ctx, feedback); err != nil {
		return fmt.Errorf("acknowledging native ids: %w", err)
	}
	return nil
}

func (e *exporter) updateContact(ctx context.Context, localID int64, records []models.ChangeRecord) error {
	feedback, err := e.device.UpdateContact(records)
	if err != nil {
		return fmt.Errorf("updating native contact: %w", err)
	}

	hasAdds := false
	for _, rec := range records {
		if rec.Type == models.ChangeAddDetail {
			hasAdds = true
			break
		}
	}
	if hasAdds && len(feedback) == 0 {
		// New details went out but the device named no ids for them.
		// Same treatment as a rejected add: remember the contact, leave
		// its add rows pending for the next run.
		local, err := e.contacts.FetchByLocalID(ctx, localID)
		if err != nil {
			return fmt.Errorf("fetching contact %d: %w", localID, err)
		}
		e.failures = append(e.failures, local.DisplayName())
		e.log.Warn().
			Int64("local_id", localID).
			Str("name", local.DisplayName()).
			Msg("device rejected contact update")
	}

	// Acks for the consumed records: device feedback names ids for newly
	// created details; updates keep their ids and only clear the pending
	// flag; detail deletes purge the stored row.
	acks := feedback
	for _, rec := range records {
		switch rec.Type {
		case models.ChangeUpdateDetail:
			acks = append(acks, rec.CopyWithType(models.ChangeUpdateNativeDetailID))
		case models.ChangeDeleteDetail:
			acks = append(acks, rec)
		}
	}
	if len(acks) == 0 {
		return nil
	}
	if err := e.contacts.AcknowledgeNativeIDs(ctx, acks); err != nil {
		return fmt.Errorf("acknowledging native ids: %w", err)
	}
	return nil
}

func (e *exporter) reportProgress() {
	if e.progress == nil || len(e.queue) == 0 {
		return
	}
	percent := e.pos * 100 / len(e.queue)
	e.progress(models.NewSyncStatus(
		percent, "", models.TaskUpdateNativeContacts, models.SubStatusNone, e.pos, len(e.queue)))
}

// failureSummary lists the contacts the device rejected, empty when the
// run was clean.
func (e *exporter) failureSummary() string {
	return strings.Join(e.failures, ", ")
}

func accountOf(c models.Contact) string {
	if len(c.Sources) > 0 {
		return c.Sources[0]
	}
	return ""
}
