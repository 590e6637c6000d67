package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/config"
	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/store"
	"github.com/nowpeople/contact-sync/models"
)

type uploadPhase int

const (
	uploadInit uploadPhase = iota
	uploadNextBatch
	uploadAwaitAck
)

// uploader drains the outbound change log to the backend, one partition
// at a time in the fixed partition order: new contacts first so every
// later detail or group change can reference a backend contact id, then
// detail modifications, contact deletions, detail deletions and finally
// group membership changes.
//
// Rows are deleted only after their acknowledgment has been processed,
// so a crash mid-upload re-sends the batch instead of losing it. An ack
// whose count or length disagrees with the sent batch is a protocol
// violation and aborts the run.
type uploader struct {
	baseTask

	contacts  store.ContactRepository
	changes   store.ChangeLogRepository
	transport adapter.Transport
	responses *responseBuffer
	log       *logger.Logger
	progress  progressFunc

	pageSize   int
	duplicates config.DuplicatePolicy
	now        func() time.Time

	phase        uploadPhase
	partitionIdx int

	batch        []models.ChangeLogEntry
	sentContacts []models.Contact
	sentLength   int

	total    int
	done     int
	failures []string
}

func newUploader(
	contacts store.ContactRepository,
	changes store.ChangeLogRepository,
	transport adapter.Transport,
	responses *responseBuffer,
	pageSize int,
	duplicates config.DuplicatePolicy,
	progress progressFunc,
	log *logger.Logger,
) *uploader {
	if pageSize < 1 {
		pageSize = 1
	}
	return &uploader{
		contacts:   contacts,
		changes:    changes,
		transport:  transport,
		responses:  responses,
		log:        log,
		progress:   progress,
		pageSize:   pageSize,
		duplicates: duplicates,
		now:        time.Now,
	}
}

func (u *uploader) Tick(ctx context.Context) (bool, error) {
	if u.isCancelled() {
		return u.finish(ErrCancelled)
	}

	switch u.phase {
	case uploadInit:
		return u.tickInit(ctx)
	case uploadNextBatch:
		return u.tickNextBatch(ctx)
	case uploadAwaitAck:
		return u.tickAwaitAck(ctx)
	default:
		return u.finish(fmt.Errorf("%w: upload phase %d", ErrUnexpectedState, u.phase))
	}
}

func (u *uploader) tickInit(ctx context.Context) (bool, error) {
	for _, partition := range models.ChangeLogPartitions {
		n, err := u.changes.Count(ctx, partition)
		if err != nil {
			return u.finish(fmt.Errorf("counting %s partition: %w", partition, err))
		}
		u.total += n
	}
	if u.total == 0 {
		return u.finish(nil)
	}
	u.log.Debug().Int("pending", u.total).Msg("upload started")
	u.phase = uploadNextBatch
	u.setTimeout(u.now(), 0)
	return false, nil
}

func (u *uploader) tickNextBatch(ctx context.Context) (bool, error) {
	if u.partitionIdx >= len(models.ChangeLogPartitions) {
		u.log.Info().Int("changes", u.done).Msg("upload complete")
		return u.finish(nil)
	}
	partition := models.ChangeLogPartitions[u.partitionIdx]

	entries, err := u.changes.FetchPage(ctx, partition, u.pageSize)
	if err != nil {
		return u.finish(fmt.Errorf("reading %s partition: %w", partition, err))
	}
	if len(entries) == 0 {
		u.partitionIdx++
		u.setTimeout(u.now(), 0)
		return false, nil
	}

	if !u.transport.Online() {
		return u.finish(fmt.Errorf("uploading %s batch: %w", partition, adapter.ErrUnavailable))
	}

	submitted, err := u.submitBatch(ctx, partition, entries)
	if err != nil {
		return u.finish(err)
	}
	if !submitted {
		// The whole page was stale; its rows are gone, take the next one.
		u.setTimeout(u.now(), 0)
		return false, nil
	}
	u.phase = uploadAwaitAck
	return false, nil
}

// submitBatch builds and sends the wire request for one change-log page.
// Stale rows (referencing contacts that no longer exist or were already
// uploaded) are pruned before sending; submitted=false means the page
// held nothing else.
func (u *uploader) submitBatch(ctx context.Context, partition models.ChangeLogType, entries []models.ChangeLogEntry) (bool, error) {
	var payload any
	var stale []int64

	u.batch = nil
	u.sentContacts = nil

	switch partition {
	case models.ChangeLogNewContact:
		for _, e := range entries {
			contact, err := u.contacts.FetchByLocalID(ctx, e.LocalContactID)
			if errors.Is(err, store.ErrContactNotFound) || (err == nil && contact.BackendID != models.InvalidID) {
				stale = append(stale, e.RowID)
				continue
			}
			if err != nil {
				return false, fmt.Errorf("fetching contact %d: %w", e.LocalContactID, err)
			}
			u.batch = append(u.batch, e)
			u.sentContacts = append(u.sentContacts, contact)
		}
		u.sentLength = len(u.sentContacts)
		payload = models.AddContactsRequest{Contacts: u.sentContacts, Length: u.sentLength}

	case models.ChangeLogModifiedDetail:
		var wire []models.DetailChange
		for _, e := range entries {
			backendContactID := e.BackendContactID
			if backendContactID == models.InvalidID {
				contact, err := u.contacts.FetchByLocalID(ctx, e.LocalContactID)
				if err != nil || contact.BackendID == models.InvalidID {
					// The parent contact never made it to the backend.
					stale = append(stale, e.RowID)
					continue
				}
				backendContactID = contact.BackendID
			}
			u.batch = append(u.batch, e)
			wire = append(wire, models.DetailChange{
				BackendContactID: backendContactID,
				BackendDetailID:  e.BackendDetailID,
				Key:              e.Key,
				Value:            e.Value,
				Flags:            e.Flags,
			})
		}
		u.sentLength = len(wire)
		payload = models.ModifyDetailsRequest{Changes: wire, Length: u.sentLength}

	case models.ChangeLogDeletedContact:
		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			u.batch = append(u.batch, e)
			ids = append(ids, e.BackendContactID)
		}
		u.sentLength = len(ids)
		payload = models.DeleteContactsRequest{BackendIDs: ids, Length: u.sentLength}

	case models.ChangeLogDeletedDetail:
		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			u.batch = append(u.batch, e)
			ids = append(ids, e.BackendDetailID)
		}
		u.sentLength = len(ids)
		payload = models.DeleteDetailsRequest{DetailIDs: ids, Length: u.sentLength}

	case models.ChangeLogGroupAddition, models.ChangeLogGroupDeletion:
		relations := make([]models.GroupRelation, 0, len(entries))
		for _, e := range entries {
			u.batch = append(u.batch, e)
			relations = append(relations, models.GroupRelation{
				BackendContactID: e.BackendContactID,
				GroupID:          e.GroupID,
			})
		}
		u.sentLength = len(relations)
		payload = models.GroupChangesRequest{
			Relations: relations,
			Additions: partition == models.ChangeLogGroupAddition,
			Length:    u.sentLength,
		}

	default:
		return false, fmt.Errorf("%w: change-log partition %d", ErrUnexpectedState, partition)
	}

	if len(stale) > 0 {
		u.log.Warn().Int("rows", len(stale)).Str("partition", partition.String()).Msg("pruned stale change-log rows")
		if _, err := u.changes.DeleteRows(ctx, stale); err != nil {
			return false, fmt.Errorf("pruning stale rows: %w", err)
		}
		u.done += len(stale)
	}
	if len(u.batch) == 0 {
		return false, nil
	}

	id, err := u.transport.Submit(payload)
	if err != nil {
		return false, fmt.Errorf("submitting %s batch: %w", partition, err)
	}
	u.awaitResponse(id)
	return true, nil
}

func (u *uploader) tickAwaitAck(ctx context.Context) (bool, error) {
	resp, ok := u.takeResponse(u.responses)
	if !ok {
		return false, nil
	}
	partition := models.ChangeLogPartitions[u.partitionIdx]
	if resp.Err != nil {
		return u.finish(fmt.Errorf("%s batch: %w", partition, resp.Err))
	}

	var err error
	switch partition {
	case models.ChangeLogNewContact:
		err = u.handleAddAck(ctx, resp.Payload)
	case models.ChangeLogModifiedDetail:
		err = u.handleModifyAck(ctx, resp.Payload)
	default:
		err = u.handleBatchAck(resp.Payload, partition)
	}
	if err != nil {
		return u.finish(err)
	}

	rowIDs := make([]int64, len(u.batch))
	for i, e := range u.batch {
		rowIDs[i] = e.RowID
	}
	if _, err := u.changes.DeleteRows(ctx, rowIDs); err != nil {
		return u.finish(fmt.Errorf("deleting acknowledged rows: %w", err))
	}
	u.done += len(u.batch)
	u.reportProgress(partition)

	u.phase = uploadNextBatch
	u.setTimeout(u.now(), 0)
	return false, nil
}

// handleAddAck processes the positional new-contact acknowledgment:
// assigned ids are persisted, rejections go to the failure summary and
// duplicates are resolved per the configured policy.
func (u *uploader) handleAddAck(ctx context.Context, payload any) error {
	ack, ok := payload.(models.AddContactsResponse)
	if !ok {
		return fmt.Errorf("%w: new-contact ack carries %T", ErrBadResponse, payload)
	}
	if len(ack.Contacts) != len(u.sentContacts) {
		return fmt.Errorf("%w: sent %d contacts, ack names %d", ErrBadResponse, len(u.sentContacts), len(ack.Contacts))
	}

	for i, answered := range ack.Contacts {
		sent := u.sentContacts[i]

		if answered.BackendID == models.InvalidID {
			u.failures = append(u.failures, sent.DisplayName())
			u.log.Warn().
				Int64("local_id", sent.LocalID).
				Str("name", sent.DisplayName()).
				Msg("backend rejected contact")
			continue
		}

		existing, err := u.contacts.FetchByBackendID(ctx, answered.BackendID)
		switch {
		case err == nil && existing.LocalID != sent.LocalID:
			if resolveErr := u.resolveDuplicate(ctx, sent, existing, answered); resolveErr != nil {
				return resolveErr
			}
			continue
		case err != nil && !errors.Is(err, store.ErrContactNotFound):
			return fmt.Errorf("probing for duplicate of %d: %w", answered.BackendID, err)
		}

		if err := u.contacts.SetBackendIDs(ctx, sent.LocalID, answered.BackendID, detailIDMap(sent, answered)); err != nil {
			return fmt.Errorf("persisting backend ids: %w", err)
		}
	}
	return nil
}

// resolveDuplicate handles a backend answer that names a contact id the
// store already holds under a different local row.
func (u *uploader) resolveDuplicate(ctx context.Context, sent, existing, answered models.Contact) error {
	u.log.Warn().
		Int64("backend_id", answered.BackendID).
		Int64("sent_local_id", sent.LocalID).
		Int64("existing_local_id", existing.LocalID).
		Str("policy", string(u.duplicates)).
		Msg("duplicate contact acknowledged")

	if u.duplicates == config.DuplicateResync {
		// Drop the local copy; the next download restores the backend's
		// authoritative version.
		if _, err := u.contacts.DeleteBatch(ctx, []int64{sent.LocalID}); err != nil {
			return fmt.Errorf("resolving duplicate: %w", err)
		}
		return nil
	}

	if _, err := u.contacts.DeleteBatch(ctx, []int64{existing.LocalID}); err != nil {
		return fmt.Errorf("resolving duplicate: %w", err)
	}
	if err := u.contacts.SetBackendIDs(ctx, sent.LocalID, answered.BackendID, detailIDMap(sent, answered)); err != nil {
		return fmt.Errorf("resolving duplicate: %w", err)
	}
	return nil
}

func (u *uploader) handleModifyAck(ctx context.Context, payload any) error {
	ack, ok := payload.(models.ModifyDetailsResponse)
	if !ok {
		return fmt.Errorf("%w: modify-details ack carries %T", ErrBadResponse, payload)
	}
	if len(ack.DetailIDs) != u.sentLength {
		return fmt.Errorf("%w: sent %d detail changes, ack names %d", ErrBadResponse, u.sentLength, len(ack.DetailIDs))
	}

	for i, e := range u.batch {
		if e.BackendDetailID != models.InvalidID || e.LocalDetailID == models.InvalidID {
			continue
		}
		if ack.DetailIDs[i] == models.InvalidID {
			continue
		}
		ids := map[int64]int64{e.LocalDetailID: ack.DetailIDs[i]}
		if err := u.contacts.SetBackendIDs(ctx, e.LocalContactID, models.InvalidID, ids); err != nil {
			return fmt.Errorf("persisting backend detail id: %w", err)
		}
	}
	return nil
}

func (u *uploader) handleBatchAck(payload any, partition models.ChangeLogType) error {
	ack, ok := payload.(models.BatchAck)
	if !ok {
		return fmt.Errorf("%w: %s ack carries %T", ErrBadResponse, partition, payload)
	}
	if ack.Count != u.sentLength {
		return fmt.Errorf("%w: sent %d %s rows, ack counts %d", ErrBadResponse, u.sentLength, partition, ack.Count)
	}
	return nil
}

func (u *uploader) reportProgress(partition models.ChangeLogType) {
	if u.progress == nil || u.total == 0 {
		return
	}
	sub := models.SubStatusSentChanges
	if partition == models.ChangeLogNewContact {
		sub = models.SubStatusSentContacts
	}
	percent := u.done * 100 / u.total
	u.progress(models.NewSyncStatus(
		percent, "", models.TaskUploadServerContacts, sub, u.done, u.total))
}

// failureSummary lists contacts the backend rejected, empty when clean.
func (u *uploader) failureSummary() string {
	return strings.Join(u.failures, ", ")
}

// detailIDMap pairs sent details with answered details positionally and
// returns the local→backend detail id assignments worth persisting.
func detailIDMap(sent, answered models.Contact) map[int64]int64 {
	ids := make(map[int64]int64)
	for i, d := range answered.Details {
		if i >= len(sent.Details) {
			break
		}
		if d.BackendDetailID == models.InvalidID || sent.Details[i].LocalDetailID == models.InvalidID {
			continue
		}
		ids[sent.Details[i].LocalDetailID] = d.BackendDetailID
	}
	return ids
}
