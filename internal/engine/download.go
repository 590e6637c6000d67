package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/store"
	"github.com/nowpeople/contact-sync/models"
)

type downloadPhase int

const (
	downloadInit downloadPhase = iota
	downloadFetchPage
	downloadApply
)

// downloader reconciles backend contact changes into the local store. One
// run asks the backend for everything between the persisted revision
// anchor and its head, pages through the answer and applies the result in
// bounded batches.
//
// The anchor protocol: the first page is requested against HeadRevision
// and must answer with the page count and the concrete head revision.
// Every later page is requested — and validated — against that learned
// revision, so a head that moves mid-download surfaces as a protocol
// violation instead of a torn snapshot. The new anchor is persisted only
// after the final page has been fully applied.
type downloader struct {
	baseTask

	contacts  store.ContactRepository
	state     store.StateRepository
	transport adapter.Transport
	responses *responseBuffer
	log       *logger.Logger
	progress  progressFunc

	pageSize       int
	pagesPerBatch  int
	applyBatchSize int
	now            func() time.Time

	phase downloadPhase

	fromRevision    int64
	toRevision      int64
	localBackendIDs []int64

	totalPages   int
	expectedPage int
	pagesInBatch int

	addQueue []models.Contact
	modQueue []models.Contact
	delQueue []int64

	applied int
	queued  int
}

func newDownloader(
	contacts store.ContactRepository,
	state store.StateRepository,
	transport adapter.Transport,
	responses *responseBuffer,
	pageSize, pagesPerBatch, applyBatchSize int,
	progress progressFunc,
	log *logger.Logger,
) *downloader {
	if applyBatchSize < 1 {
		applyBatchSize = 1
	}
	if pagesPerBatch < 1 {
		pagesPerBatch = 1
	}
	return &downloader{
		contacts:       contacts,
		state:          state,
		transport:      transport,
		responses:      responses,
		log:            log,
		progress:       progress,
		pageSize:       pageSize,
		pagesPerBatch:  pagesPerBatch,
		applyBatchSize: applyBatchSize,
		now:            time.Now,
		toRevision:     models.HeadRevision,
	}
}

func (d *downloader) Tick(ctx context.Context) (bool, error) {
	if d.isCancelled() {
		return d.finish(ErrCancelled)
	}

	switch d.phase {
	case downloadInit:
		return d.tickInit(ctx)
	case downloadFetchPage:
		return d.tickFetchPage(ctx)
	case downloadApply:
		return d.tickApply(ctx)
	default:
		return d.finish(fmt.Errorf("%w: download phase %d", ErrUnexpectedState, d.phase))
	}
}

func (d *downloader) tickInit(ctx context.Context) (bool, error) {
	anchor, err := d.state.GetRevisionAnchor(ctx)
	if err != nil {
		return d.finish(fmt.Errorf("reading revision anchor: %w", err))
	}
	d.fromRevision = anchor

	ids, err := d.contacts.FetchBackendIDs(ctx)
	if err != nil {
		return d.finish(fmt.Errorf("reading local backend id list: %w", err))
	}
	d.localBackendIDs = ids

	if err := d.submitPage(0); err != nil {
		return d.finish(err)
	}
	d.phase = downloadFetchPage
	d.log.Debug().Int64("from_revision", anchor).Msg("download started")
	return false, nil
}

func (d *downloader) tickFetchPage(ctx context.Context) (bool, error) {
	resp, ok := d.takeResponse(d.responses)
	if !ok {
		return false, nil
	}
	if resp.Err != nil {
		return d.finish(fmt.Errorf("page %d: %w", d.expectedPage, resp.Err))
	}
	page, ok := resp.Payload.(models.ContactsPage)
	if !ok {
		return d.finish(fmt.Errorf("%w: page %d carries %T", ErrBadResponse, d.expectedPage, resp.Payload))
	}

	if d.expectedPage == 0 {
		if page.NumberOfPages == nil || page.Version == nil {
			return d.finish(fmt.Errorf("%w: first page missing page count or revision", ErrBadResponse))
		}
		d.totalPages = *page.NumberOfPages
		d.toRevision = *page.Version
	}
	if page.CurrentPage != d.expectedPage {
		return d.finish(fmt.Errorf("%w: expected page %d, got %d", ErrBadResponse, d.expectedPage, page.CurrentPage))
	}
	if page.Version != nil && *page.Version != d.toRevision {
		return d.finish(fmt.Errorf("%w: revision anchor moved from %d to %d mid-download",
			ErrBadResponse, d.toRevision, *page.Version))
	}

	for _, c := range page.Contacts {
		d.classify(c)
	}

	d.expectedPage++
	d.pagesInBatch++

	if d.expectedPage >= d.totalPages || d.pagesInBatch >= d.pagesPerBatch {
		d.pagesInBatch = 0
		d.phase = downloadApply
		d.setTimeout(d.now(), 0)
		return false, nil
	}
	if err := d.submitPage(d.expectedPage); err != nil {
		return d.finish(err)
	}
	return false, nil
}

func (d *downloader) tickApply(ctx context.Context) (bool, error) {
	for n := 0; n < d.applyBatchSize; n++ {
		worked, err := d.applyNext(ctx)
		if err != nil {
			return d.finish(err)
		}
		if !worked {
			break
		}
		d.applied++
	}
	d.reportProgress()

	if d.queuesEmpty() {
		if d.expectedPage < d.totalPages {
			if err := d.submitPage(d.expectedPage); err != nil {
				return d.finish(err)
			}
			d.phase = downloadFetchPage
			return false, nil
		}
		if err := d.state.SetRevisionAnchor(ctx, d.toRevision); err != nil {
			return d.finish(fmt.Errorf("persisting revision anchor: %w", err))
		}
		d.log.Info().
			Int64("revision", d.toRevision).
			Int("contacts", d.applied).
			Msg("download complete")
		return d.finish(nil)
	}

	d.setTimeout(d.now(), 0)
	return false, nil
}

func (d *downloader) submitPage(index int) error {
	if !d.transport.Online() {
		return fmt.Errorf("requesting page %d: %w", index, adapter.ErrUnavailable)
	}
	id, err := d.transport.Submit(models.PageRequest{
		PageIndex:    index,
		PageSize:     d.pageSize,
		FromRevision: d.fromRevision,
		ToRevision:   d.toRevision,
	})
	if err != nil {
		return fmt.Errorf("requesting page %d: %w", index, err)
	}
	d.awaitResponse(id)
	return nil
}

// classify routes one downloaded contact into the add, modify or delete
// queue by probing the ascending local backend id list.
func (d *downloader) classify(c models.Contact) {
	if c.BackendID == models.InvalidID {
		d.log.Warn().Msg("downloaded contact without backend id, skipped")
		return
	}
	known := FindIDInOrderedList(c.BackendID, d.localBackendIDs) >= 0

	switch {
	case c.Deleted && known:
		d.delQueue = append(d.delQueue, c.BackendID)
		d.queued++
	case c.Deleted:
		// Deleted and never stored locally: nothing to do.
	case !known:
		if c.IsEmpty() {
			return
		}
		d.addQueue = append(d.addQueue, c)
		d.queued++
	default:
		d.modQueue = append(d.modQueue, c)
		d.queued++
	}
}

func (d *downloader) queuesEmpty() bool {
	return len(d.addQueue) == 0 && len(d.modQueue) == 0 && len(d.delQueue) == 0
}

// applyNext consumes one queued item, additions before modifications
// before deletions. Returns worked=false when all queues are drained.
func (d *downloader) applyNext(ctx context.Context) (bool, error) {
	switch {
	case len(d.addQueue) > 0:
		c := d.addQueue[0]
		d.addQueue = d.addQueue[1:]
		return true, d.applyAdd(ctx, c)
	case len(d.modQueue) > 0:
		c := d.modQueue[0]
		d.modQueue = d.modQueue[1:]
		return true, d.applyMod(ctx, c)
	case len(d.delQueue) > 0:
		id := d.delQueue[0]
		d.delQueue = d.delQueue[1:]
		return true, d.applyDel(ctx, id)
	default:
		return false, nil
	}
}

// applyAdd stores a contact the backend knows and the device does not yet:
// every detail is marked native-pending so the next export pushes it out.
func (d *downloader) applyAdd(ctx context.Context, c models.Contact) error {
	c.LocalID = models.InvalidID
	c.NativeID = models.InvalidID
	for i := range c.Details {
		c.Details[i].LocalDetailID = models.InvalidID
		c.Details[i].NativeDetailID = models.InvalidID
		c.Details[i].NativePending = true
	}
	if _, err := d.contacts.InsertBatch(ctx, []models.Contact{c}); err != nil {
		return fmt.Errorf("inserting downloaded contact %d: %w", c.BackendID, err)
	}
	return nil
}

// applyMod folds a downloaded contact into its stored counterpart:
// scalar fields are overwritten, details are matched by backend id and
// inserted, updated or marked deleted as needed. Locally created details
// that were never uploaded are left untouched.
func (d *downloader) applyMod(ctx context.Context, c models.Contact) error {
	stored, err := d.contacts.FetchByBackendID(ctx, c.BackendID)
	if err != nil {
		return fmt.Errorf("fetching contact %d: %w", c.BackendID, err)
	}

	if !stored.ScalarFieldsEqual(c) {
		merged := stored
		merged.FriendOfMine = c.FriendOfMine
		merged.Gender = c.Gender
		merged.UserID = c.UserID
		merged.AboutMe = c.AboutMe
		merged.Sources = c.Sources
		merged.GroupIDs = c.GroupIDs
		merged.Details = nil
		if _, err := d.contacts.UpdateBatch(ctx, []models.Contact{merged}); err != nil {
			return fmt.Errorf("updating contact %d: %w", c.BackendID, err)
		}
	}

	var inserts, updates []models.ContactDetail
	var hardDeletes []int64
	seen := make(map[int64]bool, len(c.Details))

	for _, wire := range c.Details {
		match, ok := findStoredDetail(stored.Details, wire)
		if !ok {
			wire.LocalDetailID = models.InvalidID
			wire.LocalContactID = stored.LocalID
			wire.NativeDetailID = models.InvalidID
			wire.NativePending = true
			inserts = append(inserts, wire)
			continue
		}
		seen[match.LocalDetailID] = true
		if match.Equal(wire) {
			continue
		}
		match.Value = wire.Value
		match.Flags = wire.Flags
		match.NativePending = true
		updates = append(updates, match)
	}

	for _, s := range stored.Details {
		if s.Deleted || s.BackendDetailID == models.InvalidID || seen[s.LocalDetailID] {
			continue
		}
		// Present locally with a backend id, absent from the snapshot:
		// deleted upstream.
		if s.NativeDetailID == models.InvalidID {
			hardDeletes = append(hardDeletes, s.LocalDetailID)
			continue
		}
		s.Deleted = true
		s.NativePending = true
		updates = append(updates, s)
	}

	if len(inserts) > 0 {
		if _, err := d.contacts.InsertDetails(ctx, inserts); err != nil {
			return fmt.Errorf("inserting downloaded details: %w", err)
		}
	}
	if len(updates) > 0 {
		if _, err := d.contacts.UpdateDetails(ctx, updates); err != nil {
			return fmt.Errorf("updating downloaded details: %w", err)
		}
	}
	if len(hardDeletes) > 0 {
		if _, err := d.contacts.DeleteDetails(ctx, hardDeletes); err != nil {
			return fmt.Errorf("deleting downloaded details: %w", err)
		}
	}
	return nil
}

// applyDel handles an upstream contact deletion. A contact the device
// holds is only marked deleted so the export can remove the native copy
// first; one never exported is purged outright.
func (d *downloader) applyDel(ctx context.Context, backendID int64) error {
	stored, err := d.contacts.FetchByBackendID(ctx, backendID)
	if errors.Is(err, store.ErrContactNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetching contact %d: %w", backendID, err)
	}

	if stored.NativeID == models.InvalidID {
		if _, err := d.contacts.DeleteBatch(ctx, []int64{stored.LocalID}); err != nil {
			return fmt.Errorf("deleting contact %d: %w", backendID, err)
		}
		return nil
	}

	stored.Deleted = true
	stored.Details = nil
	if _, err := d.contacts.UpdateBatch(ctx, []models.Contact{stored}); err != nil {
		return fmt.Errorf("marking contact %d deleted: %w", backendID, err)
	}
	return nil
}

func (d *downloader) reportProgress() {
	if d.progress == nil || d.queued == 0 {
		return
	}
	percent := d.applied * 100 / d.queued
	d.progress(models.NewSyncStatus(
		percent, "", models.TaskDownloadServerContacts, models.SubStatusReceivedContacts, d.applied, d.queued))
}

// findStoredDetail matches a wire detail against the stored set, first by
// backend detail id, then by the content predicate for details uploaded
// before the id round-tripped.
func findStoredDetail(stored []models.ContactDetail, wire models.ContactDetail) (models.ContactDetail, bool) {
	if wire.BackendDetailID != models.InvalidID {
		for _, s := range stored {
			if s.BackendDetailID == wire.BackendDetailID {
				return s, true
			}
		}
	}
	for _, s := range stored {
		if s.BackendDetailID == models.InvalidID && s.Equal(wire) {
			return s, true
		}
	}
	return models.ContactDetail{}, false
}
