package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/store"
	"github.com/nowpeople/contact-sync/models"
)

type thumbnailPhase int

const (
	thumbnailInit thumbnailPhase = iota
	thumbnailAwaitPage
)

// thumbnailer runs one direction of the thumbnail phase: it pages the
// backend ids of all stored contacts through the thumbnail endpoint,
// either fetching images or pushing them. The binary payloads never pass
// through this processor; the transport stores fetched images and reads
// pushed ones itself, this machine only sequences the pages.
type thumbnailer struct {
	baseTask

	contacts  store.ContactRepository
	transport adapter.Transport
	responses *responseBuffer
	log       *logger.Logger
	progress  progressFunc

	upload   bool
	pageSize int
	now      func() time.Time

	phase thumbnailPhase
	queue []int64
	pos   int
	sent  int
}

func newThumbnailer(
	contacts store.ContactRepository,
	transport adapter.Transport,
	responses *responseBuffer,
	upload bool,
	pageSize int,
	progress progressFunc,
	log *logger.Logger,
) *thumbnailer {
	if pageSize < 1 {
		pageSize = 1
	}
	return &thumbnailer{
		contacts:  contacts,
		transport: transport,
		responses: responses,
		log:       log,
		progress:  progress,
		upload:    upload,
		pageSize:  pageSize,
		now:       time.Now,
	}
}

func (t *thumbnailer) Tick(ctx context.Context) (bool, error) {
	if t.isCancelled() {
		return t.finish(ErrCancelled)
	}

	switch t.phase {
	case thumbnailInit:
		ids, err := t.contacts.FetchBackendIDs(ctx)
		if err != nil {
			return t.finish(fmt.Errorf("reading backend id list: %w", err))
		}
		t.queue = ids
		if len(ids) == 0 {
			return t.finish(nil)
		}
		if err := t.submitPage(); err != nil {
			return t.finish(err)
		}
		t.phase = thumbnailAwaitPage
		return false, nil

	case thumbnailAwaitPage:
		resp, ok := t.takeResponse(t.responses)
		if !ok {
			return false, nil
		}
		if resp.Err != nil {
			return t.finish(fmt.Errorf("thumbnail page: %w", resp.Err))
		}
		if _, ok := resp.Payload.(models.ThumbnailPage); !ok {
			return t.finish(fmt.Errorf("%w: thumbnail page carries %T", ErrBadResponse, resp.Payload))
		}

		t.pos += t.sent
		t.reportProgress()
		if t.pos >= len(t.queue) {
			t.log.Info().Int("contacts", len(t.queue)).Bool("upload", t.upload).Msg("thumbnail sync complete")
			return t.finish(nil)
		}
		if err := t.submitPage(); err != nil {
			return t.finish(err)
		}
		return false, nil

	default:
		return t.finish(fmt.Errorf("%w: thumbnail phase %d", ErrUnexpectedState, t.phase))
	}
}

func (t *thumbnailer) submitPage() error {
	if !t.transport.Online() {
		return fmt.Errorf("requesting thumbnail page: %w", adapter.ErrUnavailable)
	}
	end := t.pos + t.pageSize
	if end > len(t.queue) {
		end = len(t.queue)
	}
	t.sent = end - t.pos

	id, err := t.transport.Submit(models.ThumbnailRequest{
		BackendIDs: t.queue[t.pos:end],
		Upload:     t.upload,
	})
	if err != nil {
		return fmt.Errorf("requesting thumbnail page: %w", err)
	}
	t.awaitResponse(id)
	return nil
}

func (t *thumbnailer) reportProgress() {
	if t.progress == nil || len(t.queue) == 0 {
		return
	}
	task := models.TaskDownloadThumbnails
	if t.upload {
		task = models.TaskUploadThumbnails
	}
	percent := t.pos * 100 / len(t.queue)
	t.progress(models.NewSyncStatus(percent, "", task, models.SubStatusNone, t.pos, len(t.queue)))
}
