package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/mock"
	"github.com/nowpeople/contact-sync/models"
)

func newTestDownloader(
	t *testing.T,
	ctrl *gomock.Controller,
) (*downloader, *mock.MockContactRepository, *mock.MockStateRepository, *mock.MockTransport, *responseBuffer) {
	t.Helper()
	contacts := mock.NewMockContactRepository(ctrl)
	state := mock.NewMockStateRepository(ctrl)
	transport := mock.NewMockTransport(ctrl)
	buf := newResponseBuffer()

	d := newDownloader(contacts, state, transport, buf, 25, 1, 5, nil, logger.Nop())
	return d, contacts, state, transport, buf
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

// ── happy path ───────────────────────────────────────────────────────────────

// Локально хранятся backend-ids [10,20,30]; страница приносит
// 20 (изменён), 40 (новый с двумя деталями) и 10 (удалён).
func TestDownloader_SinglePageReconciliation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, contacts, state, transport, buf := newTestDownloader(t, ctrl)

	state.EXPECT().GetRevisionAnchor(gomock.Any()).Return(int64(5), nil)
	contacts.EXPECT().FetchBackendIDs(gomock.Any()).Return([]int64{10, 20, 30}, nil)

	transport.EXPECT().Online().Return(true).AnyTimes()
	transport.EXPECT().
		Submit(models.PageRequest{PageIndex: 0, PageSize: 25, FromRevision: 5, ToRevision: models.HeadRevision}).
		Return(adapter.RequestID("req-1"), nil)

	done, err := d.Tick(context.Background())
	require.False(t, done)
	require.NoError(t, err)

	modified := models.Contact{
		BackendID: 20,
		Details: []models.ContactDetail{{
			BackendDetailID: 201, Key: models.KeyName, Value: "Bob Updated",
		}},
	}
	added := models.Contact{
		BackendID: 40,
		Details: []models.ContactDetail{
			{BackendDetailID: 401, Key: models.KeyName, Value: "Dora"},
			{BackendDetailID: 402, Key: models.KeyPhone, Value: "+331122"},
		},
	}
	deleted := models.Contact{BackendID: 10, Deleted: true}

	buf.Put(adapter.Response{ID: "req-1", Payload: models.ContactsPage{
		Contacts:      []models.Contact{modified, added, deleted},
		CurrentPage:   0,
		NumberOfPages: intPtr(1),
		Version:       int64Ptr(99),
	}})

	// Добавление: все детали уходят в store с флагом native-pending.
	contacts.EXPECT().
		InsertBatch(gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(_ context.Context, cs []models.Contact) (int, error) {
			require.Equal(t, int64(40), cs[0].BackendID)
			require.Len(t, cs[0].Details, 2)
			for _, det := range cs[0].Details {
				assert.True(t, det.NativePending)
				assert.Equal(t, models.InvalidID, det.NativeDetailID)
			}
			return 1, nil
		})

	// Изменение: деталь сопоставляется по backend id и обновляется.
	stored20 := models.Contact{
		LocalID: 2, BackendID: 20, NativeID: 200,
		Details: []models.ContactDetail{{
			LocalDetailID: 21, LocalContactID: 2, BackendDetailID: 201,
			NativeDetailID: 210, Key: models.KeyName, Value: "Bob",
		}},
	}
	contacts.EXPECT().FetchByBackendID(gomock.Any(), int64(20)).Return(stored20, nil)
	contacts.EXPECT().
		UpdateDetails(gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(_ context.Context, details []models.ContactDetail) (int, error) {
			assert.Equal(t, int64(21), details[0].LocalDetailID)
			assert.Equal(t, "Bob Updated", details[0].Value)
			assert.True(t, details[0].NativePending)
			return 1, nil
		})

	// Удаление: контакт с нативной копией помечается, не вычищается.
	stored10 := models.Contact{LocalID: 1, BackendID: 10, NativeID: 100}
	contacts.EXPECT().FetchByBackendID(gomock.Any(), int64(10)).Return(stored10, nil)
	contacts.EXPECT().
		UpdateBatch(gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(_ context.Context, cs []models.Contact) (int, error) {
			assert.True(t, cs[0].Deleted)
			assert.Equal(t, int64(1), cs[0].LocalID)
			return 1, nil
		})

	// Якорь ревизии сохраняется только после полного применения.
	state.EXPECT().SetRevisionAnchor(gomock.Any(), int64(99)).Return(nil)

	err = runProcessor(t, d)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, d.Result())
}

func TestDownloader_EmptySnapshotPersistsAnchor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, contacts, state, transport, buf := newTestDownloader(t, ctrl)

	state.EXPECT().GetRevisionAnchor(gomock.Any()).Return(int64(0), nil)
	contacts.EXPECT().FetchBackendIDs(gomock.Any()).Return(nil, nil)
	transport.EXPECT().Online().Return(true)
	transport.EXPECT().Submit(gomock.Any()).Return(adapter.RequestID("req-1"), nil)

	_, err := d.Tick(context.Background())
	require.NoError(t, err)

	buf.Put(adapter.Response{ID: "req-1", Payload: models.ContactsPage{
		CurrentPage:   0,
		NumberOfPages: intPtr(0),
		Version:       int64Ptr(7),
	}})
	state.EXPECT().SetRevisionAnchor(gomock.Any(), int64(7)).Return(nil)

	err = runProcessor(t, d)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, d.Result())
}

// ── protocol violations ──────────────────────────────────────────────────────

func TestDownloader_FirstPageWithoutAnchorIsBadResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, contacts, state, transport, buf := newTestDownloader(t, ctrl)

	state.EXPECT().GetRevisionAnchor(gomock.Any()).Return(int64(0), nil)
	contacts.EXPECT().FetchBackendIDs(gomock.Any()).Return(nil, nil)
	transport.EXPECT().Online().Return(true)
	transport.EXPECT().Submit(gomock.Any()).Return(adapter.RequestID("req-1"), nil)

	_, err := d.Tick(context.Background())
	require.NoError(t, err)

	// Первая страница без number_of_pages/version — протокольная ошибка;
	// якорь не сохраняется (нет EXPECT на SetRevisionAnchor).
	buf.Put(adapter.Response{ID: "req-1", Payload: models.ContactsPage{CurrentPage: 0}})

	err = runProcessor(t, d)
	require.ErrorIs(t, err, ErrBadResponse)
	assert.Equal(t, StatusCommsBadResponse, d.Result())
}

func TestDownloader_OutOfOrderPageIsBadResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, contacts, state, transport, buf := newTestDownloader(t, ctrl)

	state.EXPECT().GetRevisionAnchor(gomock.Any()).Return(int64(0), nil)
	contacts.EXPECT().FetchBackendIDs(gomock.Any()).Return(nil, nil)
	transport.EXPECT().Online().Return(true)
	transport.EXPECT().Submit(gomock.Any()).Return(adapter.RequestID("req-1"), nil)

	_, err := d.Tick(context.Background())
	require.NoError(t, err)

	buf.Put(adapter.Response{ID: "req-1", Payload: models.ContactsPage{
		CurrentPage:   3,
		NumberOfPages: intPtr(5),
		Version:       int64Ptr(9),
	}})

	err = runProcessor(t, d)
	require.ErrorIs(t, err, ErrBadResponse)
	assert.Equal(t, StatusCommsBadResponse, d.Result())
}

func TestDownloader_MovedAnchorIsBadResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, contacts, state, transport, buf := newTestDownloader(t, ctrl)

	state.EXPECT().GetRevisionAnchor(gomock.Any()).Return(int64(0), nil)
	contacts.EXPECT().FetchBackendIDs(gomock.Any()).Return(nil, nil)
	transport.EXPECT().Online().Return(true).AnyTimes()

	first := transport.EXPECT().Submit(gomock.Any()).Return(adapter.RequestID("req-1"), nil)
	transport.EXPECT().Submit(gomock.Any()).Return(adapter.RequestID("req-2"), nil).After(first)

	_, err := d.Tick(context.Background())
	require.NoError(t, err)

	buf.Put(adapter.Response{ID: "req-1", Payload: models.ContactsPage{
		CurrentPage:   0,
		NumberOfPages: intPtr(2),
		Version:       int64Ptr(9),
	}})
	// Пустая страница: очередь применения пустеет сразу, запрашивается
	// вторая страница. Вторая страница приходит с другой ревизией —
	// сервер уехал вперёд.
	buf.Put(adapter.Response{ID: "req-2", Payload: models.ContactsPage{
		CurrentPage: 1,
		Version:     int64Ptr(11),
	}})

	err = runProcessor(t, d)
	require.ErrorIs(t, err, ErrBadResponse)
	assert.Equal(t, StatusCommsBadResponse, d.Result())
}

func TestDownloader_OfflineIsCommsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, contacts, state, transport, _ := newTestDownloader(t, ctrl)

	state.EXPECT().GetRevisionAnchor(gomock.Any()).Return(int64(0), nil)
	contacts.EXPECT().FetchBackendIDs(gomock.Any()).Return(nil, nil)
	transport.EXPECT().Online().Return(false)

	done, err := d.Tick(context.Background())
	require.True(t, done)
	require.ErrorIs(t, err, adapter.ErrUnavailable)
	assert.Equal(t, StatusCommsError, d.Result())
}

func TestDownloader_TransportErrorAbortsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d, contacts, state, transport, buf := newTestDownloader(t, ctrl)

	state.EXPECT().GetRevisionAnchor(gomock.Any()).Return(int64(0), nil)
	contacts.EXPECT().FetchBackendIDs(gomock.Any()).Return(nil, nil)
	transport.EXPECT().Online().Return(true)
	transport.EXPECT().Submit(gomock.Any()).Return(adapter.RequestID("req-1"), nil)

	_, err := d.Tick(context.Background())
	require.NoError(t, err)

	buf.Put(adapter.Response{ID: "req-1", Err: adapter.ErrUnavailable})

	err = runProcessor(t, d)
	require.ErrorIs(t, err, adapter.ErrUnavailable)
	assert.Equal(t, StatusCommsError, d.Result())
}
