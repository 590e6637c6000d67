package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/config"
	"github.com/nowpeople/contact-sync/internal/engine"
	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/internal/mock"
	"github.com/nowpeople/contact-sync/internal/store"
	"github.com/nowpeople/contact-sync/models"
)

// doneObserver сигналит о завершении сессии через канал, чтобы тест мог
// дождаться работы, выполняемой горутиной демона.
type doneObserver struct {
	done     chan engine.ServiceStatus
	statuses []engine.ServiceStatus
}

func newDoneObserver() *doneObserver {
	return &doneObserver{done: make(chan engine.ServiceStatus, 4)}
}

func (o *doneObserver) OnStateChange(engine.SyncMode, engine.EngineState, engine.EngineState) {}
func (o *doneObserver) OnProgress(engine.EngineState, models.SyncStatus)                      {}
func (o *doneObserver) OnStoreRefresh()                                                      {}

func (o *doneObserver) OnSyncComplete(status engine.ServiceStatus, _ string) {
	o.statuses = append(o.statuses, status)
	o.done <- status
}

type daemonFixture struct {
	daemon    *Daemon
	contacts  *mock.MockContactRepository
	changes   *mock.MockChangeLogRepository
	state     *mock.MockStateRepository
	transport *mock.MockTransport
	device    *mock.MockAccessor
	observer  *doneObserver
	responses chan adapter.Response
}

func newTestDaemon(t *testing.T, ctrl *gomock.Controller) *daemonFixture {
	t.Helper()

	f := &daemonFixture{
		contacts:  mock.NewMockContactRepository(ctrl),
		changes:   mock.NewMockChangeLogRepository(ctrl),
		state:     mock.NewMockStateRepository(ctrl),
		transport: mock.NewMockTransport(ctrl),
		device:    mock.NewMockAccessor(ctrl),
		observer:  newDoneObserver(),
		responses: make(chan adapter.Response, 8),
	}

	f.transport.EXPECT().Responses().Return((<-chan adapter.Response)(f.responses)).AnyTimes()

	cfg := config.Sync{
		PageSize:             25,
		PagesPerBatch:        1,
		TickBudget:           200 * time.Millisecond,
		ApplyBatchSize:       5,
		ServerInterval:       30 * time.Minute,
		FetchNativeInterval:  15 * time.Minute,
		UpdateNativeInterval: 20 * time.Minute,
		FirstTimeRetries:     3,
		Duplicates:           config.DuplicateMerge,
	}

	orch := engine.NewOrchestrator(cfg, nil,
		f.contacts, f.changes, f.state, f.transport, f.device, f.observer, logger.Nop())
	f.daemon = New(orch, f.transport, logger.Nop())
	return f
}

// Без работы демон спит на таймерах и останавливается по контексту.
func TestDaemon_RunStopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestDaemon(t, ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- f.daemon.Run(ctx) }()

	time.AfterFunc(20*time.Millisecond, cancel)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop after context cancellation")
	}
}

// Полный круг через горутину демона: запрос серверной синхронизации,
// ответ транспорта приходит по каналу, сессия завершается успехом.
func TestDaemon_RequestSyncDrivesSessionToCompletion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestDaemon(t, ctrl)
	f.transport.EXPECT().Online().Return(true).AnyTimes()

	// Скачивание: пустой снапшот; ответ уезжает в канал транспорта и
	// доставляется демоном.
	f.state.EXPECT().GetRevisionAnchor(gomock.Any()).Return(int64(0), nil)
	f.contacts.EXPECT().FetchBackendIDs(gomock.Any()).Return(nil, nil)
	pages := 0
	version := int64(3)
	f.transport.EXPECT().
		Submit(gomock.AssignableToTypeOf(models.PageRequest{})).
		DoAndReturn(func(any) (adapter.RequestID, error) {
			f.responses <- adapter.Response{ID: "req-1", Payload: models.ContactsPage{
				CurrentPage:   0,
				NumberOfPages: &pages,
				Version:       &version,
			}}
			return adapter.RequestID("req-1"), nil
		})
	f.state.EXPECT().SetRevisionAnchor(gomock.Any(), int64(3)).Return(nil)

	// Выгрузка: журнал изменений пуст.
	for _, p := range models.ChangeLogPartitions {
		f.changes.EXPECT().Count(gomock.Any(), p).Return(0, nil)
	}
	f.state.EXPECT().SetFlag(gomock.Any(), store.FlagThumbnailSyncRequired, true).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan error, 1)
	go func() { stopped <- f.daemon.Run(ctx) }()

	f.daemon.RequestSync(engine.ModeServerSync)

	select {
	case status := <-f.observer.done:
		assert.Equal(t, engine.StatusSuccess, status)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not complete")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop after context cancellation")
	}
}

// Отмена снаружи будит воркер и завершает сессию статусом USER_CANCELLED.
func TestDaemon_CancelWakesWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestDaemon(t, ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan error, 1)
	go func() { stopped <- f.daemon.Run(ctx) }()

	f.daemon.Cancel(false)

	select {
	case status := <-f.observer.done:
		assert.Equal(t, engine.StatusUserCancelled, status)
	case <-time.After(2 * time.Second):
		t.Fatal("cancel was not processed")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop after context cancellation")
	}
}

// Wake не блокируется, сколько бы раз его ни дернули.
func TestDaemon_WakeNeverBlocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestDaemon(t, ctrl)
	for i := 0; i < 10; i++ {
		f.daemon.Wake()
	}
}
