package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/models"
)

func newTestChangeLogRepo(t *testing.T) (*changeLogRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &changeLogRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestAppend_WritesAllEntriesInOneTransaction(t *testing.T) {
	repo, mock, db := newTestChangeLogRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contact_changes").
		WithArgs(int(models.ChangeLogNewContact), int64(10), int64(-1), int64(-1), int64(-1), int64(-1), "unknown", "", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO contact_changes").
		WithArgs(int(models.ChangeLogModifiedDetail), int64(10), int64(101), int64(100), int64(-1), int64(-1), "phone", "+7 900", int(models.FlagCell)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.Append(context.Background(),
		models.ChangeLogEntry{
			Type:             models.ChangeLogNewContact,
			LocalContactID:   10,
			LocalDetailID:    models.InvalidID,
			BackendContactID: models.InvalidID,
			BackendDetailID:  models.InvalidID,
			GroupID:          models.InvalidID,
		},
		models.ChangeLogEntry{
			Type:             models.ChangeLogModifiedDetail,
			LocalContactID:   10,
			LocalDetailID:    101,
			BackendContactID: 100,
			BackendDetailID:  models.InvalidID,
			GroupID:          models.InvalidID,
			Key:              models.KeyPhone,
			Value:            "+7 900",
			Flags:            models.FlagCell,
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAppend_NothingToWrite(t *testing.T) {
	repo, mock, db := newTestChangeLogRepo(t)
	defer db.Close()

	// Пустой вызов не открывает транзакцию.
	if err := repo.Append(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected DB interaction: %v", err)
	}
}

func TestCount_PerPartition(t *testing.T) {
	repo, mock, db := newTestChangeLogRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int(models.ChangeLogDeletedDetail)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.Count(context.Background(), models.ChangeLogDeletedDetail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4, got %d", n)
	}
}

func TestFetchPage_ResolvesKeyAliases(t *testing.T) {
	repo, mock, db := newTestChangeLogRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows([]string{"row_id", "type", "local_contact_id", "local_detail_id",
			"backend_contact_id", "backend_detail_id", "group_id", "key", "value", "flags", "created_at"}).
		AddRow(int64(1), int(models.ChangeLogModifiedDetail), int64(10), int64(101),
			int64(100), int64(-1), int64(-1), "phone", "+7 900", int(models.FlagCell), time.Now()).
		AddRow(int64(2), int(models.ChangeLogModifiedDetail), int64(11), int64(102),
			int64(110), int64(201), int64(-1), "totally-new-key", "x", 0, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM contact_changes").
		WithArgs(int(models.ChangeLogModifiedDetail), 25).
		WillReturnRows(rows)

	entries, err := repo.FetchPage(context.Background(), models.ChangeLogModifiedDetail, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != models.KeyPhone || entries[0].Flags != models.FlagCell {
		t.Errorf("alias or flags lost: %+v", entries[0])
	}
	// Незнакомый alias не роняет чтение.
	if entries[1].Key != models.KeyUnknown {
		t.Errorf("unexpected key for unknown alias: %v", entries[1].Key)
	}
}

func TestFetchPage_QueryError(t *testing.T) {
	repo, mock, db := newTestChangeLogRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM contact_changes").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.FetchPage(context.Background(), models.ChangeLogNewContact, 25)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestDeleteRows_ReportsAffected(t *testing.T) {
	repo, mock, db := newTestChangeLogRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM contact_changes").
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteRows(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 rows deleted, got %d", n)
	}
}

func TestDeleteRows_EmptyListIsNoop(t *testing.T) {
	repo, mock, db := newTestChangeLogRepo(t)
	defer db.Close()

	n, err := repo.DeleteRows(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("expected noop, got n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected DB interaction: %v", err)
	}
}
