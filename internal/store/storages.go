package store

import (
	"context"
	"fmt"

	"github.com/nowpeople/contact-sync/internal/config"
	"github.com/nowpeople/contact-sync/internal/logger"
)

// Storages groups all local storage repositories into a single value that
// can be passed around the engine.
type Storages struct {
	// Contacts is the SQLite-backed repository for contacts and details.
	Contacts ContactRepository
	// ChangeLog is the repository for pending outbound changes.
	ChangeLog ChangeLogRepository
	// State is the repository for sync bookkeeping (revision anchor,
	// persisted flags).
	State StateRepository

	db *DB
}

// NewStorages initialises the local storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path in cfg.DB.DSN, creating
//     the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs a [Storages] value wired to fresh repositories.
func NewStorages(cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Contacts:  NewContactRepository(db, log),
		ChangeLog: NewChangeLogRepository(db, log),
		State:     NewStateRepository(db, log),
		db:        db,
	}, nil
}

// RegisterChangeListener subscribes fn to local-store write notifications.
func (s *Storages) RegisterChangeListener(fn func()) {
	s.db.RegisterChangeListener(fn)
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
