package store

import (
	"database/sql"
	"sync"

	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/migrations"
)

// DB wraps the SQLite connection shared by all repositories and fans out
// change notifications to registered listeners.
type DB struct {
	*sql.DB
	logger *logger.Logger

	mu        sync.RWMutex
	listeners []func()
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// RegisterChangeListener subscribes fn to local-store write notifications.
// Listeners must be fast and must not call back into the store.
func (db *DB) RegisterChangeListener(fn func()) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.listeners = append(db.listeners, fn)
}

// notifyChange is called by repositories after a successful write batch.
func (db *DB) notifyChange() {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, fn := range db.listeners {
		fn()
	}
}
