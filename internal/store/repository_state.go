package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/nowpeople/contact-sync/internal/logger"
)

// stateRepository persists sync bookkeeping in the "sync_state" key/value
// table: the download revision anchor plus the orchestrator's boolean
// flags.
type stateRepository struct {
	*DB
	logger *logger.Logger
}

func NewStateRepository(db *DB, logger *logger.Logger) StateRepository {
	return &stateRepository{
		DB:     db,
		logger: logger,
	}
}

const revisionAnchorKey = "revision_anchor"

// GetRevisionAnchor returns the persisted fromRevision, defaulting to 0
// when no download has completed yet.
func (r *stateRepository) GetRevisionAnchor(ctx context.Context) (int64, error) {
	value, err := r.get(ctx, revisionAnchorKey)
	if errors.Is(err, ErrStateValueNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	revision, parseErr := strconv.ParseInt(value, 10, 64)
	if parseErr != nil {
		return 0, fmt.Errorf("parse revision anchor: %w", parseErr)
	}
	return revision, nil
}

func (r *stateRepository) SetRevisionAnchor(ctx context.Context, revision int64) error {
	return r.set(ctx, revisionAnchorKey, strconv.FormatInt(revision, 10))
}

// GetFlag returns the persisted flag value, defaulting to false when the
// flag has never been set.
func (r *stateRepository) GetFlag(ctx context.Context, name string) (bool, error) {
	value, err := r.get(ctx, name)
	if errors.Is(err, ErrStateValueNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "1", nil
}

func (r *stateRepository) SetFlag(ctx context.Context, name string, value bool) error {
	stored := "0"
	if value {
		stored = "1"
	}
	return r.set(ctx, name, stored)
}

func (r *stateRepository) get(ctx context.Context, name string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx, getStateValue, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrStateValueNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return value, nil
}

func (r *stateRepository) set(ctx context.Context, name, value string) error {
	if _, err := r.DB.ExecContext(ctx, setStateValue, name, value); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
