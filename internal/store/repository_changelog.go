package store

import (
	"context"
	"fmt"

	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/models"
)

// changeLogRepository is the SQLite-backed implementation of
// [ChangeLogRepository] over the "contact_changes" table. Rows are only
// removed via DeleteRows after the corresponding server acknowledgment has
// been processed, which is what gives uploads their at-least-once
// guarantee.
type changeLogRepository struct {
	*DB
	logger *logger.Logger
}

func NewChangeLogRepository(db *DB, logger *logger.Logger) ChangeLogRepository {
	return &changeLogRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *changeLogRepository) Append(ctx context.Context, entries ...models.ChangeLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err = tx.ExecContext(ctx, insertChangeLogEntry,
			e.Type, e.LocalContactID, e.LocalDetailID, e.BackendContactID,
			e.BackendDetailID, e.GroupID, e.Key.Alias(), e.Value, e.Flags,
		); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *changeLogRepository) Count(ctx context.Context, partition models.ChangeLogType) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, countChangeLogPartition, partition).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}

func (r *changeLogRepository) FetchPage(ctx context.Context, partition models.ChangeLogType, limit int) ([]models.ChangeLogEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getChangeLogPage, partition, limit)
	if err != nil {
		log.Err(err).
			Str("func", "changeLogRepository.FetchPage").
			Str("partition", partition.String()).
			Msg("failed to query change log page")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.ChangeLogEntry, 0, limit)
	for rows.Next() {
		var e models.ChangeLogEntry
		var key string
		scanErr := rows.Scan(
			&e.RowID,
			&e.Type,
			&e.LocalContactID,
			&e.LocalDetailID,
			&e.BackendContactID,
			&e.BackendDetailID,
			&e.GroupID,
			&key,
			&e.Value,
			&e.Flags,
			&e.CreatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		e.Key = models.KeyFromAlias(key)
		entries = append(entries, e)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}

func (r *changeLogRepository) DeleteRows(ctx context.Context, rowIDs []int64) (int, error) {
	if len(rowIDs) == 0 {
		return 0, nil
	}

	query, args, err := buildDeleteChangeLogRowsQuery(rowIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, _ := res.RowsAffected()
	return int(affected), nil
}
