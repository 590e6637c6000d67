package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/models"
)

// contactRepository is the SQLite-backed implementation of
// [ContactRepository]. It executes all contact and detail CRUD against the
// "contacts" and "contact_details" tables using the embedded [*DB]
// connection.
//
// Public methods obtain a context-scoped logger via [logger.FromContext] so
// database interactions are traced with structured fields.
type contactRepository struct {
	*DB
	logger *logger.Logger
}

// NewContactRepository constructs a [ContactRepository] backed by the
// provided database connection and logger.
func NewContactRepository(db *DB, logger *logger.Logger) ContactRepository {
	return &contactRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *contactRepository) FetchByLocalID(ctx context.Context, localID int64) (models.Contact, error) {
	return r.fetchOne(ctx, getContactByLocalID, localID)
}

func (r *contactRepository) FetchByBackendID(ctx context.Context, backendID int64) (models.Contact, error) {
	return r.fetchOne(ctx, getContactByBackendID, backendID)
}

func (r *contactRepository) FetchByNativeID(ctx context.Context, nativeID int64) (models.Contact, error) {
	return r.fetchOne(ctx, getContactByNativeID, nativeID)
}

func (r *contactRepository) fetchOne(ctx context.Context, query string, id int64) (models.Contact, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, query, id)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, ErrContactNotFound
		}
		log.Err(err).
			Str("func", "contactRepository.fetchOne").
			Int64("id", id).
			Msg("failed to scan contact row")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	details, err := r.fetchDetails(ctx, contact.LocalID)
	if err != nil {
		return models.Contact{}, err
	}
	contact.Details = details

	return contact, nil
}

func (r *contactRepository) fetchDetails(ctx context.Context, localContactID int64) ([]models.ContactDetail, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getDetailsByContact, localContactID)
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.fetchDetails").
			Int64("local_contact_id", localContactID).
			Msg("failed to query contact details")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	details := make([]models.ContactDetail, 0, 8)
	for rows.Next() {
		var d models.ContactDetail
		var key string
		scanErr := rows.Scan(
			&d.LocalDetailID,
			&d.LocalContactID,
			&d.BackendDetailID,
			&d.NativeDetailID,
			&key,
			&d.Value,
			&d.Flags,
			&d.Deleted,
			&d.NativePending,
			&d.UpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		d.Key = models.KeyFromAlias(key)
		details = append(details, d)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return details, nil
}

func (r *contactRepository) FetchLocalIDs(ctx context.Context) ([]int64, error) {
	return r.fetchIDList(ctx, "local_id")
}

func (r *contactRepository) FetchBackendIDs(ctx context.Context) ([]int64, error) {
	return r.fetchIDList(ctx, "backend_id")
}

func (r *contactRepository) FetchNativeIDs(ctx context.Context) ([]int64, error) {
	return r.fetchIDList(ctx, "native_id")
}

func (r *contactRepository) fetchIDList(ctx context.Context, column string) ([]int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildIDListQuery(column)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.fetchIDList").
			Str("column", column).
			Msg("failed to query ordered id list")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 64)
	for rows.Next() {
		var id int64
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return ids, nil
}

// InsertBatch inserts the contacts and their details in one transaction.
// Returns the number of contacts inserted.
func (r *contactRepository) InsertBatch(ctx context.Context, contacts []models.Contact) (int, error) {
	log := logger.FromContext(ctx)
	if len(contacts) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	inserted := 0
	for i := range contacts {
		c := &contacts[i]
		res, execErr := tx.ExecContext(ctx, insertContact,
			c.BackendID, c.NativeID, c.UserID, c.FriendOfMine, c.Gender,
			c.AboutMe, joinStrings(c.Sources), joinIDs(c.GroupIDs), c.Deleted,
		)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "contactRepository.InsertBatch").
				Int64("backend_id", c.BackendID).
				Msg("failed to insert contact")
			return inserted, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		localID, idErr := res.LastInsertId()
		if idErr != nil {
			return inserted, fmt.Errorf("%w: %w", ErrExecutingStatement, idErr)
		}
		c.LocalID = localID

		for j := range c.Details {
			d := &c.Details[j]
			d.LocalContactID = localID
			detailRes, detailErr := tx.ExecContext(ctx, insertDetail,
				localID, d.BackendDetailID, d.NativeDetailID,
				d.Key.Alias(), d.Value, d.Flags, d.Deleted, d.NativePending,
			)
			if detailErr != nil {
				return inserted, fmt.Errorf("%w: %w", ErrExecutingStatement, detailErr)
			}
			if d.LocalDetailID, detailErr = detailRes.LastInsertId(); detailErr != nil {
				return inserted, fmt.Errorf("%w: %w", ErrExecutingStatement, detailErr)
			}
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	r.DB.notifyChange()
	return inserted, nil
}

// UpdateBatch rewrites the contacts' scalar fields and upserts their
// details. Returns the number of contacts touched.
func (r *contactRepository) UpdateBatch(ctx context.Context, contacts []models.Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	updated := 0
	for i := range contacts {
		c := &contacts[i]
		res, execErr := tx.ExecContext(ctx, updateContact,
			c.BackendID, c.NativeID, c.UserID, c.FriendOfMine, c.Gender,
			c.AboutMe, joinStrings(c.Sources), joinIDs(c.GroupIDs), c.Deleted,
			c.LocalID,
		)
		if execErr != nil {
			return updated, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return updated, ErrContactNotFound
		}

		for j := range c.Details {
			d := &c.Details[j]
			if d.LocalDetailID == models.InvalidID {
				detailRes, detailErr := tx.ExecContext(ctx, insertDetail,
					c.LocalID, d.BackendDetailID, d.NativeDetailID,
					d.Key.Alias(), d.Value, d.Flags, d.Deleted, d.NativePending,
				)
				if detailErr != nil {
					return updated, fmt.Errorf("%w: %w", ErrExecutingStatement, detailErr)
				}
				if d.LocalDetailID, detailErr = detailRes.LastInsertId(); detailErr != nil {
					return updated, fmt.Errorf("%w: %w", ErrExecutingStatement, detailErr)
				}
				continue
			}

			if _, detailErr := tx.ExecContext(ctx, updateDetail,
				d.BackendDetailID, d.NativeDetailID, d.Key.Alias(),
				d.Value, d.Flags, d.Deleted, d.NativePending,
				d.LocalDetailID,
			); detailErr != nil {
				return updated, fmt.Errorf("%w: %w", ErrExecutingStatement, detailErr)
			}
		}
		updated++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	r.DB.notifyChange()
	return updated, nil
}

// DeleteBatch removes the contacts and their details outright.
func (r *contactRepository) DeleteBatch(ctx context.Context, localIDs []int64) (int, error) {
	if len(localIDs) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	detailQuery, detailArgs, err := buildDeleteDetailsByContactQuery(localIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, detailQuery, detailArgs...); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	query, args, err := buildDeleteContactsQuery(localIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	affected, _ := res.RowsAffected()

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	r.DB.notifyChange()
	return int(affected), nil
}

func (r *contactRepository) InsertDetails(ctx context.Context, details []models.ContactDetail) (int, error) {
	if len(details) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for i := range details {
		d := &details[i]
		res, execErr := tx.ExecContext(ctx, insertDetail,
			d.LocalContactID, d.BackendDetailID, d.NativeDetailID,
			d.Key.Alias(), d.Value, d.Flags, d.Deleted, d.NativePending,
		)
		if execErr != nil {
			return i, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		if d.LocalDetailID, execErr = res.LastInsertId(); execErr != nil {
			return i, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	r.DB.notifyChange()
	return len(details), nil
}

func (r *contactRepository) UpdateDetails(ctx context.Context, details []models.ContactDetail) (int, error) {
	if len(details) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	updated := 0
	for i := range details {
		d := details[i]
		res, execErr := tx.ExecContext(ctx, updateDetail,
			d.BackendDetailID, d.NativeDetailID, d.Key.Alias(),
			d.Value, d.Flags, d.Deleted, d.NativePending,
			d.LocalDetailID,
		)
		if execErr != nil {
			return updated, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return updated, ErrDetailNotFound
		}
		updated++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	r.DB.notifyChange()
	return updated, nil
}

func (r *contactRepository) DeleteDetails(ctx context.Context, localDetailIDs []int64) (int, error) {
	if len(localDetailIDs) == 0 {
		return 0, nil
	}

	query, args, err := buildDeleteDetailsQuery(localDetailIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	affected, _ := res.RowsAffected()

	r.DB.notifyChange()
	return int(affected), nil
}

// SetBackendIDs persists server-assigned identifiers after an upload
// acknowledgment: the contact's backend id plus backend detail ids keyed by
// local detail id.
func (r *contactRepository) SetBackendIDs(ctx context.Context, localID, backendID int64, detailIDs map[int64]int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if backendID != models.InvalidID {
		if _, err = tx.ExecContext(ctx, setContactBackendID, backendID, localID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	for localDetailID, backendDetailID := range detailIDs {
		if _, err = tx.ExecContext(ctx, setDetailBackendID, backendDetailID, localDetailID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *contactRepository) NativeSyncableIDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getNativeSyncableIDs)
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.NativeSyncableIDs").
			Msg("failed to query native-syncable contact ids")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return ids, nil
}

// NativeChangeRecords is the reader side of the export path: it projects
// one contact's pending device-bound changes into transient ChangeRecords.
//
// Classification:
//   - deleted contact            → one ChangeDeleteContact record;
//   - contact without native id  → ChangeAddContact record per live detail;
//   - otherwise                  → per pending detail: ChangeDeleteDetail
//     for soft-deleted details, ChangeAddDetail for details never pushed
//     natively, ChangeUpdateDetail for the rest.
func (r *contactRepository) NativeChangeRecords(ctx context.Context, localID int64) ([]models.ChangeRecord, error) {
	contact, err := r.FetchByLocalID(ctx, localID)
	if err != nil {
		return nil, err
	}

	if contact.Deleted {
		rec := models.NewChangeRecord(models.ChangeDeleteContact, models.KeyUnknown, "", models.FlagNone)
		rec.InternalContactID = contact.LocalID
		rec.NativeContactID = contact.NativeID
		rec.Destinations = models.DestinationNative
		return []models.ChangeRecord{rec}, nil
	}

	if contact.NativeID == models.InvalidID {
		records := contact.ChangeRecords(models.ChangeAddContact)
		for i := range records {
			records[i].Destinations = models.DestinationNative
		}
		return records, nil
	}

	records := make([]models.ChangeRecord, 0, len(contact.Details))
	for _, d := range contact.Details {
		if !d.NativePending {
			continue
		}

		t := models.ChangeUpdateDetail
		switch {
		case d.Deleted:
			t = models.ChangeDeleteDetail
		case d.NativeDetailID == models.InvalidID:
			t = models.ChangeAddDetail
		}

		rec := models.NewChangeRecord(t, d.Key, d.Value, d.Flags)
		rec.InternalContactID = contact.LocalID
		rec.InternalDetailID = d.LocalDetailID
		rec.BackendContactID = contact.BackendID
		rec.BackendDetailID = d.BackendDetailID
		rec.NativeContactID = contact.NativeID
		rec.NativeDetailID = d.NativeDetailID
		rec.Destinations = models.DestinationNative
		records = append(records, rec)
	}

	return records, nil
}

// AcknowledgeNativeIDs persists identifiers assigned by the device store
// and clears the pending flag on consumed details. Delete-contact acks
// purge the local row outright.
func (r *contactRepository) AcknowledgeNativeIDs(ctx context.Context, records []models.ChangeRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		switch rec.Type {
		case models.ChangeUpdateNativeContactID:
			if _, err = tx.ExecContext(ctx, setContactNativeID, rec.NativeContactID, rec.InternalContactID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		case models.ChangeUpdateNativeDetailID:
			if _, err = tx.ExecContext(ctx, setDetailNativeID, rec.NativeDetailID, rec.InternalDetailID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		case models.ChangeDeleteDetail:
			if _, err = tx.ExecContext(ctx, `DELETE FROM contact_details WHERE local_detail_id = ?;`, rec.InternalDetailID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		case models.ChangeDeleteContact:
			if _, err = tx.ExecContext(ctx, `DELETE FROM contact_details WHERE local_contact_id = ?;`, rec.InternalContactID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			if _, err = tx.ExecContext(ctx, `DELETE FROM contacts WHERE local_id = ?;`, rec.InternalContactID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func scanContact(row *sql.Row) (models.Contact, error) {
	var c models.Contact
	var sources, groupIDs string

	err := row.Scan(
		&c.LocalID,
		&c.BackendID,
		&c.NativeID,
		&c.UserID,
		&c.FriendOfMine,
		&c.Gender,
		&c.AboutMe,
		&sources,
		&groupIDs,
		&c.Deleted,
		&c.UpdatedAt,
	)
	if err != nil {
		return models.Contact{}, err
	}

	c.Sources = splitStrings(sources)
	c.GroupIDs = splitIDs(groupIDs)
	return c, nil
}

func joinStrings(values []string) string {
	return strings.Join(values, ",")
}

func splitStrings(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func splitIDs(joined string) []int64 {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
