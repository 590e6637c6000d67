package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	contactColumns = `local_id, backend_id, native_id, user_id,
		friend_of_mine, gender, about_me, sources, group_ids, deleted, updated_at`

	detailColumns = `local_detail_id, local_contact_id, backend_detail_id,
		native_detail_id, key, value, flags, deleted, native_pending, updated_at`

	getContactByLocalID   = `SELECT ` + contactColumns + ` FROM contacts WHERE local_id = ?;`
	getContactByBackendID = `SELECT ` + contactColumns + ` FROM contacts WHERE backend_id = ? AND deleted = 0;`
	getContactByNativeID  = `SELECT ` + contactColumns + ` FROM contacts WHERE native_id = ? AND deleted = 0;`

	getDetailsByContact = `SELECT ` + detailColumns + `
		FROM contact_details
		WHERE local_contact_id = ?
		ORDER BY local_detail_id;`

	insertContact = `INSERT INTO contacts (
			backend_id, native_id, user_id, friend_of_mine, gender,
			about_me, sources, group_ids, deleted, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);`

	updateContact = `UPDATE contacts SET
			backend_id     = ?,
			native_id      = ?,
			user_id        = ?,
			friend_of_mine = ?,
			gender         = ?,
			about_me       = ?,
			sources        = ?,
			group_ids      = ?,
			deleted        = ?,
			updated_at     = CURRENT_TIMESTAMP
		WHERE local_id = ?;`

	insertDetail = `INSERT INTO contact_details (
			local_contact_id, backend_detail_id, native_detail_id,
			key, value, flags, deleted, native_pending, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);`

	updateDetail = `UPDATE contact_details SET
			backend_detail_id = ?,
			native_detail_id  = ?,
			key               = ?,
			value             = ?,
			flags             = ?,
			deleted           = ?,
			native_pending    = ?,
			updated_at        = CURRENT_TIMESTAMP
		WHERE local_detail_id = ?;`

	setContactBackendID = `UPDATE contacts SET backend_id = ? WHERE local_id = ?;`
	setDetailBackendID  = `UPDATE contact_details SET backend_detail_id = ? WHERE local_detail_id = ?;`

	setContactNativeID = `UPDATE contacts SET native_id = ? WHERE local_id = ?;`
	setDetailNativeID  = `UPDATE contact_details
		SET native_detail_id = ?, native_pending = 0
		WHERE local_detail_id = ?;`

	getNativeSyncableIDs = `SELECT DISTINCT c.local_id
		FROM contacts c
		LEFT JOIN contact_details d ON d.local_contact_id = c.local_id
		WHERE c.native_id = -1 OR c.deleted = 1 OR d.native_pending = 1
		ORDER BY c.local_id;`

	insertChangeLogEntry = `INSERT INTO contact_changes (
			type, local_contact_id, local_detail_id, backend_contact_id,
			backend_detail_id, group_id, key, value, flags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	countChangeLogPartition = `SELECT COUNT(*) FROM contact_changes WHERE type = ?;`

	getChangeLogPage = `SELECT row_id, type, local_contact_id, local_detail_id,
			backend_contact_id, backend_detail_id, group_id, key, value, flags, created_at
		FROM contact_changes
		WHERE type = ?
		ORDER BY row_id
		LIMIT ?;`

	getStateValue = `SELECT value FROM sync_state WHERE name = ?;`
	setStateValue = `INSERT INTO sync_state (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value;`
)

// buildIDListQuery selects one id column from contacts in ascending order,
// skipping unassigned (-1) ids and soft-deleted rows.
func buildIDListQuery(column string) (string, []any, error) {
	return sq.Select(column).
		From("contacts").
		Where(sq.NotEq{column: -1}).
		Where(sq.Eq{"deleted": 0}).
		OrderBy(column + " ASC").
		ToSql()
}

// buildDeleteContactsQuery removes contacts (and their details via a second
// statement) for a dynamic id list.
func buildDeleteContactsQuery(localIDs []int64) (string, []any, error) {
	return sq.Delete("contacts").Where(sq.Eq{"local_id": localIDs}).ToSql()
}

func buildDeleteDetailsByContactQuery(localIDs []int64) (string, []any, error) {
	return sq.Delete("contact_details").Where(sq.Eq{"local_contact_id": localIDs}).ToSql()
}

func buildDeleteDetailsQuery(localDetailIDs []int64) (string, []any, error) {
	return sq.Delete("contact_details").Where(sq.Eq{"local_detail_id": localDetailIDs}).ToSql()
}

func buildDeleteChangeLogRowsQuery(rowIDs []int64) (string, []any, error) {
	return sq.Delete("contact_changes").Where(sq.Eq{"row_id": rowIDs}).ToSql()
}
