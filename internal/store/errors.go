package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against these
// values.
var (
	// ErrContactNotFound is returned when a query targets a contact
	// (by local, backend or native id) that does not exist.
	ErrContactNotFound = errors.New("contact was not found")

	// ErrDetailNotFound is returned when an update targets a contact
	// detail that does not exist.
	ErrDetailNotFound = errors.New("contact detail was not found")

	// ErrNothingPersisted is returned when a batch write completes without
	// error but the number of affected rows is zero.
	ErrNothingPersisted = errors.New("no rows were persisted")

	// ErrStateValueNotFound is returned when a sync_state row is absent.
	// Callers usually fall back to a default.
	ErrStateValueNotFound = errors.New("sync state value was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a read-only query
	// against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
