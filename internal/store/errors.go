package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when a record addressed by id does not
	// exist in the namespace.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRecordAlreadyExists is returned when an insert hits a unique
	// constraint.
	ErrRecordAlreadyExists = errors.New("record already exists")

	// ErrContainerNotFound is returned when a write references a container
	// that was never created.
	ErrContainerNotFound = errors.New("container was not found")

	// ErrSubscriptionNotFound is returned when deleting an unknown subscription.
	ErrSubscriptionNotFound = errors.New("subscription was not found")

	// ErrEncodingFields is returned when record fields cannot be converted
	// to or from their JSON column.
	ErrEncodingFields = errors.New("error encoding record fields")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails,
	// typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
