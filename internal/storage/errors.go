package storage

import "errors"

// Failure kinds shared by every repository and service. Handlers translate
// these to HTTP status codes; raw database errors never reach the client.
var (
	// ErrNotFound is returned when a record does not exist for the given id.
	ErrNotFound = errors.New("record not found")

	// ErrParentNotFound is returned when the owning record is absent at link time.
	ErrParentNotFound = errors.New("parent record not found")

	// ErrForbidden is returned when the caller does not own the record.
	ErrForbidden = errors.New("caller is not the record owner")

	// ErrUnauthenticated is returned for a missing or invalid credential.
	ErrUnauthenticated = errors.New("authentication failed")

	// ErrValidation is returned when request fields fail validation.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidAsset is returned for uploads with a disallowed MIME type.
	ErrInvalidAsset = errors.New("invalid asset type")

	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")

	// ErrTransactionAborted is returned when a paired write fails to commit.
	ErrTransactionAborted = errors.New("transaction aborted")

	// ErrStoreTimeout is returned when an atomic unit exceeds its deadline.
	ErrStoreTimeout = errors.New("store operation timed out")
)

// IsNotFound reports whether err is any flavor of missing-record failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrParentNotFound)
}
