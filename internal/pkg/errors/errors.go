package errors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalid        = errors.New("invalid")
	ErrConflict       = errors.New("conflict")
	ErrAlreadyUpdated = errors.New("already updated")
	ErrFetchFailed    = errors.New("fetch failed")
	ErrJobClosed      = errors.New("job already closed")
	ErrInternal       = errors.New("internal")
)

// Is re-exports errors.Is so callers aliasing this package do not need a
// second import of the stdlib package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsAlreadyUpdated(err error) bool {
	return errors.Is(err, ErrAlreadyUpdated)
}
