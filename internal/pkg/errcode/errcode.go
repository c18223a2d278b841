package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrNotFound
	ErrInvalid
	ErrConflict
	ErrAlreadyUpdated
	ErrFetchFailed
	ErrJobClosed
	ErrInternal
)
