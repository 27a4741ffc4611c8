package store

import "errors"

// Sentinel errors of the store. Callers should compare with errors.Is
// rather than matching on message text. The Create paths wrap
// ErrUniqueViolation when a concept or procedure name already exists.
// ErrNotFound and ErrStorage are not returned: lookups report absence
// through a bool result, and driver failures are wrapped with the
// operation's context instead.
var (
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violation")
	ErrStorage         = errors.New("storage error")
)
