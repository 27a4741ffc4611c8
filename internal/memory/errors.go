package memory

import (
	"errors"

	"github.com/agentcortex/agentmemory/internal/store"
)

// Sentinel errors of the facade. Callers should compare with errors.Is
// rather than matching on message text. ErrValidation wraps rejected
// input. ErrUniqueViolation is the store's sentinel, wrapped when a
// concept or procedure name already exists. ErrNotFound is not
// returned: the recall paths report absence through their bool result.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = store.ErrUniqueViolation
)
