package vocabdex

import "github.com/kailas-cloud/vocabdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrAlreadyExists    = domain.ErrAlreadyExists
	ErrValidation       = domain.ErrValidation
	ErrPermissionDenied = domain.ErrPermissionDenied
	ErrRevisionConflict = domain.ErrRevisionConflict
)
