package errs

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrConflict       = errors.New("record already exists")

	ErrValidation   = errors.New("validation error")
	ErrEmptyPayload = fmt.Errorf("%w: empty payload", ErrValidation)
	ErrInvalidID    = fmt.Errorf("%w: invalid id", ErrValidation)

	// backend failures, never shown verbatim to network clients
	ErrStorage   = errors.New("storage error")
	ErrBlob      = errors.New("blob storage error")
	ErrNetwork   = errors.New("network error")
	ErrIntegrity = errors.New("data integrity error")

	ErrTimeout = errors.New("timeout")
)
