package contract

import "errors"

var (
	ErrEmptyQuery       = errors.New("query is empty")
	ErrReasonerInvoke   = errors.New("reasoner invoke failed")
	ErrSchemaViolation  = errors.New("reasoner response violates schema")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrValidation       = errors.New("validation failed")
)
