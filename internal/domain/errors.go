package domain

import "errors"

// Business errors, mapped to HTTP statuses by the transport layer.
var (
	ErrBadParams        = errors.New("bad_params")         // 400
	ErrUnauth           = errors.New("unauthorized")       // 401
	ErrForbidden        = errors.New("forbidden")          // 403
	ErrNotFound         = errors.New("not_found")          // 404
	ErrMethodNotAllowed = errors.New("method_not_allowed") // 405
	ErrDuplicate        = errors.New("duplicate")          // 422
	ErrValidation       = errors.New("validation")         // 422
	ErrHasAssociations  = errors.New("has_associations")   // delete blocked, 500 per legacy contract
	ErrUnexpected       = errors.New("unexpected")         // 500
)

// ValidationError carries field-level messages returned verbatim in the envelope.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string { return "validation" }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }
