package apperrors

import "errors"

// Sentinel error kinds. Services wrap these with fmt.Errorf("%w: ...") so
// handlers can pick the HTTP status with errors.Is.

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a state-machine or exclusivity violation.
var ErrConflict = errors.New("conflict with current state")

// ErrForbidden indicates the caller lacks the required permission.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates a missing or invalid credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConfiguration indicates required reference data (seed rows) is absent.
// This is an operational alarm, not a caller mistake.
var ErrConfiguration = errors.New("configuration error")

// ErrInternal indicates an unexpected storage or system failure.
var ErrInternal = errors.New("internal error")
