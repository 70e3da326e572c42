package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors wrap one of these, so callers classify with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrPolicyViolation = errors.New("policy violation")
)

func Validationf(format string, args ...any) error {
	return wrapKind(ErrValidation, format, args...)
}

func Conflictf(format string, args ...any) error {
	return wrapKind(ErrConflict, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return wrapKind(ErrNotFound, format, args...)
}

func InvalidStatef(format string, args ...any) error {
	return wrapKind(ErrInvalidState, format, args...)
}

func PolicyViolationf(format string, args ...any) error {
	return wrapKind(ErrPolicyViolation, format, args...)
}

func wrapKind(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
