package appointment

import (
	"errors"
	"fmt"
)

// Error codes reported to callers.
const (
	CodeNotFound     = "not_found"
	CodeValidation   = "validation"
	CodeConflict     = "conflict"
	CodeStoreFailure = "store_failure"
)

// ServiceError is returned by every AppointmentService operation. Message is safe to show
// to the caller for every code except CodeStoreFailure; Err carries the internal cause.
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func newNotFound(msg string) error {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func newValidation(msg string) error {
	return &ServiceError{Code: CodeValidation, Message: msg}
}

func newConflict(msg string) error {
	return &ServiceError{Code: CodeConflict, Message: msg}
}

func newStoreFailure(msg string, err error) error {
	return &ServiceError{Code: CodeStoreFailure, Message: msg, Err: err}
}

// ErrorCode returns the code of err. Errors not produced by this package count as store
// failures.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeStoreFailure
}

// ErrorMessage returns the caller-safe message of err, or "" for store failures.
func ErrorMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Code != CodeStoreFailure {
		return se.Message
	}
	return ""
}

func IsNotFound(err error) bool   { return ErrorCode(err) == CodeNotFound }
func IsValidation(err error) bool { return ErrorCode(err) == CodeValidation }
func IsConflict(err error) bool   { return ErrorCode(err) == CodeConflict }
