// Package apperror defines the application's error taxonomy.
//
// Two kinds of errors cross the service boundary:
//
//   - Validation errors: the caller sent something correctable (unknown user
//     id, unknown tea id, invalid tea type, duplicate signup id). Never
//     retried internally.
//   - Authentication errors: identity was required and is missing, invalid,
//     or stale. The server never silently refreshes or retries.
//
// Everything else (store faults, signing faults) stays a plain wrapped error
// and surfaces to the client as a generic failure.
package apperror

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
)

// GraphQL error codes attached to responses via extensions.
// These match the codes Apollo clients already know how to handle.
const (
	CodeValidation     = "GRAPHQL_VALIDATION_FAILED"
	CodeAuthentication = "UNAUTHENTICATED"
)

type AppError struct {
	Err     error  // sentinel: ErrValidation or ErrAuthentication
	Message string // Human-readable error message
	Code    string // Machine-readable GraphQL extensions code
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Extensions implements gqlerrors.ExtendedError, so the GraphQL layer
// serializes the code into the error's extensions map without this package
// importing the graphql library.
func (e *AppError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// Validation returns a caller-correctable input error.
func Validation(message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Code:    CodeValidation,
	}
}

// Authentication returns an identity-required/invalid error.
func Authentication(message string) *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Message: message,
		Code:    CodeAuthentication,
	}
}
