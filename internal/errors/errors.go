package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error type mapped to process exit codes.
type Code int

const (
	CodeSuccess  Code = 0
	CodeInternal Code = 1
	CodeUsage    Code = 2

	// Gateway failure taxonomy. Every external-facing operation reports
	// exactly one of these in its response envelope.
	CodeMissingParameter Code = 10
	CodeInvalidParameter Code = 11
	CodeProtocolNotFound Code = 12
	CodeDataNotAvailable Code = 13
	CodeAPIError         Code = 14

	CodeAuth          Code = 20
	CodeRateLimited   Code = 21
	CodeBlocked       Code = 22
	CodePartialStrict Code = 23
)

// Tag returns the envelope code string for a Code.
func (c Code) Tag() string {
	switch c {
	case CodeSuccess:
		return "Success"
	case CodeUsage:
		return "UsageError"
	case CodeMissingParameter:
		return "MissingParameter"
	case CodeInvalidParameter:
		return "InvalidParameter"
	case CodeProtocolNotFound:
		return "ProtocolNotFound"
	case CodeDataNotAvailable:
		return "DataNotAvailable"
	case CodeAPIError:
		return "ApiError"
	case CodeAuth:
		return "AuthError"
	case CodeRateLimited:
		return "RateLimited"
	case CodeBlocked:
		return "ActionBlocked"
	case CodePartialStrict:
		return "PartialResults"
	default:
		return "InternalError"
	}
}

// Error is a typed error that carries a stable code across every component
// boundary. Gateways never raise anything else past their own surface.
type Error struct {
	Code    Code
	Message string
	Details string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func WithDetails(code Code, message, details string) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf reports the typed code of err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	if typed, ok := As(err); ok {
		return typed.Code
	}
	return CodeInternal
}

// Tag reports the envelope code string for err.
func Tag(err error) string {
	return CodeOf(err).Tag()
}

func ExitCode(err error) int {
	return int(CodeOf(err))
}
