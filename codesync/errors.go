package codesync

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error type.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota

	// Join outcome errors
	ErrorValidation
	ErrorJoinRejected
	ErrorUsernameExists

	// Protocol Errors (from server error responses)
	ErrorBadRequest
	ErrorRoomNotFound
	ErrorRoomFull
	ErrorUnauthorized
	ErrorInternalServer

	// Client-side Errors
	ErrorChannel
	ErrorConnection
	ErrorNotConnected
	ErrorTimeout
	ErrorInvalidConfig
	ErrorSerialization
)

// String returns the string representation of an ErrorCode.
func (e ErrorCode) String() string {
	switch e {
	case ErrorUnknown:
		return "unknown"
	case ErrorValidation:
		return "validation_error"
	case ErrorJoinRejected:
		return "join_rejected"
	case ErrorUsernameExists:
		return "username_exists"
	case ErrorBadRequest:
		return "bad_request"
	case ErrorRoomNotFound:
		return "room_not_found"
	case ErrorRoomFull:
		return "room_full"
	case ErrorUnauthorized:
		return "unauthorized"
	case ErrorInternalServer:
		return "internal_error"
	case ErrorChannel:
		return "channel_error"
	case ErrorConnection:
		return "connection_error"
	case ErrorNotConnected:
		return "not_connected"
	case ErrorTimeout:
		return "timeout"
	case ErrorInvalidConfig:
		return "invalid_config"
	case ErrorSerialization:
		return "serialization_error"
	default:
		return fmt.Sprintf("unknown_code_%d", e)
	}
}

// ParseErrorCode converts a protocol error code string to ErrorCode.
func ParseErrorCode(code string) ErrorCode {
	switch code {
	case "join_rejected":
		return ErrorJoinRejected
	case "username_exists":
		return ErrorUsernameExists
	case "bad_request":
		return ErrorBadRequest
	case "room_not_found":
		return ErrorRoomNotFound
	case "room_full":
		return ErrorRoomFull
	case "unauthorized":
		return ErrorUnauthorized
	case "internal_error":
		return ErrorInternalServer
	default:
		return ErrorUnknown
	}
}

// CodesyncError is a structured error with code and context.
type CodesyncError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *CodesyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s (wrapped: %v)", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *CodesyncError) Unwrap() error {
	return e.Wrapped
}

// Is matches on code, and on message too when the target carries one.
func (e *CodesyncError) Is(target error) bool {
	t, ok := target.(*CodesyncError)
	if !ok {
		return false
	}
	if t.Message != "" && t.Message != e.Message {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new CodesyncError with the given code and message.
func NewError(code ErrorCode, message string) *CodesyncError {
	return &CodesyncError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with a CodesyncError.
func WrapError(code ErrorCode, message string, err error) *CodesyncError {
	return &CodesyncError{
		Code:    code,
		Message: message,
		Wrapped: err,
	}
}

// Validation failures, in the order they are checked.
var (
	ErrUsernameRequired = NewError(ErrorValidation, "Enter your username")
	ErrRoomIDRequired   = NewError(ErrorValidation, "Enter a room id")
	ErrRoomIDTooShort   = NewError(ErrorValidation, "ROOM Id must be at least 5 characters long")
	ErrUsernameTooShort = NewError(ErrorValidation, "Username must be at least 3 characters long")
)

// FromProtocolError converts a protocol Error to CodesyncError.
func FromProtocolError(e *Error) *CodesyncError {
	if e == nil {
		return nil
	}
	return &CodesyncError{
		Code:    ParseErrorCode(e.Code),
		Message: e.Msg,
	}
}

func codeOf(err error) (ErrorCode, bool) {
	if err == nil {
		return ErrorUnknown, false
	}
	var ce *CodesyncError
	if !errors.As(err, &ce) {
		return ErrorUnknown, false
	}
	return ce.Code, true
}

// IsValidationError reports whether err is a local input validation failure.
func IsValidationError(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrorValidation
}

// IsRejection reports whether the server declined the join.
func IsRejection(err error) bool {
	code, ok := codeOf(err)
	if !ok {
		return false
	}
	// Protocol errors are those that come from the server
	return code >= ErrorJoinRejected && code <= ErrorInternalServer
}

// IsConnectionError checks if an error is a transport-related error.
func IsConnectionError(err error) bool {
	code, ok := codeOf(err)
	if !ok {
		return false
	}
	return code == ErrorChannel || code == ErrorConnection || code == ErrorNotConnected || code == ErrorTimeout
}
