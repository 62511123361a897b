package goerror

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a missing, empty, or contradictory argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidConfiguration indicates an internally inconsistent rule set.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrLengthExceeded indicates an input longer than the caller allows.
	ErrLengthExceeded = errors.New("length exceeded")

	// ErrFormat indicates a value that cannot be parsed into its expected shape.
	ErrFormat = errors.New("invalid format")
)

// Type classifies errors into high-level buckets.
type Type int

const (
	// TypeServer represents unexpected internal failures.
	TypeServer Type = iota
	// TypeValidation represents bad call-site input.
	TypeValidation
	// TypeConfiguration represents rejected construction parameters.
	TypeConfiguration
)

// String returns the string representation of the error type.
func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeConfiguration:
		return "ERROR_TYPE_CONFIGURATION"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier callers can switch on.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidArgument indicates null/empty/whitespace or contradictory input.
	CodeInvalidArgument
	// CodeInvalidConfiguration indicates an inconsistent configuration.
	CodeInvalidConfiguration
	// CodeLengthExceeded indicates input longer than the allowed maximum.
	CodeLengthExceeded
	// CodeInvalidFormat indicates an unparsable serialized value.
	CodeInvalidFormat
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "ERROR_CODE_INVALID_ARGUMENT"
	case CodeInvalidConfiguration:
		return "ERROR_CODE_INVALID_CONFIGURATION"
	case CodeLengthExceeded:
		return "ERROR_CODE_LENGTH_EXCEEDED"
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is a structured error used across the toolkit.
//
// It always wraps the sentinel matching its code, so errors.Is works against
// ErrInvalidArgument, ErrInvalidConfiguration, ErrLengthExceeded and ErrFormat.
// An optional cause is wrapped alongside the sentinel.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}

	if e.err != nil {
		return e.err.Error()
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeConfiguration:
		return "Configuration violation"
	case TypeServer:
		return "Internal error"
	default:
		return "Unknown error"
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.msg,
		e.err,
	)
}

// Msg returns the message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Fields returns per-field messages (field to message map), if any.
func (e *Error) Fields() map[string]string {
	return e.fields
}

// Unwrap returns the underlying error chain.
func (e *Error) Unwrap() error {
	return e.err
}

func sentinel(code Code) error {
	switch code {
	case CodeInvalidArgument:
		return ErrInvalidArgument
	case CodeInvalidConfiguration:
		return ErrInvalidConfiguration
	case CodeLengthExceeded:
		return ErrLengthExceeded
	case CodeInvalidFormat:
		return ErrFormat
	default:
		return nil
	}
}

func new(cause error, msg string, et Type, code Code) *Error {
	err := sentinel(code)
	switch {
	case err == nil:
		err = cause
	case cause != nil:
		err = fmt.Errorf("%w: %w", err, cause)
	}

	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates a server-type error wrapping err.
func NewServer(err error) error {
	return new(err, "Internal error", TypeServer, CodeInternal)
}

// NewInvalidArgument creates a validation error for bad call-site input.
func NewInvalidArgument(msg string) error {
	return new(nil, msg, TypeValidation, CodeInvalidArgument)
}

// NewInvalidConfiguration creates a configuration error.
//
// kv is an optional list of field/message pairs; an odd trailing key is dropped.
func NewInvalidConfiguration(msg string, kv ...string) error {
	e := new(nil, msg, TypeConfiguration, CodeInvalidConfiguration)
	if len(kv) < 2 {
		return e
	}

	e.fields = make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		e.fields[kv[i]] = kv[i+1]
	}

	return e
}

// WrapInvalidConfiguration creates a configuration error caused by err.
func WrapInvalidConfiguration(err error, msg string) error {
	return new(err, msg, TypeConfiguration, CodeInvalidConfiguration)
}

// NewLengthExceeded creates a validation error for over-long input.
func NewLengthExceeded(maxLength int) error {
	return new(nil, fmt.Sprintf("input exceeded max length of %d", maxLength), TypeValidation, CodeLengthExceeded)
}

// NewInvalidFormat creates a format error, optionally caused by err.
func NewInvalidFormat(err error, msg string) error {
	return new(err, msg, TypeValidation, CodeInvalidFormat)
}

// CodeOf returns the code carried by err, or CodeInternal when err is not an
// *Error. A nil err also yields CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}

	return CodeInternal
}
