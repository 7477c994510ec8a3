package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the error chain.
// If err is nil, Wrap returns nil.
// If err is already an *Error, the wrapper keeps its code and metadata.
// Otherwise context errors become TIMEOUT/CANCELED and anything else INTERNAL.
func Wrap(err error, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		wrapped := &Error{
			code:      e.code,
			category:  e.category,
			message:   message,
			cause:     err,
			metadata:  e.Metadata(),
			retryable: e.retryable,
			timestamp: e.timestamp,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(ErrCodeTimeout, message, append(opts, WithCause(err))...)
	}
	if errors.Is(err, context.Canceled) {
		return New(ErrCodeCanceled, message, append(opts, WithCause(err))...)
	}

	return New(ErrCodeInternal, message, append(opts, WithCause(err))...)
}

// WrapWithCode wraps an error with a specific error code.
func WrapWithCode(err error, code ErrorCode, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}
	opts = append(opts, WithCause(err))
	return New(code, message, opts...)
}

// As extracts an *Error from an error chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Is checks if any error in the chain has the given error code.
func Is(err error, code ErrorCode) bool {
	if e := As(err); e != nil {
		return e.code == code
	}
	return false
}

// IsRetryable checks if the error is retryable.
func IsRetryable(err error) bool {
	if e := As(err); e != nil {
		return e.Retryable()
	}
	return false
}

// Code extracts the error code from an error.
// Returns empty string if err is not an *Error.
func Code(err error) ErrorCode {
	if e := As(err); e != nil {
		return e.code
	}
	return ""
}

// HTTPStatus returns the HTTP status for err; unknown errors are 500.
func HTTPStatus(err error) int {
	if e := As(err); e != nil {
		return e.code.HTTPStatus()
	}
	return ErrCodeInternal.HTTPStatus()
}

// GetMetadata extracts metadata from an error.
func GetMetadata(err error) map[string]string {
	if e := As(err); e != nil {
		return e.Metadata()
	}
	return nil
}

// RecoverPanic converts a recovered panic value into an Error.
func RecoverPanic(recovered interface{}) *Error {
	if recovered == nil {
		return nil
	}
	var message string
	switch v := recovered.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	default:
		message = fmt.Sprintf("%v", v)
	}
	return New(ErrCodePanic, message, WithMetadata("panic_value", fmt.Sprintf("%T", recovered)))
}
