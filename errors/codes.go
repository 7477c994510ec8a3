package errors

import "net/http"

// ErrorCategory classifies errors by their nature and retry semantics.
type ErrorCategory string

// Error categories define how errors should be handled.
const (
	// CategoryTransient indicates temporary failures where a later request may succeed.
	// Examples: embedding provider unreachable, request timed out.
	CategoryTransient ErrorCategory = "transient"

	// CategoryPermanent indicates failures where repeating the request will not help.
	// Examples: unsupported file type, malformed document, empty job description.
	CategoryPermanent ErrorCategory = "permanent"

	// CategoryResource indicates quota or rate exhaustion.
	CategoryResource ErrorCategory = "resource"

	// CategoryInternal indicates bugs or broken invariants.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// IsRetryable returns true if errors in this category may succeed when the
// caller repeats the request. Nothing in this module retries on its own.
func (c ErrorCategory) IsRetryable() bool {
	switch c {
	case CategoryTransient, CategoryResource:
		return true
	default:
		return false
	}
}

// ErrorCode identifies specific error types within categories.
type ErrorCode string

const (
	// Transient errors
	ErrCodeTimeout     ErrorCode = "TIMEOUT"     // Operation timed out
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE" // Embedding provider unreachable or 5xx

	// Permanent errors
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"      // Malformed or missing request fields
	ErrCodeUnsupported       ErrorCode = "UNSUPPORTED"        // Unsupported file type
	ErrCodeExtraction        ErrorCode = "EXTRACTION_FAILED"  // Document could not be read
	ErrCodeEmbedding         ErrorCode = "EMBEDDING_FAILED"   // Provider returned an unusable vector
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH" // Vector length differs from the store
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"       // Provider rejected the credential
	ErrCodeCanceled          ErrorCode = "CANCELED"           // Caller went away

	// Resource errors
	ErrCodeRateLimit ErrorCode = "RATE_LIMITED" // Provider or local limiter refused the call
	ErrCodeTooLarge  ErrorCode = "TOO_LARGE"    // Upload exceeds the configured size

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
	ErrCodePanic    ErrorCode = "PANIC"
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeTimeout, ErrCodeUnavailable:
		return CategoryTransient

	case ErrCodeInvalidInput, ErrCodeUnsupported, ErrCodeExtraction, ErrCodeEmbedding,
		ErrCodeDimensionMismatch, ErrCodeUnauthorized, ErrCodeCanceled:
		return CategoryPermanent

	case ErrCodeRateLimit, ErrCodeTooLarge:
		return CategoryResource

	default:
		return CategoryInternal
	}
}

// DefaultRetryable returns whether this error code is typically retryable.
func (c ErrorCode) DefaultRetryable() bool {
	return c.DefaultCategory().IsRetryable()
}

var codeDescriptions = map[ErrorCode]string{
	ErrCodeTimeout:           "operation timed out",
	ErrCodeUnavailable:       "embedding provider unavailable",
	ErrCodeInvalidInput:      "invalid input provided",
	ErrCodeUnsupported:       "unsupported file type",
	ErrCodeExtraction:        "text extraction failed",
	ErrCodeEmbedding:         "embedding failed",
	ErrCodeDimensionMismatch: "vector dimension mismatch",
	ErrCodeUnauthorized:      "provider rejected credentials",
	ErrCodeCanceled:          "operation canceled",
	ErrCodeRateLimit:         "rate limit exceeded",
	ErrCodeTooLarge:          "payload too large",
	ErrCodeInternal:          "internal error",
	ErrCodePanic:             "recovered from panic",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// HTTPStatus maps an error code to the status an HTTP handler should answer with.
// Provider-side failures surface as gateway errors. A dimension mismatch on a
// query means the configured provider no longer matches the stored vectors,
// so it is a server fault.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeUnsupported, ErrCodeExtraction:
		return http.StatusBadRequest
	case ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeRateLimit:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnauthorized, ErrCodeUnavailable, ErrCodeEmbedding:
		return http.StatusBadGateway
	case ErrCodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
