// Package errors provides the structured error taxonomy used across resumerag.
//
// # Error Categories
//
// Errors are classified into four categories:
//
//   - Transient: the embedding provider was slow or unreachable
//   - Permanent: the input can never succeed (bad file, empty query, wrong dimension)
//   - Resource: rate limits and size limits
//   - Internal: bugs and recovered panics
//
// # Usage
//
// Create a new error:
//
//	err := errors.New(errors.ErrCodeUnsupported, "unsupported file type",
//		errors.WithMetadata("filename", name))
//
// Wrap an existing error with context:
//
//	wrapped := errors.Wrap(err, "embedding query")
//
// Map an error to an HTTP status:
//
//	status := errors.HTTPStatus(err)
//
// # JSON Serialization
//
// Errors marshal to JSON so HTTP handlers can return them as-is and the CLI
// client can decode them back:
//
//	var e errors.Error
//	json.Unmarshal(data, &e)
package errors
