package converse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Error kinds categorize errors by their type.
const (
	// KindRoleOrder represents a transcript role-alternation violation.
	// This is always a caller or logic bug and must never be retried.
	KindRoleOrder = "role_order"

	// KindEmptyTranscript represents an assistant append attempted before
	// any user turn exists.
	KindEmptyTranscript = "empty_transcript"

	// KindUnsupportedFormat represents an attachment with an unrecognized
	// file extension or media type.
	KindUnsupportedFormat = "unsupported_format"

	// KindAttachmentLimit represents an attachment exceeding a size or
	// count ceiling.
	KindAttachmentLimit = "attachment_limit"

	// KindMalformedResponse represents a structurally invalid response
	// envelope returned by the transport layer.
	KindMalformedResponse = "malformed_response"

	// KindTransport represents network, authentication, or throttling
	// failures from the Bedrock API. Retry policy belongs to the caller.
	KindTransport = "transport"

	// KindStorage represents errors from the session persistence backend.
	KindStorage = "storage"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"
)

// Error is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of
// error.
//
// Error implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &converse.Error{
//		Op:   "Agent.Chat",
//		Kind: converse.KindTransport,
//		Err:  bedrock.ErrTransport,
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Agent.Chat", "Store.Load").
	Op string

	// Kind categorizes the error (e.g., KindRoleOrder, KindTransport).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include file paths, roles, session IDs, or other values
	// the caller needs to decide whether to retry, reformat, or abort.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("converse: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("converse: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("converse: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison based on
// the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	// Check if target is an Error with matching Kind
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	// Delegate to underlying error
	return errors.Is(e.Err, target)
}

// WithContext returns a new Error with the provided context added.
// This is useful for adding debugging information to errors.
//
// Example:
//
//	err = err.WithContext(map[string]any{
//		"path": "report.pdf",
//		"size": 5242880,
//	})
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewTransportError creates a new Error with KindTransport.
func NewTransportError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindTransport,
		Err:  err,
	}
}

// NewValidationError creates a new Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindValidation,
		Err:  err,
	}
}

// NewStorageError creates a new Error with KindStorage.
func NewStorageError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindStorage,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "export file", "redis connection"). If logger is nil, slog.Default()
// is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
