// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// Config indicates an unusable configuration: unresolvable API key,
	// malformed base URL, or a broken config file. Surfaced before any
	// network call is made.
	Config Kind = "config"
	// Auth indicates the upstream API rejected the credential.
	Auth Kind = "auth"
	// ObjectNotFound indicates a scan was requested for an object type
	// that is not in the catalog.
	ObjectNotFound Kind = "object_not_found"
	// Fetch indicates an upstream request failed: transport error after
	// retries, or a non-success HTTP status.
	Fetch Kind = "fetch"
	// Decode indicates an upstream response body could not be decoded.
	Decode Kind = "decode"
	// Sync indicates the destination database rejected a sync operation.
	Sync Kind = "sync"
	// Internal indicates a failure that is not the user's fault.
	Internal Kind = "internal"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As chains.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of err when it carries one, or Internal.
func KindOf(err error) Kind {
	if e, ok := err.(*E); ok {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*E)
	return ok && e.Kind == kind
}
