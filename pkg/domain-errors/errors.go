// Package domainerrors provides coded errors for domain and storage
// failures. Services and stores attach a Code so transport layers can map
// failures to responses without string matching, and so callers can build an
// actionable message (field, constraint, or entity id) without re-querying.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeDomainViolation marks a value outside a closed value set.
	CodeDomainViolation Code = "domain_violation"
	// CodeDuplicateKey marks a breach of an entity uniqueness constraint.
	CodeDuplicateKey Code = "duplicate_key"
	// CodeDuplicateRelation marks an attempt to create a join row that
	// already exists.
	CodeDuplicateRelation Code = "duplicate_relation"
	// CodeDuplicateExport marks a repeated export receipt for the same
	// (volunteer, job) pair.
	CodeDuplicateExport Code = "duplicate_export"
	// CodeNotFound marks a missing entity or job.
	CodeNotFound Code = "not_found"
	// CodeConstraint marks a foreign-key or check violation not covered by
	// a more specific code.
	CodeConstraint Code = "constraint"
	// CodeUnavailable marks unreachable or timed-out storage.
	CodeUnavailable Code = "unavailable"
	// CodeInternalConsistency marks an invariant the store should have
	// guaranteed found broken. Never expected; always surfaced.
	CodeInternalConsistency Code = "internal_consistency"
	// CodeInvalidInput marks malformed caller input (bad id, empty field).
	CodeInvalidInput Code = "invalid_input"
	// CodeInvariantViolation marks an illegal state transition.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks an unclassified internal failure.
	CodeInternal Code = "internal"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of err, or CodeInternal when err is uncoded.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
