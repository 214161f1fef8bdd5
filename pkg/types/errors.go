package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreClosed    = errors.New("store is closed")
	ErrAlreadyOpen    = errors.New("store is already open")
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// Operation errors. These are the full error taxonomy of the core; callers
// map them to transport-level codes, the core never retries on its own.
var (
	// ErrValidation reports malformed input: an empty or oversized title, a
	// property value that does not match its declared kind, a bad object type.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound reports that an ID did not resolve to a stored entity.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a duplicate edge or unique-constraint violation.
	// Callers may treat it as "already true" rather than a hard failure.
	ErrConflict = errors.New("conflict")

	// ErrTypeMismatch reports a collection membership type violation.
	ErrTypeMismatch = errors.New("object type does not match collection type")

	// ErrInvalidDate reports a syntactically or calendar-invalid date string.
	// The offending string is echoed in the wrapped message.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidArgument reports a structurally invalid request, such as a
	// relation delete with no criteria.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedQueryType reports a saved query whose queryType is not
	// executable by the engine.
	ErrUnsupportedQueryType = errors.New("unsupported query type")
)
