package vector

import "errors"

var (
	// ErrUnavailable is returned when the index service cannot be reached
	// (connection, DNS, timeout).
	ErrUnavailable = errors.New("vector index unavailable")

	// ErrRejected is returned when the index service answers with a
	// non-success status.
	ErrRejected = errors.New("vector index request rejected")

	// ErrMalformed is returned when the index service answers 2xx but the
	// body does not match the expected shape.
	ErrMalformed = errors.New("malformed vector index response")

	// ErrNoMatch is the domain condition raised when a search returns no
	// results. Distinct from transport and deserialization failures.
	ErrNoMatch = errors.New("no similar vector found")
)
