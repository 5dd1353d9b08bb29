package embeddings

import "errors"

var (
	// ErrMissingAPIKey is returned when a provider requires a credential
	// and none was configured. Raised by constructors, before any network
	// activity.
	ErrMissingAPIKey = errors.New("embedding provider API key missing")

	// ErrUnavailable is returned when the provider cannot be reached
	// (connection, DNS, timeout).
	ErrUnavailable = errors.New("embedding provider unavailable")

	// ErrRejected is returned when the provider answers with a non-success
	// status.
	ErrRejected = errors.New("embedding request rejected")

	// ErrMalformed is returned when the provider answers 2xx but the body
	// does not match the expected shape.
	ErrMalformed = errors.New("malformed embedding response")
)
