package domain

import "errors"

// Domain errors represent pipeline failures by kind. Boundary adapters
// decide the kind from the service response; nothing above the adapter
// layer inspects error message text.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the embedding service rejected the request
	// for rate or quota reasons. The only retryable error kind.
	ErrRateLimited = errors.New("rate limited")

	// ErrContextLength indicates the request exceeded the embedding
	// model's input limit. Never retried.
	ErrContextLength = errors.New("context length exceeded")

	// ErrIndexNotReady indicates the vector index did not become ready
	// within the readiness timeout. Fatal to the run: no upload may
	// proceed against an unready index.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrMissingCredentials indicates a required API key is absent from
	// the environment. Fatal to the run.
	ErrMissingCredentials = errors.New("missing credentials")
)
