package model

import "errors"

// Error taxonomy. Per-item loops classify failures with errors.Is and always
// continue to the next item; only ErrConfiguration may terminate the process,
// and only during bootstrap.
var (
	// ErrAuth marks an invalid or expired credential. It feeds the
	// credential health state machine and never crashes the caller.
	ErrAuth = errors.New("authorization failed")

	// ErrTransient marks a network-level failure. Retried at the next
	// scheduled tick, never inline.
	ErrTransient = errors.New("transient network error")

	// ErrNotFound marks a missing expected resource. Logged, item skipped.
	ErrNotFound = errors.New("not found")

	// ErrParse marks a malformed LLM or transcription payload. The item is
	// skipped and not retried.
	ErrParse = errors.New("malformed payload")

	// ErrConfiguration marks missing required setup. Fatal at startup only.
	ErrConfiguration = errors.New("configuration error")
)
