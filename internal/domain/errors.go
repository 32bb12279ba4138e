package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error is caught at the session loop boundary and
// converted into a spoken or logged message; none terminates the process.

// ErrNoSpeech marks a listening window that produced no usable speech. The
// loop skips the cycle without any announcement.
var ErrNoSpeech = errors.New("no speech detected")

// AmbiguousIntentError means the classifier model did not answer with exactly
// one of the known labels. The loop falls back to the conversation path, never
// to the command path.
type AmbiguousIntentError struct {
	Raw string
}

func (e *AmbiguousIntentError) Error() string {
	return fmt.Sprintf("ambiguous intent label %q", e.Raw)
}

// SynthesisError means the command model returned empty, refusing, or
// non-command output. No proposal is created.
type SynthesisError struct {
	Reason string
	Raw    string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("command synthesis failed: %s", e.Reason)
}

// EndpointError wraps inference endpoint failures (unreachable, HTTP error,
// request timeout). Fatal to the current turn only: announced, then the loop
// continues.
type EndpointError struct {
	Endpoint string
	Err      error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("endpoint %s: %v", e.Endpoint, e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}

// IsEndpointError reports whether err is (or wraps) an endpoint failure.
func IsEndpointError(err error) bool {
	var ee *EndpointError
	return errors.As(err, &ee)
}
