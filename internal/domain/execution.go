package domain

import "time"

// ExecutionResult wraps details from the command executor. Stdout and Stderr
// are capped at the executor's byte limit; Truncated marks that the cap was
// hit so announcements can say so.
type ExecutionResult struct {
	Ran       bool
	ExitCode  int
	Stdout    string
	Stderr    string
	Truncated bool
	Duration  time.Duration
	Err       error
}

// Failed reports a non-zero exit, a timeout, or any other executor error.
func (r ExecutionResult) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}
