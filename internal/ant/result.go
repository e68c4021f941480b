package ant

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors wrapped by Result.Error, one per non-success Status.
var (
	// ErrInvalidInput means the build file is missing, unreadable or not XML.
	ErrInvalidInput = errors.New("invalid build input")
	// ErrToolNotFound means no ant launcher could be resolved.
	ErrToolNotFound = errors.New("ant not found")
	// ErrTimedOut means the build exceeded its timeout and was killed.
	ErrTimedOut = errors.New("build timed out")
	// ErrCancelled means the context was cancelled before ant exited.
	ErrCancelled = errors.New("build cancelled")
	// ErrProcessFailed means ant exited non-zero or could not be started.
	ErrProcessFailed = errors.New("build failed")
)

// Status is the terminal classification of a build.
type Status string

// Build statuses. Only StatusSucceeded maps to a nil Result.Error.
const (
	StatusSucceeded    Status = "succeeded"
	StatusFailed       Status = "failed"
	StatusTimedOut     Status = "timed_out"
	StatusCancelled    Status = "cancelled"
	StatusToolNotFound Status = "tool_not_found"
	StatusInvalidInput Status = "invalid_input"
)

// Result is produced exactly once per Execute call.
type Result struct {
	ID       string        `json:"id"`
	Status   Status        `json:"status"`
	State    State         `json:"state"`
	ExitCode *int          `json:"exit_code,omitempty"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Duration time.Duration `json:"duration_ns"`
	Tool     string        `json:"tool,omitempty"`
	Err      error         `json:"-"`
}

// DurationMs returns the wall time in milliseconds.
func (r Result) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// Succeeded reports whether Ant exited with status 0.
func (r Result) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Error returns nil for a successful build, otherwise an error wrapping the
// sentinel that matches Status.
func (r Result) Error() error {
	if r.Status == StatusSucceeded {
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	switch r.Status {
	case StatusTimedOut:
		return ErrTimedOut
	case StatusCancelled:
		return ErrCancelled
	case StatusToolNotFound:
		return ErrToolNotFound
	case StatusInvalidInput:
		return ErrInvalidInput
	}
	if r.ExitCode != nil {
		return fmt.Errorf("%w: exit code %d", ErrProcessFailed, *r.ExitCode)
	}
	return ErrProcessFailed
}

func intPtr(v int) *int {
	return &v
}
