package release

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetNotFound indicates a target working directory that does
	// not exist. Per-target: siblings still run.
	ErrTargetNotFound = errors.New("release: target directory not found")
)

// ProbeKind classifies why a probe could not answer.
type ProbeKind string

const (
	ProbeLocalVcsUnavailable ProbeKind = "local_vcs_unavailable"
	ProbeNetwork             ProbeKind = "network"
	ProbeAuth                ProbeKind = "auth"
)

// ProbeError aborts one target's reconciliation before any mutation.
type ProbeError struct {
	Kind   ProbeKind
	Target string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("release: probe %s (%s): %v", e.Target, e.Kind, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ActionError records a failed plan step for one target.
type ActionError struct {
	Action Action
	Target string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("release: %s %s: %v", e.Action, e.Target, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Failure returns the first failed action as a typed error, the
// pre-execution diagnostic when nothing ran, or nil for a succeeded
// target.
func (r ExecutionResult) Failure() error {
	for _, ar := range r.Results {
		if !ar.OK {
			return &ActionError{Action: ar.Action, Target: r.Target.Name, Err: errors.New(ar.Detail)}
		}
	}
	if !r.Success && r.Detail != "" {
		return errors.New(r.Detail)
	}
	return nil
}

// isAuth sniffs implementation errors that identify themselves as
// authentication failures, in the manner of net.Error's Timeout.
func isAuth(err error) bool {
	var ae interface{ AuthError() bool }
	return errors.As(err, &ae) && ae.AuthError()
}

// isAbsent sniffs delete failures that mean the resource was already
// gone; absence-on-delete is treated as success.
func isAbsent(err error) bool {
	var ne interface{ NotFound() bool }
	return errors.As(err, &ne) && ne.NotFound()
}
