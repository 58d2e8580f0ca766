package gateway

import (
	"errors"
	"fmt"
)

// NetworkError means the request failed, timed out, was refused by the
// circuit breaker, or the server answered with a non-success status.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ReconciliationError means the server answered but the payload did not
// decode or failed validation. Recovery is the same as for NetworkError.
type ReconciliationError struct {
	Op  string
	Err error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// NotFoundError means the mutation target no longer exists server-side.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsReconciliation(err error) bool {
	var re *ReconciliationError
	return errors.As(err, &re)
}
