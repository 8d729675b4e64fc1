package compute

import (
	"fmt"

	"github.com/gomlx/devinfo/info"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidQuery is wrapped by the panics of queries with parameters outside the query tables.
	ErrInvalidQuery = info.ErrInvalidQuery

	// ErrUnsupportedForObject is returned when a query is valid for the owner kind, but not for the
	// particular object: e.g. the parent of a device that is not a sub-device, or a query its backend
	// doesn't support. The object remains usable.
	ErrUnsupportedForObject = errors.New("query not supported for this object")

	// ErrNoMatchingDevice is returned by SelectDevice when no device satisfies the policy.
	ErrNoMatchingDevice = errors.New("no device matches the selection policy")

	// ErrInvalidPartition is returned by Device.CreateSubDevices for partitions the device can't do.
	ErrInvalidPartition = errors.New("invalid partition")
)

// QueryError is returned by failed queries. It unwraps to the cause, so errors.Is works with
// ErrUnsupportedForObject and the backend's own errors.
type QueryError struct {
	Owner info.OwnerKind
	Query string
	Err   error
}

// Error implements error.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query %q: %v", e.Owner, e.Query, e.Err)
}

// Unwrap returns the cause.
func (e *QueryError) Unwrap() error { return e.Err }

// unsupportedError is ErrUnsupportedForObject caused by a backend error, kept in the chain.
type unsupportedError struct {
	cause error
}

func (e *unsupportedError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUnsupportedForObject, e.cause)
}

func (e *unsupportedError) Is(target error) bool { return target == ErrUnsupportedForObject }

func (e *unsupportedError) Unwrap() error { return e.cause }

func queryError(owner info.OwnerKind, entry *info.Entry, err error) *QueryError {
	return &QueryError{Owner: owner, Query: entry.Name, Err: err}
}
