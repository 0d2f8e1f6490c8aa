// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Error taxonomy shared by the allocator and its region providers. Only
// ErrNoHugeMem is recoverable; everything a provider cannot classify as
// resource pressure surfaces as *FatalError.

package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors.
var (
	// ErrNoHugeMem reports that the system has no hugepage memory left for
	// a reservation. The allocator stays usable: callers may free memory or
	// retry later.
	ErrNoHugeMem = errors.New("no hugepage memory available")

	// ErrInvalidSize reports an allocation or configuration size outside
	// the allowed bounds.
	ErrInvalidSize = errors.New("allocation size out of bounds")

	// ErrInvalidNode reports a NUMA node outside the configured topology.
	ErrInvalidNode = errors.New("invalid NUMA node")

	// ErrClosed reports use of an allocator after Close.
	ErrClosed = errors.New("allocator is closed")

	// ErrNotSupported reports that hugepage shared memory is unavailable on
	// this platform.
	ErrNotSupported = errors.New("hugepage shared memory not supported on this platform")
)

// FatalError reports an unrecoverable environment problem: bad permissions,
// a kernel limit mismatch, an attach or NUMA-bind failure, or a broken
// release path. The allocator never continues past one; applications are
// expected to treat it as process-fatal.
type FatalError struct {
	Op  string // failing operation, e.g. "shmget", "mbind"
	Key int    // segment key involved, zero if none
	Err error
}

func (e *FatalError) Error() string {
	if e.Key != 0 {
		return fmt.Sprintf("hugealloc: %s failed for key %d: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("hugealloc: %s failed: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// NewFatal wraps err as a *FatalError for op. key may be zero when no
// segment is involved.
func NewFatal(op string, key int, err error) *FatalError {
	return &FatalError{Op: op, Key: key, Err: err}
}

// IsFatal reports whether err is, or wraps, a *FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
