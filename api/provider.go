// File: api/provider.go
// Author: momentics <momentics@gmail.com>
//
// Narrow contract between the allocator and the OS shared-memory subsystem.

package api

// Segment is one reserved shared-memory span handed out by a RegionProvider.
// Key identifies the underlying OS object for later release; Buf covers the
// whole reserved range.
type Segment struct {
	Key int
	Buf []byte
}

// RegionProvider reserves and releases NUMA-bound hugepage regions.
//
// Reserve rounds size up to a hugepage multiple and returns a zero-filled
// segment bound to the given node. It reports ErrNoHugeMem when the system
// has no hugepage memory left (callers may back off) and *FatalError for
// environment problems; segment-key collisions are retried internally and
// never surface. Release must undo everything Reserve did; its failures are
// always *FatalError.
//
// Implementations are not required to be safe for concurrent use.
type RegionProvider interface {
	Reserve(size, node int) (Segment, error)
	Release(seg Segment) error

	// Nodes returns the number of NUMA nodes reservations may target.
	// Node IDs are dense: the valid targets are exactly 0 through
	// Nodes()-1. Providers reject IDs their topology does not expose.
	Nodes() int

	// HugepageSize and PageSize describe the provider's geometry. Both are
	// powers of two and HugepageSize is a multiple of PageSize.
	HugepageSize() int
	PageSize() int
}
