// File: api/alloc.go
// Author: momentics <momentics@gmail.com>
//
// Public allocator contract: page and hugepage-block allocation carved from
// NUMA-bound shared-memory regions.

package api

// Allocator hands out memory at two granularities: native pages, which may
// be freed and are reused last-freed-first, and contiguous hugepage blocks,
// which are only ever reclaimed by Close.
//
// Allocators are single-owner: callers must serialize access.
type Allocator interface {
	// AllocPage returns one native page. It grows the reservation when all
	// regions are exhausted and reports ErrNoHugeMem once the OS has no
	// hugepage memory left.
	AllocPage() ([]byte, error)

	// FreePage returns a page obtained from AllocPage to the free list.
	// Passing anything else is undefined behavior; only page alignment is
	// verified.
	FreePage(page []byte)

	// AllocHuge returns a contiguous block of whole hugepages covering at
	// least size bytes. There is no matching free: the block lives until
	// Close.
	AllocHuge(size int) ([]byte, error)

	// ReservedMemory reports all memory reserved from the OS, always an
	// exact hugepage multiple. AllocatedMemory reports the bytes currently
	// handed to callers.
	ReservedMemory() int
	AllocatedMemory() int

	// NUMANode returns the node every region is bound to.
	NUMANode() int

	// Stats returns an accounting snapshot.
	Stats() AllocStats

	// Close releases every reserved region. Outstanding pages and blocks
	// become invalid. Failures are *FatalError and should be treated as
	// process-fatal by the application.
	Close() error
}

// AllocStats aggregates allocator accounting at one point in time.
type AllocStats struct {
	ReservedBytes  int64
	AllocatedBytes int64
	PageAllocBytes int64 // portion of AllocatedBytes handed out as pages
	HugeAllocBytes int64 // portion handed out as hugepage blocks
	FreePages      int64 // pages parked on the free list
	FreeHugepages  int64 // unconsumed hugepages across all regions
	Regions        int64
	GrowthEvents   int64
	NUMANode       int
}
