// File: alloc/allocator.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Allocator core. Page and huge-block allocation never enter the kernel;
// only exhaustion-driven growth reserves new regions through the provider.

package alloc

import (
	"log"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/momentics/hugealloc/api"
	"github.com/momentics/hugealloc/control"
	"github.com/momentics/hugealloc/shm"
)

// Allocator implements api.Allocator over regions from an
// api.RegionProvider. One instance binds to one NUMA node for its whole
// lifetime. Not safe for concurrent use.
type Allocator struct {
	provider api.RegionProvider
	node     int
	maxAlloc int

	hugepageSize int
	pageSize     int

	regions  []*region // creation order, sizes non-decreasing
	pageFree pageStack

	freeHugepages int // sum over regions, kept in lockstep
	growth        int // next reservation size; doubles, never shrinks
	reserved      int // bytes reserved from the OS
	pageBytes     int // bytes handed out as native pages
	hugeBytes     int // bytes handed out as huge blocks
	growthEvents  int

	metrics *control.MetricsRegistry
	trace   *control.Trace
	closed  bool
}

var _ api.Allocator = (*Allocator)(nil)

// New validates cfg and reserves the initial region. When the system is
// out of hugepage memory at construction the allocator starts empty and
// retries through the growth path on first use; fatal environment errors
// fail construction.
func New(cfg *Config) (*Allocator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	provider := cfg.Provider
	if provider == nil {
		provider = shm.NewProvider()
	}
	maxAlloc := cfg.MaxAllocSize
	if maxAlloc == 0 {
		maxAlloc = DefaultMaxAllocSize
	}

	if cfg.InitialSize <= 0 || cfg.InitialSize > maxAlloc {
		return nil, errors.Wrapf(api.ErrInvalidSize, "initial size %d outside (0, %d]", cfg.InitialSize, maxAlloc)
	}
	if cfg.NUMANode < 0 || cfg.NUMANode >= provider.Nodes() {
		return nil, errors.Wrapf(api.ErrInvalidNode, "node %d with %d configured", cfg.NUMANode, provider.Nodes())
	}
	hugepageSize := provider.HugepageSize()
	pageSize := provider.PageSize()
	if pageSize <= 0 || hugepageSize <= 0 || hugepageSize%pageSize != 0 {
		return nil, errors.Errorf("hugealloc: provider geometry invalid: hugepage %d, page %d", hugepageSize, pageSize)
	}

	a := &Allocator{
		provider:     provider,
		node:         cfg.NUMANode,
		maxAlloc:     maxAlloc,
		hugepageSize: hugepageSize,
		pageSize:     pageSize,
		growth:       cfg.InitialSize,
		metrics:      cfg.Metrics,
		trace:        cfg.Trace,
	}

	if err := a.reserve(cfg.InitialSize); err != nil {
		if api.IsFatal(err) {
			return nil, err
		}
		// Out of hugepages right now. Start empty; the first allocation
		// goes through the growth path.
		log.Printf("[alloc] initial reservation of %d bytes deferred: %v", cfg.InitialSize, err)
	}
	return a, nil
}

// AllocPage returns one native page. The free list is tried first; an
// exhausted reservation grows before a fresh hugepage is carved.
func (a *Allocator) AllocPage() ([]byte, error) {
	if a.closed {
		return nil, api.ErrClosed
	}
	if page, ok := a.pageFree.pop(); ok {
		a.pageBytes += a.pageSize
		return page, nil
	}
	if a.freeHugepages == 0 {
		if err := a.grow(0); err != nil {
			return nil, err
		}
	}
	for _, r := range a.regions {
		if r.freeHugepages == 0 {
			continue
		}
		span := r.take(1, a.hugepageSize)
		a.freeHugepages--
		// Carve the hugepage into native pages: all but the last park on
		// the free list, the last is handed out. Subsequent AllocPage
		// calls walk the hugepage downward.
		last := len(span) - a.pageSize
		for off := 0; off < last; off += a.pageSize {
			a.pageFree.push(span[off : off+a.pageSize : off+a.pageSize])
		}
		a.pageBytes += a.pageSize
		return span[last : last+a.pageSize : last+a.pageSize], nil
	}
	panic("hugealloc: free hugepage count out of sync with regions")
}

// FreePage parks page for reuse. page must have come from AllocPage on
// this allocator; only page alignment is verified, anything else is
// undefined behavior by contract.
func (a *Allocator) FreePage(page []byte) {
	if uintptr(unsafe.Pointer(&page[0]))%uintptr(a.pageSize) != 0 {
		panic("hugealloc: FreePage of misaligned address")
	}
	a.pageFree.push(page)
	a.pageBytes -= a.pageSize
}

// AllocHuge returns a contiguous block of whole hugepages covering at
// least size bytes, growing the reservation when no region has room. The
// block lives until Close.
func (a *Allocator) AllocHuge(size int) ([]byte, error) {
	if a.closed {
		return nil, api.ErrClosed
	}
	if size < a.hugepageSize || size > a.maxAlloc {
		return nil, errors.Wrapf(api.ErrInvalidSize, "huge request %d outside [%d, %d]", size, a.hugepageSize, a.maxAlloc)
	}
	size = roundUp(size, a.hugepageSize)
	want := size / a.hugepageSize

	for _, r := range a.regions {
		if r.freeHugepages >= want {
			return a.carveHuge(r, want, size), nil
		}
	}

	if err := a.grow(size); err != nil {
		return nil, err
	}
	// The region just reserved is last in the registry and, at growth-size
	// bytes, covers the request.
	return a.carveHuge(a.regions[len(a.regions)-1], want, size), nil
}

func (a *Allocator) carveHuge(r *region, want, size int) []byte {
	span := r.take(want, a.hugepageSize)
	a.freeHugepages -= want
	a.hugeBytes += size
	return span
}

// ReservedMemory reports all memory reserved from the OS, an exact
// hugepage multiple.
func (a *Allocator) ReservedMemory() int { return a.reserved }

// AllocatedMemory reports the bytes currently handed to callers across
// both granularities.
func (a *Allocator) AllocatedMemory() int { return a.pageBytes + a.hugeBytes }

// NUMANode returns the node every region binds to.
func (a *Allocator) NUMANode() int { return a.node }

// Stats returns an accounting snapshot.
func (a *Allocator) Stats() api.AllocStats {
	return api.AllocStats{
		ReservedBytes:  int64(a.reserved),
		AllocatedBytes: int64(a.pageBytes + a.hugeBytes),
		PageAllocBytes: int64(a.pageBytes),
		HugeAllocBytes: int64(a.hugeBytes),
		FreePages:      int64(a.pageFree.len()),
		FreeHugepages:  int64(a.freeHugepages),
		Regions:        int64(len(a.regions)),
		GrowthEvents:   int64(a.growthEvents),
		NUMANode:       a.node,
	}
}

// Close releases every region back to the OS. Outstanding pages and
// blocks become invalid. The first release failure is returned
// immediately as a *FatalError; applications should treat it as
// process-fatal. A second Close on a closed allocator returns nil.
func (a *Allocator) Close() error {
	if a.closed {
		return nil
	}
	for len(a.regions) > 0 {
		r := a.regions[0]
		if err := a.provider.Release(r.segment()); err != nil {
			return err
		}
		a.regions = a.regions[1:]
		a.trace.Record(control.Event{Kind: "release", Size: int64(r.size), Node: a.node})
	}
	a.closed = true
	a.pageFree.reset()
	a.freeHugepages = 0
	if a.metrics != nil {
		a.metrics.Set("alloc.closed", true)
	}
	return nil
}

// grow runs one growth event: double the retained growth size, again
// while a single request needs more, then reserve at the result. The
// doubled size is retained even when the reservation fails.
func (a *Allocator) grow(need int) error {
	a.growth *= 2
	for a.growth < need {
		a.growth *= 2
	}
	a.growthEvents++
	a.trace.Record(control.Event{Kind: "grow", Size: int64(a.growth), Node: a.node})
	if a.metrics != nil {
		a.metrics.Add("alloc.growth_events", 1)
	}
	return a.reserve(a.growth)
}

// reserve obtains one region of at least size bytes and registers it.
func (a *Allocator) reserve(size int) error {
	seg, err := a.provider.Reserve(size, a.node)
	if err != nil {
		a.trace.Record(control.Event{Kind: "reserve_fail", Size: int64(size), Node: a.node, Err: err.Error()})
		if a.metrics != nil {
			a.metrics.Add("alloc.reserve_failures", 1)
		}
		return err
	}
	r := newRegion(seg, a.hugepageSize)
	a.regions = append(a.regions, r)
	a.freeHugepages += r.freeHugepages
	a.reserved += r.size
	a.trace.Record(control.Event{Kind: "reserve", Size: int64(r.size), Node: a.node})
	if a.metrics != nil {
		a.metrics.Set("alloc.reserved_bytes", int64(a.reserved))
		a.metrics.Add("alloc.regions", 1)
	}
	return nil
}

func roundUp(n, unit int) int {
	return (n + unit - 1) / unit * unit
}
