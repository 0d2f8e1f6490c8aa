// File: alloc/region.go
// Author: momentics <momentics@gmail.com>
//
// One reserved shared-memory region and its carve bookkeeping.

package alloc

import "github.com/momentics/hugealloc/api"

// region is one NUMA-bound hugepage segment. The allocator owns the span
// exclusively; cursor only ever advances, in whole hugepages, so
// previously carved memory is never handed out twice.
type region struct {
	key           int
	buf           []byte
	size          int
	cursor        int // byte offset of the next unconsumed hugepage
	freeHugepages int
}

// newRegion wraps a reserved segment. Providers guarantee hugepage
// multiple sizing.
func newRegion(seg api.Segment, hugepageSize int) *region {
	size := len(seg.Buf)
	if size == 0 || size%hugepageSize != 0 {
		panic("hugealloc: region size is not a hugepage multiple")
	}
	return &region{
		key:           seg.Key,
		buf:           seg.Buf,
		size:          size,
		freeHugepages: size / hugepageSize,
	}
}

// take consumes n hugepages at the cursor and returns the carved span,
// capacity-capped so callers cannot reach past it. The caller keeps the
// aggregate free counter in lockstep.
func (r *region) take(n, hugepageSize int) []byte {
	if n <= 0 || n > r.freeHugepages {
		panic("hugealloc: carve beyond the region's free span")
	}
	length := n * hugepageSize
	span := r.buf[r.cursor : r.cursor+length : r.cursor+length]
	r.cursor += length
	r.freeHugepages -= n
	return span
}

// segment rebuilds the provider descriptor for release.
func (r *region) segment() api.Segment {
	return api.Segment{Key: r.key, Buf: r.buf}
}

// consistent verifies the cursor/free-counter relationship.
func (r *region) consistent(hugepageSize int) bool {
	return r.cursor == r.size-r.freeHugepages*hugepageSize
}
