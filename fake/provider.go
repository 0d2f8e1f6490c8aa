// Package fake
// Author: momentics <momentics@gmail.com>
//
// In-memory region provider for exercising allocator logic without
// hugepages, shared memory, or a NUMA-capable kernel.

package fake

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/momentics/hugealloc/api"
)

// Provider is a scriptable api.RegionProvider backed by ordinary heap
// memory. Geometry is configurable so tests can run with tiny hugepages.
// Backing buffers are page-aligned; hugepage alignment is not simulated.
//
// The exported fields script upcoming calls and record past ones. Like the
// real provider, a fake is not safe for concurrent use.
type Provider struct {
	hugepageSize int
	pageSize     int
	nodes        int

	// FailNext makes that many upcoming Reserve calls report ErrNoHugeMem
	// before any segment is created.
	FailNext int

	// Fatal, when non-nil, is consumed by the next Reserve call and
	// returned wrapped as *api.FatalError.
	Fatal error

	// ReleaseErr, when non-nil, is returned by every Release call wrapped
	// as *api.FatalError.
	ReleaseErr error

	// Reserved holds every segment handed out, in creation order. BoundTo
	// holds the node passed to each successful Reserve. Released holds the
	// keys released, in release order.
	Reserved []api.Segment
	BoundTo  []int
	Released []int

	nextKey int
}

var _ api.RegionProvider = (*Provider)(nil)

// NewProvider returns a fake with the given geometry. hugepageSize must be
// a positive multiple of pageSize and nodes must be at least 1.
func NewProvider(hugepageSize, pageSize, nodes int) *Provider {
	if pageSize <= 0 || hugepageSize <= 0 || hugepageSize%pageSize != 0 {
		panic("fake: hugepage size must be a positive multiple of page size")
	}
	if nodes < 1 {
		panic("fake: need at least one node")
	}
	return &Provider{
		hugepageSize: hugepageSize,
		pageSize:     pageSize,
		nodes:        nodes,
	}
}

func (p *Provider) Nodes() int        { return p.nodes }
func (p *Provider) HugepageSize() int { return p.hugepageSize }
func (p *Provider) PageSize() int     { return p.pageSize }

// Reserve allocates a page-aligned heap buffer of size rounded up to a
// hugepage multiple, honoring any scripted failures first.
func (p *Provider) Reserve(size, node int) (api.Segment, error) {
	if p.Fatal != nil {
		err := p.Fatal
		p.Fatal = nil
		return api.Segment{}, api.NewFatal("reserve", 0, err)
	}
	if p.FailNext > 0 {
		p.FailNext--
		return api.Segment{}, api.ErrNoHugeMem
	}
	if size <= 0 {
		return api.Segment{}, api.NewFatal("reserve", 0, errors.Errorf("non-positive size %d", size))
	}
	if node < 0 || node >= p.nodes {
		return api.Segment{}, api.NewFatal("reserve", 0, errors.Errorf("node %d outside [0, %d)", node, p.nodes))
	}

	size = (size + p.hugepageSize - 1) / p.hugepageSize * p.hugepageSize
	p.nextKey++
	seg := api.Segment{Key: p.nextKey, Buf: alignedBytes(size, p.pageSize)}
	p.Reserved = append(p.Reserved, seg)
	p.BoundTo = append(p.BoundTo, node)
	return seg, nil
}

// Release records the key, rejecting unknown or doubly released segments
// the way the real provider rejects a missing shm key.
func (p *Provider) Release(seg api.Segment) error {
	if p.ReleaseErr != nil {
		return api.NewFatal("release", seg.Key, p.ReleaseErr)
	}
	for _, k := range p.Released {
		if k == seg.Key {
			return api.NewFatal("release", seg.Key, errors.New("segment already released"))
		}
	}
	known := false
	for _, s := range p.Reserved {
		if s.Key == seg.Key {
			known = true
			break
		}
	}
	if !known {
		return api.NewFatal("release", seg.Key, errors.New("unknown segment key"))
	}
	p.Released = append(p.Released, seg.Key)
	return nil
}

// alignedBytes over-allocates and slices forward so the returned buffer
// starts on an align boundary.
func alignedBytes(size, align int) []byte {
	raw := make([]byte, size+align)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) % uintptr(align)); rem != 0 {
		off = align - rem
	}
	return raw[off : off+size : off+size]
}
