//go:build linux
// +build linux

// File: shm/provider_linux_test.go
// Author: momentics <momentics@gmail.com>
//
// Integration tests against the running kernel. Reservation tests skip
// when the environment has no hugepages configured or lacks permissions.

package shm

import (
	"math/bits"
	"testing"

	"github.com/pkg/errors"

	"github.com/momentics/hugealloc/api"
)

func TestProviderGeometry(t *testing.T) {
	p := NewProvider()
	if p.PageSize() <= 0 {
		t.Errorf("PageSize() = %d", p.PageSize())
	}
	if p.HugepageSize() <= 0 || p.HugepageSize()%p.PageSize() != 0 {
		t.Errorf("HugepageSize() = %d, not a multiple of page size %d", p.HugepageSize(), p.PageSize())
	}
	if p.Nodes() < 1 {
		t.Errorf("Nodes() = %d, want >= 1", p.Nodes())
	}
}

func TestSegmentCreationFlags(t *testing.T) {
	// IPC_CREAT|IPC_EXCL|SHM_HUGETLB|0666 from <ipc.h> and <shm.h>.
	if segFlags != 0o7666 {
		t.Errorf("segment flags = %#o, want %#o", segFlags, 0o7666)
	}
}

func TestNodemaskSelectsExactlyOneNode(t *testing.T) {
	for _, node := range []int{0, 1, 5, nodemaskBits - 1} {
		mask := nodemask(node)
		if bits.OnesCount64(mask) != 1 || bits.TrailingZeros64(mask) != node {
			t.Errorf("nodemask(%d) = %#x, want only bit %d set", node, mask, node)
		}
	}
}

func reserveOrSkip(t *testing.T, p *Provider, size, node int) api.Segment {
	t.Helper()
	seg, err := p.Reserve(size, node)
	if err != nil {
		t.Skipf("hugepage reservation unavailable here: %v", err)
	}
	return seg
}

func TestReserveReleaseCycle(t *testing.T) {
	p := NewProvider()
	seg := reserveOrSkip(t, p, p.HugepageSize(), 0)

	if len(seg.Buf) != p.HugepageSize() {
		t.Errorf("reserved %d bytes, want %d", len(seg.Buf), p.HugepageSize())
	}
	if seg.Key <= 0 {
		t.Errorf("segment key = %d, want > 0", seg.Key)
	}
	for i := 0; i < len(seg.Buf); i += p.PageSize() {
		if seg.Buf[i] != 0 {
			t.Fatalf("byte %d not zero-filled", i)
		}
	}
	seg.Buf[0] = 0xAB
	seg.Buf[len(seg.Buf)-1] = 0xCD

	if err := p.Release(seg); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := p.Release(seg); !api.IsFatal(err) {
		t.Errorf("second release: got %v, want fatal", err)
	}
}

func TestReserveRetriesOnKeyCollision(t *testing.T) {
	p := NewProvider()
	first := reserveOrSkip(t, p, p.HugepageSize(), 0)
	defer func() {
		if err := p.Release(first); err != nil {
			t.Errorf("release first: %v", err)
		}
	}()

	// Force the second reservation to draw the occupied key before a
	// fresh one.
	collided := []int{first.Key}
	p.keyFn = func() int {
		if len(collided) > 0 {
			k := collided[0]
			collided = collided[1:]
			return k
		}
		return nextKey()
	}

	second := reserveOrSkip(t, p, p.HugepageSize(), 0)
	if second.Key == first.Key {
		t.Errorf("collision not retried: both segments use key %d", second.Key)
	}
	if err := p.Release(second); err != nil {
		t.Errorf("release second: %v", err)
	}
}

func TestReserveRejectsAbsentNode(t *testing.T) {
	p := NewProvider()
	drawn := 0
	p.keyFn = func() int {
		drawn++
		return nextKey()
	}

	for _, node := range []int{-1, 1 << 20} {
		_, err := p.Reserve(p.HugepageSize(), node)
		if !api.IsFatal(err) {
			t.Fatalf("Reserve(node=%d): got %v, want fatal", node, err)
		}
		if !errors.Is(err, api.ErrInvalidNode) {
			t.Errorf("Reserve(node=%d): %v does not match ErrInvalidNode", node, err)
		}
	}
	if drawn != 0 {
		t.Errorf("drew %d segment keys for rejected nodes", drawn)
	}
}
