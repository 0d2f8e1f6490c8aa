//go:build linux
// +build linux

// File: shm/provider_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SysV shared-memory region provider: hugepage-flagged segments bound to a
// single NUMA node. See api.RegionProvider for the error contract.

package shm

import (
	"log"
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/momentics/hugealloc/api"
	"github.com/momentics/hugealloc/numa"
)

// mpolBind is the strict mbind policy: every page of the span must come
// from the nodemask. Mirrors MPOL_BIND in <numaif.h>.
const mpolBind = 2

// nodemaskBits is the width of the single nodemask word passed to mbind.
const nodemaskBits = 64

// shmHugetlb requests hugepage backing at segment creation. Mirrors
// SHM_HUGETLB in <shm.h>; x/sys/unix exports no linux SHM_* constants.
const shmHugetlb = 0o4000

// segMode is the permission bits applied at segment creation.
const segMode = 0o666

// segFlags creates a fresh hugepage-backed segment, never attaching to an
// existing one.
const segFlags = unix.IPC_CREAT | unix.IPC_EXCL | shmHugetlb | segMode

// Provider implements api.RegionProvider on SysV shared memory.
type Provider struct {
	hugepageSize int
	pageSize     int
	nodes        int

	// keyFn produces candidate segment keys; replaced in tests.
	keyFn func() int
}

var _ api.RegionProvider = (*Provider)(nil)

// NewProvider discovers geometry and topology from the running kernel.
func NewProvider() *Provider {
	return &Provider{
		hugepageSize: defaultHugepageSize(),
		pageSize:     unix.Getpagesize(),
		nodes:        numa.NodeCount(),
		keyFn:        nextKey,
	}
}

func (p *Provider) Nodes() int        { return p.nodes }
func (p *Provider) HugepageSize() int { return p.hugepageSize }
func (p *Provider) PageSize() int     { return p.pageSize }

// Reserve creates, attaches, NUMA-binds and zero-fills one hugepage
// segment of size rounded up to a hugepage multiple.
func (p *Provider) Reserve(size, node int) (api.Segment, error) {
	// Reject nodes the topology does not expose before any segment exists.
	if !numa.ValidNode(node) {
		return api.Segment{}, api.NewFatal("mbind", 0, errors.Wrapf(api.ErrInvalidNode, "node %d not present in the topology", node))
	}
	size = roundUp(size, p.hugepageSize)

	var id, key int
	for {
		key = p.keyFn()
		var err error
		id, err = unix.SysvShmGet(key, size, segFlags)
		if err == nil {
			break
		}
		switch err {
		case unix.EEXIST:
			// Key already in use; draw another.
			continue
		case unix.EACCES:
			return api.Segment{}, api.NewFatal("shmget", key, errors.Wrap(err, "insufficient shared-memory permissions"))
		case unix.EINVAL:
			return api.Segment{}, api.NewFatal("shmget", key, errors.Wrapf(err, "size %d conflicts with kernel SHMMAX/SHMMIN limits", size))
		case unix.ENOMEM:
			log.Printf("[shm] out of hugepage memory reserving %d bytes (key=%d)", size, key)
			return api.Segment{}, api.ErrNoHugeMem
		default:
			return api.Segment{}, api.NewFatal("shmget", key, err)
		}
	}

	buf, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		// Remove the orphaned segment before reporting: SysV objects
		// outlive the process.
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return api.Segment{}, api.NewFatal("shmat", key, err)
	}

	if err := bindToNode(buf, node); err != nil {
		_ = unix.SysvShmDetach(buf)
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return api.Segment{}, api.NewFatal("mbind", key, err)
	}

	// Bind before first touch so the zero-fill faults every page on the
	// target node.
	clear(buf)

	return api.Segment{Key: key, Buf: buf}, nil
}

// Release removes the segment from the system and detaches it from the
// address space. Every failure here is fatal: a segment this process loses
// track of is leaked until reboot.
func (p *Provider) Release(seg api.Segment) error {
	id, err := unix.SysvShmGet(seg.Key, 0, 0)
	if err != nil {
		switch err {
		case unix.EACCES:
			return api.NewFatal("shmget", seg.Key, errors.Wrap(err, "insufficient shared-memory permissions"))
		case unix.ENOENT:
			return api.NewFatal("shmget", seg.Key, errors.Wrap(err, "segment does not exist"))
		default:
			return api.NewFatal("shmget", seg.Key, err)
		}
	}
	if _, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil); err != nil {
		return api.NewFatal("shmctl", seg.Key, err)
	}
	if err := unix.SysvShmDetach(seg.Buf); err != nil {
		return api.NewFatal("shmdt", seg.Key, err)
	}
	return nil
}

// bindToNode binds the whole span to one node with a strict policy. Raw
// syscall: x/sys/unix exposes SYS_MBIND but no wrapper.
func bindToNode(buf []byte, node int) error {
	if node < 0 || node >= nodemaskBits {
		return errors.Wrapf(api.ErrInvalidNode, "node %d outside single-word nodemask", node)
	}
	mask := nodemask(node)
	_, _, errno := unix.Syscall6(unix.SYS_MBIND,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		mpolBind,
		uintptr(unsafe.Pointer(&mask)),
		nodemaskBits,
		0)
	if errno != 0 {
		return errno
	}
	return nil
}

// nodemask builds the mbind mask word selecting a single node. Fixed
// 64-bit width: the kernel reads nodemaskBits bits from the word on every
// platform.
func nodemask(node int) uint64 {
	return 1 << uint(node)
}

// defaultHugepageSize reads the kernel's default from /proc/meminfo.
func defaultHugepageSize() int {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return fallbackHugepageSize
	}
	defer f.Close()
	if size, ok := parseHugepageSize(f); ok {
		return size
	}
	return fallbackHugepageSize
}

func roundUp(n, unit int) int {
	return (n + unit - 1) / unit * unit
}
