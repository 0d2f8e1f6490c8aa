// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package alloc implements the hugepage memory-reservation core: a
// bump-pointer allocator with a page free list, carving NUMA-bound
// shared-memory regions obtained from an api.RegionProvider.
//
// Memory is reserved from the OS in whole hugepage regions and handed out
// at two granularities. Native pages cycle through a last-in-first-out
// free list; hugepage blocks are never returned individually. The
// reservation footprint grows by doubling on exhaustion and is released
// only by Close.
//
// An Allocator binds to one NUMA node for its whole lifetime and is
// single-owner: callers serialize access. Page allocation and free never
// enter the kernel.
package alloc
