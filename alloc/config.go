// File: alloc/config.go
// Author: momentics <momentics@gmail.com>
//
// Construction parameters. Everything here is immutable for the allocator
// lifetime once New returns.

package alloc

import (
	"math"

	"github.com/momentics/hugealloc/api"
	"github.com/momentics/hugealloc/control"
	"github.com/momentics/hugealloc/shm"
)

// DefaultMaxAllocSize caps single huge allocations and the initial
// reservation. A sanity ceiling against mistyped sizes, not a hardware
// limit: 256 GiB, held to the addressable range on 32-bit targets.
const DefaultMaxAllocSize = min(256<<30, math.MaxInt)

// DefaultInitialSize is the first reservation when the caller does not
// choose one.
const DefaultInitialSize = 16 << 20

// Config holds allocator construction parameters.
type Config struct {
	// Provider reserves and releases regions. Nil selects the SysV
	// shared-memory provider for the running kernel.
	Provider api.RegionProvider

	// InitialSize is the first reservation in bytes, rounded up to a
	// hugepage multiple. Must be positive and at most MaxAllocSize.
	InitialSize int

	// NUMANode is the memory domain every region is bound to. Must name a
	// node the provider can target.
	NUMANode int

	// MaxAllocSize bounds a single huge allocation and InitialSize. Zero
	// selects DefaultMaxAllocSize.
	MaxAllocSize int

	// Metrics, when set, receives reservation gauges and counters. Updated
	// on cold paths only.
	Metrics *control.MetricsRegistry

	// Trace, when set, records reservation, growth and teardown events.
	// Cold paths only.
	Trace *control.Trace
}

// DefaultConfig returns the configuration for node 0 with the default
// initial reservation and the platform provider.
func DefaultConfig() *Config {
	return &Config{
		Provider:     shm.NewProvider(),
		InitialSize:  DefaultInitialSize,
		NUMANode:     0,
		MaxAllocSize: DefaultMaxAllocSize,
	}
}
