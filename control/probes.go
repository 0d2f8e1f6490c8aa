// control/probes.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe registry: named inspection hooks reflected into a state dump.

package control

import (
	"sync"

	"github.com/momentics/hugealloc/api"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook, replacing any previous hook
// under the same name.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// DumpState returns the output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any)
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// RegisterAllocatorProbes wires the standard allocator inspection hooks
// under prefix. The hooks read live allocator state, which is
// single-owner: invoke DumpState only from the goroutine that owns the
// allocator.
func RegisterAllocatorProbes(dp *DebugProbes, prefix string, a api.Allocator) {
	dp.RegisterProbe(prefix+".stats", func() any { return a.Stats() })
	dp.RegisterProbe(prefix+".reserved_bytes", func() any { return a.ReservedMemory() })
	dp.RegisterProbe(prefix+".allocated_bytes", func() any { return a.AllocatedMemory() })
	dp.RegisterProbe(prefix+".numa_node", func() any { return a.NUMANode() })
}
