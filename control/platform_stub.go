//go:build !linux
// +build !linux

// control/platform_stub.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux platform probes. Hugepage shared memory is unavailable, which
// the probes make visible instead of hiding.

package control

import (
	"runtime"

	"github.com/momentics/hugealloc/numa"
)

// RegisterPlatformProbes wires the portable environment inspection hooks.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.numa_nodes", func() any {
		return numa.NodeIDs()
	})
	dp.RegisterProbe("platform.hugetlb_mounted", func() any {
		return false
	})
}
