//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux platform probes: the environment facts that decide whether
// hugepage reservations can work here.

package control

import (
	"os"
	"runtime"

	"github.com/momentics/hugealloc/numa"
)

// RegisterPlatformProbes wires Linux environment inspection hooks.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.numa_nodes", func() any {
		return numa.NodeIDs()
	})
	dp.RegisterProbe("platform.hugetlb_mounted", func() any {
		_, err := os.Stat("/sys/kernel/mm/hugepages")
		return err == nil
	})
}
