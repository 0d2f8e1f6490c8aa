//go:build linux
// +build linux

// File: numa/numa_linux.go
// Author: momentics <momentics@gmail.com>
//
// Node discovery from /sys/devices/system/node. Kernels without NUMA
// support still expose node0 there; a missing directory falls back to the
// single-domain default in numa.go.

package numa

import "os"

const sysfsNodeDir = "/sys/devices/system/node"

func platformNodeIDs() []int {
	entries, err := os.ReadDir(sysfsNodeDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return parseNodeDirs(names)
}
