//go:build !linux
// +build !linux

// File: numa/numa_stub.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux fallback: a single memory domain.

package numa

func platformNodeIDs() []int {
	return []int{0}
}
