// File: numa/numa.go
// Author: momentics <momentics@gmail.com>
//
// NUMA topology discovery without cgo. Linux reads sysfs; other platforms
// report a single memory domain.

package numa

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

var (
	nodesOnce sync.Once
	nodeList  []int
)

func nodeIDs() []int {
	nodesOnce.Do(func() {
		nodeList = platformNodeIDs()
		if len(nodeList) == 0 {
			nodeList = []int{0}
		}
		sort.Ints(nodeList)
	})
	return nodeList
}

// NodeIDs returns the configured NUMA node IDs in ascending order. The
// result is never empty and must not be modified.
func NodeIDs() []int {
	return nodeIDs()
}

// NodeCount returns the number of configured NUMA nodes, at least 1.
func NodeCount() int {
	return len(nodeIDs())
}

// ValidNode reports whether id names a configured node.
func ValidNode(id int) bool {
	for _, n := range nodeIDs() {
		if n == id {
			return true
		}
	}
	return false
}

// parseNodeDirs extracts node IDs from sysfs entry names ("node0", "node1").
// Non-node entries such as "possible" or "online" are skipped.
func parseNodeDirs(names []string) []int {
	var ids []int
	for _, name := range names {
		if !strings.HasPrefix(name, "node") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(name, "node"))
		if err != nil || id < 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
