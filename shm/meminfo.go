// File: shm/meminfo.go
// Author: momentics <momentics@gmail.com>
//
// Default hugepage size discovery from the kernel's meminfo format.

package shm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// fallbackHugepageSize is used when the kernel does not report one. 2 MiB
// is the default hugepage size on every mainstream Linux architecture.
const fallbackHugepageSize = 2 << 20

// parseHugepageSize scans meminfo content for the "Hugepagesize: N kB"
// line and returns the size in bytes.
func parseHugepageSize(r io.Reader) (int, bool) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "Hugepagesize:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.Atoi(fields[1])
		if err != nil || kb <= 0 {
			return 0, false
		}
		return kb << 10, true
	}
	return 0, false
}
