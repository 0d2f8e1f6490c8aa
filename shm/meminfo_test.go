// File: shm/meminfo_test.go
// Author: momentics <momentics@gmail.com>

package shm

import (
	"strings"
	"testing"
)

const sampleMeminfo = `MemTotal:       65663068 kB
MemFree:        48210744 kB
HugePages_Total:    1024
HugePages_Free:     1024
Hugepagesize:       2048 kB
Hugetlb:         2097152 kB
`

func TestParseHugepageSize(t *testing.T) {
	size, ok := parseHugepageSize(strings.NewReader(sampleMeminfo))
	if !ok {
		t.Fatal("parseHugepageSize failed on valid meminfo")
	}
	if size != 2<<20 {
		t.Errorf("size = %d, want %d", size, 2<<20)
	}
}

func TestParseHugepageSizeGigantic(t *testing.T) {
	content := "Hugepagesize:    1048576 kB\n"
	size, ok := parseHugepageSize(strings.NewReader(content))
	if !ok || size != 1<<30 {
		t.Errorf("size = %d ok = %v, want 1 GiB", size, ok)
	}
}

func TestParseHugepageSizeMissingOrBroken(t *testing.T) {
	cases := []string{
		"MemTotal: 123 kB\nMemFree: 456 kB\n",
		"Hugepagesize:\n",
		"Hugepagesize: junk kB\n",
		"Hugepagesize: -4 kB\n",
		"",
	}
	for _, content := range cases {
		if size, ok := parseHugepageSize(strings.NewReader(content)); ok {
			t.Errorf("parseHugepageSize(%q) = %d, want failure", content, size)
		}
	}
}

func TestNextKeyIsAlwaysPositive(t *testing.T) {
	for i := 0; i < 10000; i++ {
		if k := nextKey(); k <= 0 {
			t.Fatalf("nextKey() = %d, want > 0", k)
		}
	}
}
