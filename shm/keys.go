// File: shm/keys.go
// Author: momentics <momentics@gmail.com>
//
// Random SysV IPC key generation.

package shm

import "math/rand"

// nextKey returns a random positive segment key candidate. Zero is never
// returned: key 0 is IPC_PRIVATE, which would create an unnamed segment
// that release-by-key can no longer find. Collisions with keys already in
// use are expected and handled by the reservation retry loop.
func nextKey() int {
	for {
		if k := int(rand.Int31()); k > 0 {
			return k
		}
	}
}
