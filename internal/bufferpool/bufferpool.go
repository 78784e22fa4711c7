package bufferpool

import (
	"math/bits"
	"sync"
)

const (
	minPoolShift = 8
	poolCnt      = 24
)

// pools holds byte slices by capacity class.
//
//	pools[0] holds capacities of at least 256
//	pools[1] holds capacities of at least 512
//	...
//	pools[n] holds capacities of at least 2^(n+8)
//
// Slices larger than the last class are served by the last class, bigger
// buffers are not worth caching.
var pools [poolCnt]sync.Pool

// Get returns an empty slice whose capacity is at least dataLen.
func Get(dataLen int) []byte {
	id, poolCap := classFor(dataLen)
	if poolCap >= dataLen {
		if b := pools[id].Get(); b != nil {
			return b.([]byte)
		}
		return make([]byte, 0, poolCap)
	}
	return make([]byte, 0, dataLen)
}

// Put hands buf back. The caller must not use buf afterwards.
func Put(buf []byte) {
	c := cap(buf)
	if c < 1<<minPoolShift {
		return
	}
	// the largest class whose guaranteed capacity buf still satisfies
	id := min(bits.Len(uint(c))-1-minPoolShift, poolCnt-1)
	pools[id].Put(buf[:0])
}

// classFor returns the smallest class able to hold size bytes and the
// capacity that class guarantees.
func classFor(size int) (int, int) {
	size--
	size = max(size, 0)
	size >>= minPoolShift
	id := min(bits.Len(uint(size)), poolCnt-1)
	return id, 1 << (id + minPoolShift)
}
