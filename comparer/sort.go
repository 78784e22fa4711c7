package comparer

import (
	"slices"

	"github.com/mantoudev/hbase/keyvalue"
)

// Sort orders records by c, breaking key ties by sequence number.
func Sort(c IComparator, kvs []*keyvalue.KeyValue) {
	slices.SortStableFunc(kvs, func(a, b *keyvalue.KeyValue) int {
		return CompareWithSeqNum(c, a, b)
	})
}

// IsSorted reports whether kvs are in non-decreasing order under c and
// returns the index of the first record out of order, or -1.
func IsSorted(c IComparator, kvs []*keyvalue.KeyValue) (bool, int) {
	for i := 1; i < len(kvs); i++ {
		if CompareWithSeqNum(c, kvs[i-1], kvs[i]) > 0 {
			return false, i
		}
	}
	return true, -1
}

// SearchKey returns the smallest index i in [0, n) for which at(i) does not
// sort before key, or n if there is none. at must be sorted under c.
func SearchKey(c IComparator, n int, at func(i int) keyvalue.Key, key keyvalue.Key) int {
	lo, hi := 0, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if c.CompareKeys(at(mid), key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// RowOnly adapts c into a cmp function that orders records by row alone, for
// grouping records of one row together.
func RowOnly(c IComparator) func(a, b *keyvalue.KeyValue) int {
	return func(a, b *keyvalue.KeyValue) int {
		return c.CompareCellRows(a, b)
	}
}
