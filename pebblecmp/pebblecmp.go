// Package pebblecmp lets a pebble database store flat record keys in the
// order of a comparator.
package pebblecmp

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/mantoudev/hbase/comparer"
	"github.com/mantoudev/hbase/keyvalue"
)

// New adapts cmp to pebble. Pebble keys must be flat keys as returned by
// KeyValue.Key; the empty key sorts first.
func New(cmp comparer.IComparator) *pebble.Comparer {
	compare := func(a, b []byte) int {
		switch {
		case len(a) == 0 && len(b) == 0:
			return 0
		case len(a) == 0:
			return -1
		case len(b) == 0:
			return 1
		}
		return cmp.CompareKeys(a, b)
	}

	return &pebble.Comparer{
		Compare: compare,
		Equal: func(a, b []byte) bool {
			return compare(a, b) == 0
		},
		AbbreviatedKey: abbreviatedKey(cmp.Class()),
		FormatKey: func(key []byte) fmt.Formatter {
			return formattedKey(key)
		},
		Separator: func(dst, a, b []byte) []byte {
			if len(a) == 0 || len(b) == 0 {
				return append(dst, a...)
			}
			mid, err := cmp.ShortMidpointKey(a, b)
			// the separator must sort strictly below b
			if err != nil || cmp.CompareKeys(mid, b) >= 0 {
				return append(dst, a...)
			}
			return append(dst, mid...)
		},
		Successor: func(dst, a []byte) []byte {
			return append(dst, a...)
		},
		Split: func(a []byte) int {
			return len(a)
		},
		Name: cmp.Name(),
	}
}

// abbreviatedKey packs the first eight row bytes, which order keys the same
// way as the full comparison whenever rows compare bytewise.
func abbreviatedKey(class comparer.Class) func(key []byte) uint64 {
	if class == comparer.Catalog {
		return func([]byte) uint64 { return 0 }
	}
	return func(key []byte) uint64 {
		if len(key) < keyvalue.RowLengthSize {
			return 0
		}
		rowLen := int(binary.BigEndian.Uint16(key))
		row := key[keyvalue.RowLengthSize:min(keyvalue.RowLengthSize+rowLen, len(key))]
		var v uint64
		for i := 0; i < 8; i++ {
			v <<= 8
			if i < len(row) {
				v |= uint64(row[i])
			}
		}
		return v
	}
}

type formattedKey []byte

func (k formattedKey) Format(s fmt.State, _ rune) {
	if err := keyvalue.ValidateKey(k); err != nil {
		fmt.Fprintf(s, "%x", []byte(k))
		return
	}
	fmt.Fprint(s, keyvalue.Key(k).String())
}
