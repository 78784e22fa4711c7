package comparer

import (
	"bytes"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/keyvalue"
)

// CompareTimestamps orders newer timestamps first.
func CompareTimestamps(a, b int64) int {
	switch {
	case a < b:
		return 1
	case a > b:
		return -1
	default:
		return 0
	}
}

// compareTypes orders larger type codes first.
func compareTypes(a, b byte) int {
	switch {
	case a < b:
		return 1
	case a > b:
		return -1
	default:
		return 0
	}
}

// compareSentinels applies the row-scan sentinels: a key with no column and
// TypeMinimum is the last key of its row, one with no column and TypeMaximum
// is the first. Two sentinels of the same kind are left to the regular order.
func compareSentinels(aColLen int, aType byte, bColLen int, bType byte) int {
	aLast := aColLen == 0 && keyvalue.Type(aType) == keyvalue.TypeMinimum
	bLast := bColLen == 0 && keyvalue.Type(bType) == keyvalue.TypeMinimum
	if aLast != bLast {
		if aLast {
			return 1
		}
		return -1
	}
	aFirst := aColLen == 0 && keyvalue.Type(aType) == keyvalue.TypeMaximum
	bFirst := bColLen == 0 && keyvalue.Type(bType) == keyvalue.TypeMaximum
	if aFirst != bFirst {
		if aFirst {
			return -1
		}
		return 1
	}
	return 0
}

// compareWithoutRow orders two keys of the same row by column, timestamp and
// type. commonPrefix counts the leading key bytes known to be equal,
// including the row length and the row.
func compareWithoutRow(commonPrefix int, a, b keyvalue.Key) int {
	// family data starts right after row length, row and family length
	famAt := keyvalue.RowLengthSize + a.RowLength() + keyvalue.FamilyLengthSize
	aColLen := len(a) - famAt - keyvalue.TimestampTypeSize
	bColLen := len(b) - famAt - keyvalue.TimestampTypeSize
	aType, bType := a.TypeByte(), b.TypeByte()

	if r := compareSentinels(aColLen, aType, bColLen, bType); r != 0 {
		return r
	}

	aFamLen := int(a[famAt-keyvalue.FamilyLengthSize])
	bFamLen := int(b[famAt-keyvalue.FamilyLengthSize])
	sameFamilyLength := aFamLen == bFamLen

	skip := 0
	if commonPrefix > 0 {
		skip = max(0, commonPrefix-famAt)
		if sameFamilyLength {
			skip = min(skip, aColLen, bColLen)
		} else {
			skip = min(skip, aFamLen, bFamLen)
		}
	}

	// Families of different lengths never compare equal, so the family
	// alone decides. Otherwise family and qualifier compare as one range.
	if !sameFamilyLength {
		return bytes.Compare(a[famAt+skip:famAt+aFamLen], b[famAt+skip:famAt+bFamLen])
	}
	if r := bytes.Compare(a[famAt+skip:famAt+aColLen], b[famAt+skip:famAt+bColLen]); r != 0 {
		return r
	}

	if r := CompareTimestamps(a.Timestamp(), b.Timestamp()); r != 0 {
		return r
	}
	return compareTypes(aType, bType)
}

// compareFields compares row, family and qualifier as independent byte
// ranges, then timestamps newest first, then type codes in ascending order.
func compareFields(a, b keyvalue.Key) int {
	if r := bytes.Compare(a.Row(), b.Row()); r != 0 {
		return r
	}
	if r := bytes.Compare(a.Family(), b.Family()); r != 0 {
		return r
	}
	if r := bytes.Compare(a.Qualifier(), b.Qualifier()); r != 0 {
		return r
	}
	if r := CompareTimestamps(a.Timestamp(), b.Timestamp()); r != 0 {
		return r
	}
	return -compareTypes(a.TypeByte(), b.TypeByte())
}

// catalogRow is a catalog row split at its first and last delimiter.
type catalogRow struct {
	prefix    []byte
	hasMiddle bool
	middle    []byte
	hasSuffix bool
	suffix    []byte
}

func splitCatalogRow(row []byte) catalogRow {
	first := bytes.IndexByte(row, common.CatalogDelimiter)
	if first < 0 {
		return catalogRow{prefix: row}
	}
	cr := catalogRow{prefix: row[:first], hasMiddle: true}
	rest := row[first+1:]
	last := bytes.LastIndexByte(rest, common.CatalogDelimiter)
	if last < 0 {
		cr.middle = rest
		return cr
	}
	cr.middle = rest[:last]
	cr.hasSuffix = true
	cr.suffix = rest[last+1:]
	return cr
}

// compareCatalogRows compares the prefix, middle and suffix segments in
// turn. When a segment ties, a row lacking the following delimiter sorts
// before one that has it.
func compareCatalogRows(a, b []byte) int {
	ra, rb := splitCatalogRow(a), splitCatalogRow(b)
	if r := bytes.Compare(ra.prefix, rb.prefix); r != 0 {
		return r
	}
	if r := comparePresence(ra.hasMiddle, rb.hasMiddle); r != 0 || !ra.hasMiddle {
		return r
	}
	if r := bytes.Compare(ra.middle, rb.middle); r != 0 {
		return r
	}
	if r := comparePresence(ra.hasSuffix, rb.hasSuffix); r != 0 || !ra.hasSuffix {
		return r
	}
	return bytes.Compare(ra.suffix, rb.suffix)
}

func comparePresence(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// CommonPrefix returns the number of leading bytes a and b share.
func CommonPrefix(a, b []byte) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
