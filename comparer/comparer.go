package comparer

import (
	"bytes"
	"fmt"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/keyvalue"
)

// IComparator defines a total ordering over records. All comparison results
// are -1, 0 or +1.
type IComparator interface {
	// Name identifies the ordering. Stores built with one comparator must be
	// read back with a comparator of the same name.
	Name() string
	Class() Class

	// Compare orders two cells by their keys. Sequence numbers are ignored,
	// see CompareWithSeqNum.
	Compare(a, b keyvalue.Cell) int
	// CompareKeys orders two flat keys.
	CompareKeys(a, b keyvalue.Key) int
	// CompareIgnoringPrefix is CompareKeys for keys whose first commonPrefix
	// bytes are known to be equal. The result is the same as CompareKeys.
	CompareIgnoringPrefix(commonPrefix int, a, b keyvalue.Key) int

	// CompareRows orders two row keys.
	CompareRows(a, b []byte) int
	// CompareCellRows orders the rows of two cells.
	CompareCellRows(a, b keyvalue.Cell) int
	// CompareColumns orders the columns of two keys, family then qualifier.
	CompareColumns(a, b keyvalue.Key) int

	MatchingRows(a, b keyvalue.Cell) bool
	MatchingRowColumn(a, b keyvalue.Cell) bool

	// ShortMidpointKey returns a short key m with left <= m <= right. left
	// may be nil, right may not, and left must sort strictly before right.
	ShortMidpointKey(left, right keyvalue.Key) (keyvalue.Key, error)
	// CalcIndexKey returns the key to index a block whose first key is first
	// and whose predecessor block ends with prev. It never fails: when no
	// valid midpoint can be derived it logs and returns first.
	CalcIndexKey(prev, first keyvalue.Key) keyvalue.Key
}

type comparator struct {
	class Class
	name  string
}

var (
	standardComparator = &comparator{class: Standard, name: "hbase.KeyValueComparator"}
	catalogComparator  = &comparator{class: Catalog, name: "hbase.CatalogComparator"}
	rawComparator      = &comparator{class: Raw, name: "hbase.RawComparator"}
)

// NewComparer returns the comparator of the given class. Comparators are
// stateless and shared.
func NewComparer(class Class) (IComparator, error) {
	switch class {
	case Standard:
		return standardComparator, nil
	case Catalog:
		return catalogComparator, nil
	case Raw:
		return rawComparator, nil
	default:
		return nil, fmt.Errorf("%w: unknown comparator class %d", common.MalformedInputError, class)
	}
}

// StandardComparator, CatalogComparator and RawComparator return the shared
// instances directly.
func StandardComparator() IComparator { return standardComparator }
func CatalogComparator() IComparator  { return catalogComparator }
func RawComparator() IComparator      { return rawComparator }

func (c *comparator) Name() string {
	return c.name
}

func (c *comparator) Class() Class {
	return c.class
}

func (c *comparator) Compare(a, b keyvalue.Cell) int {
	return c.CompareKeys(a.Key(), b.Key())
}

func (c *comparator) CompareKeys(a, b keyvalue.Key) int {
	if c.class == Raw {
		return compareFields(a, b)
	}
	if r := c.CompareRows(a.Row(), b.Row()); r != 0 {
		return r
	}
	return compareWithoutRow(0, a, b)
}

func (c *comparator) CompareIgnoringPrefix(commonPrefix int, a, b keyvalue.Key) int {
	switch c.class {
	case Raw:
		return compareFields(a, b)
	case Catalog:
		// Row segments are located from both ends of the row, so a shared
		// prefix only helps once it covers the whole row.
		if commonPrefix < keyvalue.RowLengthSize+a.RowLength() {
			if r := c.CompareRows(a.Row(), b.Row()); r != 0 {
				return r
			}
		}
		return compareWithoutRow(commonPrefix, a, b)
	}

	var r int
	if commonPrefix < keyvalue.RowLengthSize {
		r = bytes.Compare(a.Row(), b.Row())
	} else if rowLen := a.RowLength(); commonPrefix < keyvalue.RowLengthSize+rowLen {
		// row lengths are equal, skip the shared part of the rows
		skip := commonPrefix - keyvalue.RowLengthSize
		r = bytes.Compare(a.Row()[skip:], b.Row()[skip:])
	}
	if r != 0 {
		return r
	}
	return compareWithoutRow(commonPrefix, a, b)
}

func (c *comparator) CompareRows(a, b []byte) int {
	if c.class == Catalog {
		return compareCatalogRows(a, b)
	}
	return bytes.Compare(a, b)
}

func (c *comparator) CompareCellRows(a, b keyvalue.Cell) int {
	return c.CompareRows(a.Key().Row(), b.Key().Row())
}

func (c *comparator) CompareColumns(a, b keyvalue.Key) int {
	if r := bytes.Compare(a.Family(), b.Family()); r != 0 {
		return r
	}
	return bytes.Compare(a.Qualifier(), b.Qualifier())
}

func (c *comparator) MatchingRows(a, b keyvalue.Cell) bool {
	return bytes.Equal(a.Key().Row(), b.Key().Row())
}

func (c *comparator) MatchingRowColumn(a, b keyvalue.Cell) bool {
	ak, bk := a.Key(), b.Key()
	if ak.RowLength()+ak.ColumnLength() != bk.RowLength()+bk.ColumnLength() {
		return false
	}
	return bytes.Equal(ak.Row(), bk.Row()) &&
		bytes.Equal(ak.Family(), bk.Family()) &&
		bytes.Equal(ak.Qualifier(), bk.Qualifier())
}

// CompareWithSeqNum is Compare with the sequence number as the final
// tiebreak: the higher sequence number sorts first.
func CompareWithSeqNum(c IComparator, a, b keyvalue.Cell) int {
	if r := c.Compare(a, b); r != 0 {
		return r
	}
	switch sa, sb := a.SeqNum(), b.SeqNum(); {
	case sa > sb:
		return -1
	case sa < sb:
		return 1
	default:
		return 0
	}
}

var _ IComparator = (*comparator)(nil)
