package comparer

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/keyvalue"
)

func (c *comparator) ShortMidpointKey(left, right keyvalue.Key) (keyvalue.Key, error) {
	if right == nil {
		return nil, fmt.Errorf("%w: right key can not be nil", common.MalformedInputError)
	}
	if left == nil {
		return right.Clone(), nil
	}
	if c.CompareKeys(left, right) >= 0 {
		return nil, fmt.Errorf("%w: left key %s does not sort before right key %s",
			common.MalformedInputError, left, right)
	}
	if c.class != Standard {
		// segmented and raw rows get no separator tricks
		return right.Clone(), nil
	}

	if bytes.Equal(left.Row(), right.Row()) {
		return sameRowMidpoint(left, right), nil
	}

	leftRow, rightRow := left.Row(), right.Row()
	diffIdx := CommonPrefix(leftRow, rightRow)
	var newRow []byte
	switch {
	case diffIdx >= len(leftRow):
		// left row is a prefix of right row
		newRow = bytes.Clone(rightRow[:diffIdx+1])
	case leftRow[diffIdx] < 0xff && leftRow[diffIdx]+1 < rightRow[diffIdx]:
		newRow = make([]byte, diffIdx+1)
		copy(newRow, leftRow[:diffIdx])
		newRow[diffIdx] = leftRow[diffIdx] + 1
	default:
		return right.Clone(), nil
	}

	kv, err := keyvalue.FirstOnRow(newRow)
	if err != nil {
		return nil, err
	}
	return kv.Key(), nil
}

// sameRowMidpoint handles left and right sharing a row.
func sameRowMidpoint(left, right keyvalue.Key) keyvalue.Key {
	out := right.Clone()
	// nothing sorts between two versions of one column
	if bytes.Equal(left.Column(), right.Column()) {
		return out
	}
	// The last-on-row sentinel has no column to position at.
	if right.ColumnLength() == 0 && right.Type() == keyvalue.TypeMinimum {
		return out
	}
	binary.BigEndian.PutUint64(out[out.TimestampOffset():], uint64(common.LatestTimestamp))
	out[len(out)-1] = byte(keyvalue.TypeMaximum)
	return out
}

func (c *comparator) CalcIndexKey(prev, first keyvalue.Key) keyvalue.Key {
	key, _ := IndexKey(c, prev, first)
	return key
}

// IndexKey computes the block index key like CalcIndexKey and also reports
// whether it had to fall back to first because the midpoint was unusable.
func IndexKey(c IComparator, prev, first keyvalue.Key) (keyvalue.Key, bool) {
	if c.Class() == Raw {
		return first, false
	}
	fake, err := c.ShortMidpointKey(prev, first)
	if err != nil {
		zap.L().Error("Unable to compute a midpoint index key",
			zap.Stringer("prev", prev),
			zap.Stringer("first", first),
			zap.Error(err))
		return first, true
	}
	if c.CompareKeys(fake, first) > 0 {
		zap.L().Error("Unexpected midpoint key, sorts after the first key of the block",
			zap.Stringer("fake", fake),
			zap.Stringer("first", first))
		return first, true
	}
	if prev != nil && c.CompareKeys(prev, fake) >= 0 {
		zap.L().Error("Unexpected midpoint key, sorts before the last key of the previous block",
			zap.Stringer("prev", prev),
			zap.Stringer("fake", fake))
		return first, true
	}
	return fake, false
}
