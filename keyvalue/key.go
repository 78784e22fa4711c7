package keyvalue

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/mantoudev/hbase/common"
)

// Key is the flat key portion of a record:
// [rowLen:2][row][famLen:1][family][qualifier][timestamp:8][type:1].
//
// All accessors slice into the key without copying. They assume a
// well-formed key, see ValidateKey.
type Key []byte

// ValidateKey checks that the embedded row and family lengths fit into k.
func ValidateKey(k []byte) error {
	if len(k) < KeyInfrastructureSize {
		return fmt.Errorf("%w: key length %d < %d", common.MalformedInputError, len(k), KeyInfrastructureSize)
	}
	rowLen := int(binary.BigEndian.Uint16(k))
	if rowLen > MaxRowLength {
		return fmt.Errorf("%w: row length %d > %d", common.MalformedInputError, rowLen, MaxRowLength)
	}
	if RowLengthSize+rowLen+FamilyLengthSize+TimestampTypeSize > len(k) {
		return fmt.Errorf("%w: row length %d overflows key of %d bytes", common.MalformedInputError, rowLen, len(k))
	}
	famLen := int(k[RowLengthSize+rowLen])
	if famLen > MaxFamilyLength {
		return fmt.Errorf("%w: family length %d > %d", common.MalformedInputError, famLen, MaxFamilyLength)
	}
	if KeyInfrastructureSize+rowLen+famLen > len(k) {
		return fmt.Errorf("%w: family length %d overflows key of %d bytes", common.MalformedInputError, famLen, len(k))
	}
	return nil
}

// Key lets a bare key be used wherever a Cell is expected.
func (k Key) Key() Key { return k }

// SeqNum of a bare key is always zero.
func (k Key) SeqNum() SeqNum { return 0 }

func (k Key) RowLength() int {
	return int(binary.BigEndian.Uint16(k))
}

// RowOffset is relative to the key start.
func (k Key) RowOffset() int {
	return RowLengthSize
}

func (k Key) Row() []byte {
	return k[RowLengthSize : RowLengthSize+k.RowLength()]
}

func (k Key) familyLengthOffset(rowLen int) int {
	return RowLengthSize + rowLen
}

func (k Key) FamilyOffset() int {
	return k.familyLengthOffset(k.RowLength()) + FamilyLengthSize
}

func (k Key) FamilyLength() int {
	return int(k[k.familyLengthOffset(k.RowLength())])
}

func (k Key) Family() []byte {
	off := k.FamilyOffset()
	return k[off : off+k.FamilyLength()]
}

func (k Key) QualifierOffset() int {
	return k.FamilyOffset() + k.FamilyLength()
}

// QualifierLength is derived: what is left of the key once the fixed
// overhead, the row and the family are accounted for.
func (k Key) QualifierLength() int {
	return len(k) - KeyInfrastructureSize - k.RowLength() - k.FamilyLength()
}

func (k Key) Qualifier() []byte {
	off := k.QualifierOffset()
	return k[off : off+k.QualifierLength()]
}

// Column returns family and qualifier as one contiguous range.
func (k Key) Column() []byte {
	return k[k.FamilyOffset():k.TimestampOffset()]
}

// ColumnLength is family length plus qualifier length.
func (k Key) ColumnLength() int {
	return len(k) - KeyInfrastructureSize - k.RowLength()
}

func (k Key) TimestampOffset() int {
	return len(k) - TimestampTypeSize
}

func (k Key) Timestamp() int64 {
	return int64(binary.BigEndian.Uint64(k[k.TimestampOffset():]))
}

func (k Key) TypeByte() byte {
	return k[len(k)-1]
}

func (k Key) Type() Type {
	return Type(k.TypeByte())
}

// IsLatestTimestamp reports whether the timestamp is the "latest" sentinel.
func (k Key) IsLatestTimestamp() bool {
	return k.Timestamp() == common.LatestTimestamp
}

// Clone returns a copy of k backed by a fresh buffer.
func (k Key) Clone() Key {
	if k == nil {
		return nil
	}
	out := make(Key, len(k))
	copy(out, k)
	return out
}

// String renders k as row/family:qualifier/timestamp/Type.
func (k Key) String() string {
	if len(k) == 0 {
		return "empty"
	}
	if ValidateKey(k) != nil {
		return "malformed:" + common.ToStringBinary(k)
	}
	var sb strings.Builder
	sb.WriteString(common.ToStringBinary(k.Row()))
	sb.WriteByte('/')
	if fam := k.Family(); len(fam) > 0 {
		sb.WriteString(common.ToStringBinary(fam))
		sb.WriteByte(common.ColumnFamilyDelimiter)
	}
	sb.WriteString(common.ToStringBinary(k.Qualifier()))
	sb.WriteByte('/')
	sb.WriteString(HumanReadableTimestamp(k.Timestamp()))
	sb.WriteByte('/')
	sb.WriteString(k.Type().String())
	return sb.String()
}

// HumanReadableTimestamp renders the two timestamp sentinels by name.
func HumanReadableTimestamp(ts int64) string {
	switch ts {
	case common.LatestTimestamp:
		return "LATEST_TIMESTAMP"
	case common.OldestTimestamp:
		return "OLDEST_TIMESTAMP"
	default:
		return strconv.FormatInt(ts, 10)
	}
}

// ParseColumn splits "family:qualifier" at the first delimiter. A column with
// no delimiter is a bare family.
func ParseColumn(column []byte) (family, qualifier []byte) {
	for i, b := range column {
		if b == common.ColumnFamilyDelimiter {
			return column[:i], column[i+1:]
		}
	}
	return column, nil
}

// MakeColumn joins family and qualifier with the column delimiter.
func MakeColumn(family, qualifier []byte) []byte {
	out := make([]byte, 0, len(family)+1+len(qualifier))
	out = append(out, family...)
	out = append(out, common.ColumnFamilyDelimiter)
	return append(out, qualifier...)
}
