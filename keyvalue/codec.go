package keyvalue

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mantoudev/hbase/common"
)

// Options tune record construction.
type Options struct {
	// MaxValueLength bounds the value length.
	//
	// The default value is common.MaxValueLength.
	MaxValueLength int

	// Tags are appended after the value, in order.
	Tags []Tag
}

type OptFn func(o *Options)

func WithMaxValueLength(n int) OptFn {
	return func(o *Options) {
		o.MaxValueLength = n
	}
}

func WithTags(tags ...Tag) OptFn {
	return func(o *Options) {
		o.Tags = append(o.Tags, tags...)
	}
}

func buildOptions(opts []OptFn) *Options {
	o := &Options{MaxValueLength: common.MaxValueLength}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// checkLengths validates component lengths and returns the record size.
func checkLengths(rowLen, familyLen, qualifierLen, valueLen, tagsLen, maxValueLen int) (int, error) {
	if rowLen < 0 || familyLen < 0 || qualifierLen < 0 || valueLen < 0 || tagsLen < 0 {
		return 0, fmt.Errorf("%w: negative length", common.MalformedInputError)
	}
	if rowLen > MaxRowLength {
		return 0, fmt.Errorf("%w: row length %d > %d", common.SizeViolationError, rowLen, MaxRowLength)
	}
	if familyLen > MaxFamilyLength {
		return 0, fmt.Errorf("%w: family length %d > %d", common.SizeViolationError, familyLen, MaxFamilyLength)
	}
	if int64(qualifierLen) > int64(math.MaxInt32)-int64(rowLen)-int64(familyLen) {
		return 0, fmt.Errorf("%w: qualifier length %d > %d", common.SizeViolationError,
			qualifierLen, int64(math.MaxInt32)-int64(rowLen)-int64(familyLen))
	}
	if keyLen := KeyDataStructureSize(rowLen, familyLen, qualifierLen); keyLen > math.MaxInt32 {
		return 0, fmt.Errorf("%w: key length %d > %d", common.SizeViolationError, keyLen, math.MaxInt32)
	}
	if valueLen > maxValueLen {
		return 0, fmt.Errorf("%w: value length %d > %d", common.SizeViolationError, valueLen, maxValueLen)
	}
	if tagsLen > MaxTagsLength {
		return 0, fmt.Errorf("%w: tags length %d > %d", common.SizeViolationError, tagsLen, MaxTagsLength)
	}
	if tagsLen > 0 && tagsLen < TagLengthSize+TagTypeSize {
		return 0, fmt.Errorf("%w: tags length %d < %d, too short for one tag",
			common.SizeViolationError, tagsLen, TagLengthSize+TagTypeSize)
	}
	size := KeyValueDataStructureSizeWithTags(rowLen, familyLen, qualifierLen, valueLen, tagsLen)
	if size > math.MaxInt32 {
		return 0, fmt.Errorf("%w: record length %d > %d", common.SizeViolationError, size, math.MaxInt32)
	}
	return int(size), nil
}

// writeHeader writes every fixed-width field of the record at dst[0:] and
// returns the offsets of the row, the family, the qualifier, the value and
// the tags.
func writeHeader(dst []byte, rowLen, familyLen, qualifierLen int, ts int64, typ Type, valueLen, tagsLen int) (rowAt, famAt, qualAt, valueAt, tagsAt int) {
	keyLen := int(KeyDataStructureSize(rowLen, familyLen, qualifierLen))
	pos := 0
	binary.BigEndian.PutUint32(dst[pos:], uint32(keyLen))
	pos += KeyLengthSize
	binary.BigEndian.PutUint32(dst[pos:], uint32(valueLen))
	pos += ValueLengthSize
	binary.BigEndian.PutUint16(dst[pos:], uint16(rowLen))
	pos += RowLengthSize
	rowAt = pos
	pos += rowLen
	dst[pos] = byte(familyLen)
	pos += FamilyLengthSize
	famAt = pos
	pos += familyLen
	qualAt = pos
	pos += qualifierLen
	binary.BigEndian.PutUint64(dst[pos:], uint64(ts))
	pos += TimestampSize
	dst[pos] = byte(typ)
	pos += TypeSize
	valueAt = pos
	pos += valueLen
	if tagsLen > 0 {
		binary.BigEndian.PutUint16(dst[pos:], uint16(tagsLen))
		pos += TagsLengthSize
	}
	tagsAt = pos
	return
}

func pack(dst []byte, row, family, qualifier []byte, ts int64, typ Type, value []byte, tags []Tag, tagsLen int) {
	rowAt, famAt, qualAt, valueAt, tagsAt := writeHeader(dst, len(row), len(family), len(qualifier), ts, typ, len(value), tagsLen)
	copy(dst[rowAt:], row)
	copy(dst[famAt:], family)
	copy(dst[qualAt:], qualifier)
	copy(dst[valueAt:], value)
	putTags(dst[tagsAt:], tags)
}

// New packs the fields into a freshly allocated, tightly sized record. Empty
// or nil family, qualifier and value are allowed.
func New(row, family, qualifier []byte, ts int64, typ Type, value []byte, opts ...OptFn) (*KeyValue, error) {
	o := buildOptions(opts)
	tagsLen, err := TagsLength(o.Tags)
	if err != nil {
		return nil, err
	}
	size, err := checkLengths(len(row), len(family), len(qualifier), len(value), tagsLen, o.MaxValueLength)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	pack(buf, row, family, qualifier, ts, typ, value, o.Tags, tagsLen)
	return &KeyValue{buf: buf, length: size}, nil
}

// PackInto writes the record into dst starting at offset and returns the
// number of bytes written. It fails if dst has not enough room left.
func PackInto(dst []byte, offset int, row, family, qualifier []byte, ts int64, typ Type, value []byte, opts ...OptFn) (int, error) {
	o := buildOptions(opts)
	tagsLen, err := TagsLength(o.Tags)
	if err != nil {
		return 0, err
	}
	size, err := checkLengths(len(row), len(family), len(qualifier), len(value), tagsLen, o.MaxValueLength)
	if err != nil {
		return 0, err
	}
	if offset < 0 || offset > len(dst) {
		return 0, fmt.Errorf("%w: offset %d out of buffer of %d bytes", common.MalformedInputError, offset, len(dst))
	}
	if remaining := len(dst) - offset; size > remaining {
		return 0, fmt.Errorf("%w: buffer size %d < %d", common.SizeViolationError, remaining, size)
	}
	pack(dst[offset:offset+size], row, family, qualifier, ts, typ, value, o.Tags, tagsLen)
	return size, nil
}

// NewEmpty allocates a record from lengths alone. Every fixed-width field is
// written; the row, family, qualifier, value and tags bytes are left zeroed
// for the caller to fill in through Buffer and the *Offset accessors.
func NewEmpty(rowLen, familyLen, qualifierLen int, ts int64, typ Type, valueLen, tagsLen int, opts ...OptFn) (*KeyValue, error) {
	o := buildOptions(opts)
	size, err := checkLengths(rowLen, familyLen, qualifierLen, valueLen, tagsLen, o.MaxValueLength)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	writeHeader(buf, rowLen, familyLen, qualifierLen, ts, typ, valueLen, tagsLen)
	return &KeyValue{buf: buf, length: size}, nil
}

// NewFromBytes wraps the record starting at buf[offset]. The length is
// inferred from the key and value lengths, so a tags region is not included;
// use NewFromBytesLen when the full length is known.
func NewFromBytes(buf []byte, offset int) (*KeyValue, error) {
	if offset < 0 || offset+KeyValueInfrastructureSize > len(buf) {
		return nil, fmt.Errorf("%w: no record header at offset %d of %d bytes",
			common.MalformedInputError, offset, len(buf))
	}
	length := int64(KeyValueInfrastructureSize) +
		int64(binary.BigEndian.Uint32(buf[offset:])) +
		int64(binary.BigEndian.Uint32(buf[offset+KeyLengthSize:]))
	if length > int64(len(buf)-offset) {
		return nil, fmt.Errorf("%w: record length %d overflows buffer of %d bytes",
			common.MalformedInputError, length, len(buf)-offset)
	}
	return NewFromBytesLen(buf, offset, int(length))
}

// NewFromBytesLen wraps buf[offset:offset+length] as a record without copying.
func NewFromBytesLen(buf []byte, offset, length int) (*KeyValue, error) {
	if err := validateRecord(buf, offset, length); err != nil {
		return nil, err
	}
	return &KeyValue{buf: buf, offset: offset, length: length}, nil
}

// NewFromKey builds a record with an empty value around a copy of key.
func NewFromKey(key Key) (*KeyValue, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if len(key) > math.MaxInt32-KeyValueInfrastructureSize {
		return nil, fmt.Errorf("%w: key length %d > %d", common.SizeViolationError,
			len(key), math.MaxInt32-KeyValueInfrastructureSize)
	}
	buf := make([]byte, KeyValueInfrastructureSize+len(key))
	binary.BigEndian.PutUint32(buf, uint32(len(key)))
	copy(buf[RowOffset:], key)
	return &KeyValue{buf: buf, length: len(buf)}, nil
}

// CloneAndAddTags returns a copy of kv whose tags are kv's tags followed by tags.
func CloneAndAddTags(kv *KeyValue, tags ...Tag) (*KeyValue, error) {
	existing, err := kv.TagList()
	if err != nil {
		return nil, err
	}
	all := make([]Tag, 0, len(existing)+len(tags))
	all = append(all, existing...)
	all = append(all, tags...)
	out, err := New(kv.Row(), kv.Family(), kv.Qualifier(), kv.Timestamp(), kv.Type(), kv.Value(),
		WithMaxValueLength(math.MaxInt32), WithTags(all...))
	if err != nil {
		return nil, err
	}
	out.seq = kv.seq
	return out, nil
}

// FirstOnRow returns the smallest possible record on row: no column, the
// latest timestamp and TypeMaximum.
func FirstOnRow(row []byte) (*KeyValue, error) {
	return New(row, nil, nil, common.LatestTimestamp, TypeMaximum, nil)
}

// FirstOnRowAt is FirstOnRow positioned at timestamp ts.
func FirstOnRowAt(row []byte, ts int64) (*KeyValue, error) {
	return New(row, nil, nil, ts, TypeMaximum, nil)
}

// FirstOnRowColumn returns the smallest possible record of the column.
func FirstOnRowColumn(row, family, qualifier []byte) (*KeyValue, error) {
	return New(row, family, qualifier, common.LatestTimestamp, TypeMaximum, nil)
}

// LastOnRow returns a record sorting after every other record of row.
func LastOnRow(row []byte) (*KeyValue, error) {
	return New(row, nil, nil, common.LatestTimestamp, TypeMinimum, nil)
}

// LastOnRowColumn returns the largest possible record of the column.
func LastOnRowColumn(row, family, qualifier []byte) (*KeyValue, error) {
	return New(row, family, qualifier, common.OldestTimestamp, TypeMinimum, nil)
}

// LowestKey returns a record with an empty row that sorts before every other
// record under the standard ordering.
func LowestKey() *KeyValue {
	kv, _ := FirstOnRow(nil)
	return kv
}
