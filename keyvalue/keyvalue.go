package keyvalue

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/mantoudev/hbase/common"
)

// SeqNum is the multi-version sequence number of a record. It lives outside
// the packed bytes and is not part of the comparable key. Zero means
// "don't care".
type SeqNum uint64

// KeyValue is a packed record: an immutable byte range [offset, offset+length)
// of buf. Every field is derived from that range by offset arithmetic.
//
// A KeyValue may be read by any number of goroutines. The sequence number is
// the only mutable state and has a single owner, see SetSeqNum.
type KeyValue struct {
	buf    []byte
	offset int
	length int
	seq    SeqNum
}

// Buffer returns the backing buffer, which may hold more than this record.
func (kv *KeyValue) Buffer() []byte {
	return kv.buf
}

func (kv *KeyValue) Offset() int {
	return kv.offset
}

func (kv *KeyValue) Length() int {
	return kv.length
}

// Bytes returns the packed record without copying.
func (kv *KeyValue) Bytes() []byte {
	return kv.buf[kv.offset : kv.offset+kv.length : kv.offset+kv.length]
}

func (kv *KeyValue) KeyOffset() int {
	return kv.offset + RowOffset
}

func (kv *KeyValue) KeyLength() int {
	return int(binary.BigEndian.Uint32(kv.buf[kv.offset:]))
}

func (kv *KeyValue) ValueLength() int {
	return int(binary.BigEndian.Uint32(kv.buf[kv.offset+KeyLengthSize:]))
}

// Key returns the flat key without copying.
func (kv *KeyValue) Key() Key {
	off := kv.KeyOffset()
	end := off + kv.KeyLength()
	return Key(kv.buf[off:end:end])
}

// RowOffset is absolute within Buffer.
func (kv *KeyValue) RowOffset() int {
	return kv.KeyOffset() + RowLengthSize
}

func (kv *KeyValue) RowLength() int {
	return int(binary.BigEndian.Uint16(kv.buf[kv.KeyOffset():]))
}

func (kv *KeyValue) Row() []byte {
	return kv.Key().Row()
}

// FamilyOffset is absolute within Buffer.
func (kv *KeyValue) FamilyOffset() int {
	return kv.KeyOffset() + kv.Key().FamilyOffset()
}

func (kv *KeyValue) FamilyLength() int {
	return kv.Key().FamilyLength()
}

func (kv *KeyValue) Family() []byte {
	return kv.Key().Family()
}

// QualifierOffset is absolute within Buffer.
func (kv *KeyValue) QualifierOffset() int {
	return kv.KeyOffset() + kv.Key().QualifierOffset()
}

func (kv *KeyValue) QualifierLength() int {
	return kv.Key().QualifierLength()
}

func (kv *KeyValue) Qualifier() []byte {
	return kv.Key().Qualifier()
}

// TimestampOffset is absolute within Buffer.
func (kv *KeyValue) TimestampOffset() int {
	return kv.KeyOffset() + kv.KeyLength() - TimestampTypeSize
}

func (kv *KeyValue) Timestamp() int64 {
	return int64(binary.BigEndian.Uint64(kv.buf[kv.TimestampOffset():]))
}

func (kv *KeyValue) TypeByte() byte {
	return kv.buf[kv.KeyOffset()+kv.KeyLength()-1]
}

func (kv *KeyValue) Type() Type {
	return Type(kv.TypeByte())
}

// IsDelete reports whether the record is any kind of delete marker.
func (kv *KeyValue) IsDelete() bool {
	return IsDelete(kv.TypeByte())
}

// ValueOffset is absolute within Buffer.
func (kv *KeyValue) ValueOffset() int {
	return kv.KeyOffset() + kv.KeyLength()
}

func (kv *KeyValue) Value() []byte {
	off := kv.ValueOffset()
	end := off + kv.ValueLength()
	return kv.buf[off:end:end]
}

// TagsLength is derived from the record length: anything past the value is
// the 2-byte tags length followed by the tags.
func (kv *KeyValue) TagsLength() int {
	n := kv.length - (kv.KeyLength() + kv.ValueLength() + KeyValueInfrastructureSize)
	if n > 0 {
		n -= TagsLengthSize
	}
	return max(n, 0)
}

// TagsOffset is absolute within Buffer.
func (kv *KeyValue) TagsOffset() int {
	return kv.offset + kv.length - kv.TagsLength()
}

// Tags returns the raw tags region without copying.
func (kv *KeyValue) Tags() []byte {
	off := kv.TagsOffset()
	end := off + kv.TagsLength()
	return kv.buf[off:end:end]
}

// TagList decodes the tags region.
func (kv *KeyValue) TagList() ([]Tag, error) {
	if kv.TagsLength() == 0 {
		return nil, nil
	}
	return ParseTags(kv.Tags())
}

func (kv *KeyValue) SeqNum() SeqNum {
	return kv.seq
}

// SetSeqNum assigns the sequence number. Only the owner coordinating
// visibility may call it and it must not race with readers of SeqNum.
func (kv *KeyValue) SetSeqNum(seq SeqNum) {
	kv.seq = seq
}

func (kv *KeyValue) IsLatestTimestamp() bool {
	return kv.Timestamp() == common.LatestTimestamp
}

// UpdateLatestStamp replaces a LatestTimestamp with now. It is the one
// in-place rewrite of the packed bytes and is meant for the write path, before
// the record is shared. It reports whether the timestamp was rewritten.
func (kv *KeyValue) UpdateLatestStamp(now int64) bool {
	if !kv.IsLatestTimestamp() {
		return false
	}
	binary.BigEndian.PutUint64(kv.buf[kv.TimestampOffset():], uint64(now))
	return true
}

// Clone deep copies the record into a fresh buffer, keeping the sequence number.
func (kv *KeyValue) Clone() *KeyValue {
	buf := make([]byte, kv.length)
	copy(buf, kv.Bytes())
	return &KeyValue{buf: buf, length: kv.length, seq: kv.seq}
}

// ShallowCopy returns a new handle sharing the backing buffer.
func (kv *KeyValue) ShallowCopy() *KeyValue {
	return &KeyValue{buf: kv.buf, offset: kv.offset, length: kv.length, seq: kv.seq}
}

// CreateKeyOnly returns a record holding only the key of kv. With lenAsVal the
// value is the original value length as a 4-byte big-endian integer, otherwise
// the value is empty. Tags are dropped.
func (kv *KeyValue) CreateKeyOnly(lenAsVal bool) *KeyValue {
	dataLen := 0
	if lenAsVal {
		dataLen = ValueLengthSize
	}
	keyEnd := RowOffset + kv.KeyLength()
	buf := make([]byte, keyEnd+dataLen)
	copy(buf, kv.buf[kv.offset:kv.offset+keyEnd])
	binary.BigEndian.PutUint32(buf[KeyLengthSize:], uint32(dataLen))
	if lenAsVal {
		binary.BigEndian.PutUint32(buf[keyEnd:], uint32(kv.ValueLength()))
	}
	return &KeyValue{buf: buf, length: len(buf)}
}

// Equal reports whether both cells carry the same key bytes. Values, tags and
// sequence numbers are ignored.
func (kv *KeyValue) Equal(other Cell) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(kv.Key(), other.Key())
}

// The Copy* helpers allocate and are meant for client code and tests, not for
// comparison or scan paths.

func (kv *KeyValue) CopyKey() Key {
	return kv.Key().Clone()
}

func (kv *KeyValue) CopyRow() []byte {
	return bytes.Clone(kv.Row())
}

func (kv *KeyValue) CopyFamily() []byte {
	return bytes.Clone(kv.Family())
}

func (kv *KeyValue) CopyQualifier() []byte {
	return bytes.Clone(kv.Qualifier())
}

func (kv *KeyValue) CopyValue() []byte {
	return bytes.Clone(kv.Value())
}

func (kv *KeyValue) CopyTags() []byte {
	return bytes.Clone(kv.Tags())
}

const keyValueOverhead = int64(unsafe.Sizeof(KeyValue{}))

// HeapSize approximates the memory held by the record, counting the whole
// backing buffer when the record owns it from the start.
func (kv *KeyValue) HeapSize() int64 {
	if kv.offset == 0 {
		return keyValueOverhead + int64(cap(kv.buf))
	}
	return keyValueOverhead + int64(kv.length)
}

func (kv *KeyValue) String() string {
	if kv == nil || kv.buf == nil {
		return "empty"
	}
	return fmt.Sprintf("%s/vlen=%d/seqid=%d", kv.Key(), kv.ValueLength(), kv.seq)
}

// ToStringMap describes the record as a flat map, for diagnostics.
func (kv *KeyValue) ToStringMap() map[string]any {
	m := map[string]any{
		"row":       common.ToStringBinary(kv.Row()),
		"family":    common.ToStringBinary(kv.Family()),
		"qualifier": common.ToStringBinary(kv.Qualifier()),
		"timestamp": kv.Timestamp(),
		"vlen":      kv.ValueLength(),
	}
	if tags, err := kv.TagList(); err == nil && len(tags) > 0 {
		strs := make([]string, len(tags))
		for i, t := range tags {
			strs[i] = t.String()
		}
		m["tag"] = strs
	}
	return m
}

// validateRecord checks the header of the record at buf[offset:offset+length]
// against its length and the layout of its key.
func validateRecord(buf []byte, offset, length int) error {
	if offset < 0 || length < KeyValueInfrastructureSize || offset+length > len(buf) {
		return fmt.Errorf("%w: record [%d,+%d) out of buffer of %d bytes",
			common.MalformedInputError, offset, length, len(buf))
	}
	keyLen := int64(binary.BigEndian.Uint32(buf[offset:]))
	valueLen := int64(binary.BigEndian.Uint32(buf[offset+KeyLengthSize:]))
	base := int64(KeyValueInfrastructureSize) + keyLen + valueLen
	if base > int64(length) {
		return fmt.Errorf("%w: key length %d and value length %d overflow record of %d bytes",
			common.MalformedInputError, keyLen, valueLen, length)
	}
	if extra := int64(length) - base; extra > 0 {
		if extra < TagsLengthSize {
			return fmt.Errorf("%w: %d trailing bytes cannot hold a tags length", common.MalformedInputError, extra)
		}
		tagsAt := offset + int(base)
		if declared := int64(binary.BigEndian.Uint16(buf[tagsAt:])); declared != extra-TagsLengthSize {
			return fmt.Errorf("%w: tags length %d does not match %d trailing bytes",
				common.MalformedInputError, declared, extra-TagsLengthSize)
		}
	}
	keyStart := offset + RowOffset
	return ValidateKey(buf[keyStart : keyStart+int(keyLen)])
}
