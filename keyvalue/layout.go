package keyvalue

import "math"

// Field widths of the packed record. Multi-byte integers are big-endian.
//
//	+-------------+---------------+-----+------------------------------------------+-------+--------------+------+
//	| KeyLen (4)  | ValueLen (4)  | Key                                            | Value | TagsLen (2)  | Tags |
//	+-------------+---------------+-----+------------------------------------------+-------+--------------+------+
//
// The key itself is
//
//	+------------+-----+------------+--------+-----------+---------------+----------+
//	| RowLen (2) | Row | FamLen (1) | Family | Qualifier | Timestamp (8) | Type (1) |
//	+------------+-----+------------+--------+-----------+---------------+----------+
const (
	KeyLengthSize    = 4
	ValueLengthSize  = 4
	RowLengthSize    = 2
	FamilyLengthSize = 1
	TimestampSize    = 8
	TypeSize         = 1
	TagsLengthSize   = 2
	TagLengthSize    = 2
	TagTypeSize      = 1

	TimestampTypeSize = TimestampSize + TypeSize

	// KeyInfrastructureSize is the fixed part of a key: row length, family
	// length, timestamp and type.
	KeyInfrastructureSize = RowLengthSize + FamilyLengthSize + TimestampTypeSize
	// RowOffset is where the key starts relative to the record start.
	RowOffset = KeyLengthSize + ValueLengthSize
	// KeyValueInfrastructureSize is the fixed header of a record.
	KeyValueInfrastructureSize = RowOffset
	// KeyValueWithTagsInfrastructureSize is the fixed overhead of a record
	// that carries tags.
	KeyValueWithTagsInfrastructureSize = KeyValueInfrastructureSize + TagsLengthSize

	MaxRowLength    = math.MaxInt16
	MaxFamilyLength = math.MaxInt8
	// MaxTagsLength is the largest tags region the 2-byte length can describe.
	MaxTagsLength = 2*math.MaxInt16 + 1
	// MaxTagLength bounds the per-tag length field (type byte plus value).
	MaxTagLength = MaxTagsLength - TagLengthSize
)

// KeyDataStructureSize returns the size of a key with the given component
// lengths.
func KeyDataStructureSize(rowLen, familyLen, qualifierLen int) int64 {
	return int64(KeyInfrastructureSize) + int64(rowLen) + int64(familyLen) + int64(qualifierLen)
}

// KeyValueDataStructureSize returns the size of a record without tags.
func KeyValueDataStructureSize(rowLen, familyLen, qualifierLen, valueLen int) int64 {
	return int64(KeyValueInfrastructureSize) + KeyDataStructureSize(rowLen, familyLen, qualifierLen) + int64(valueLen)
}

// KeyValueDataStructureSizeWithTags returns the size of a record whose tags
// region is tagsLen bytes. A zero tagsLen means no tags region at all.
func KeyValueDataStructureSizeWithTags(rowLen, familyLen, qualifierLen, valueLen, tagsLen int) int64 {
	if tagsLen == 0 {
		return KeyValueDataStructureSize(rowLen, familyLen, qualifierLen, valueLen)
	}
	return int64(KeyValueWithTagsInfrastructureSize) + KeyDataStructureSize(rowLen, familyLen, qualifierLen) +
		int64(valueLen) + int64(tagsLen)
}

// RecordSize returns the size of a record given its key, value and tags lengths.
func RecordSize(keyLen, valueLen, tagsLen int) int {
	if tagsLen == 0 {
		return KeyValueInfrastructureSize + keyLen + valueLen
	}
	return KeyValueWithTagsInfrastructureSize + keyLen + valueLen + tagsLen
}
