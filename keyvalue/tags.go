package keyvalue

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/mantoudev/hbase/common"
)

// Tag is a typed metadata entry stored after the value. Encoded as
// [length:2][type:1][value] where length covers type and value.
type Tag struct {
	Type  byte
	Value []byte
}

// EncodedLength is the number of bytes the tag occupies in a tags region.
func (t Tag) EncodedLength() int {
	return TagLengthSize + TagTypeSize + len(t.Value)
}

func (t Tag) String() string {
	return fmt.Sprintf("%d:%s", t.Type, common.ToStringBinary(t.Value))
}

func (t Tag) validate() error {
	if n := TagTypeSize + len(t.Value); n > MaxTagLength {
		return fmt.Errorf("%w: tag length %d > %d", common.SizeViolationError, n, MaxTagLength)
	}
	return nil
}

// TagsLength returns the encoded size of tags, validating each one.
func TagsLength(tags []Tag) (int, error) {
	total := 0
	for _, t := range tags {
		if err := t.validate(); err != nil {
			return 0, err
		}
		total += t.EncodedLength()
	}
	if total > MaxTagsLength {
		return 0, fmt.Errorf("%w: tags length %d > %d", common.SizeViolationError, total, MaxTagsLength)
	}
	return total, nil
}

// putTags writes the tags back to back into dst and returns the bytes written.
// dst must be large enough.
func putTags(dst []byte, tags []Tag) int {
	pos := 0
	for _, t := range tags {
		binary.BigEndian.PutUint16(dst[pos:], uint16(TagTypeSize+len(t.Value)))
		pos += TagLengthSize
		dst[pos] = t.Type
		pos += TagTypeSize
		pos += copy(dst[pos:], t.Value)
	}
	return pos
}

// ParseTags decodes a tags region. Returned values alias region.
func ParseTags(region []byte) ([]Tag, error) {
	var tags []Tag
	for pos := 0; pos < len(region); {
		if pos+TagLengthSize+TagTypeSize > len(region) {
			return nil, fmt.Errorf("%w: truncated tag header at %d", common.MalformedInputError, pos)
		}
		n := int(binary.BigEndian.Uint16(region[pos:]))
		if n < TagTypeSize || pos+TagLengthSize+n > len(region) {
			return nil, fmt.Errorf("%w: tag length %d at %d overflows region of %d bytes",
				common.MalformedInputError, n, pos, len(region))
		}
		start := pos + TagLengthSize
		tags = append(tags, Tag{
			Type:  region[start],
			Value: region[start+TagTypeSize : start+n],
		})
		pos = start + n
	}
	return tags, nil
}

func tagsString(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}
