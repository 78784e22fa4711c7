// Package keyvalue implements the packed record format of a wide-column
// store: one contiguous byte range holding a cell's coordinates, its value
// and optional tags.
//
// # Record Format
//
// All integers are big-endian.
//
//	[KeyLength(4)][ValueLength(4)][Key][Value][TagsLength(2)][Tags]
//
// The key is the sortable part of the record:
//
//	[RowLength(2)][Row][FamilyLength(1)][Family][Qualifier][Timestamp(8)][Type(1)]
//
// The qualifier length is not stored; it is what remains of the key after the
// fixed fields, the row and the family. The tags section is present only when
// the record is longer than KeyLength + ValueLength + 8, and a tags length of
// zero is never written.
//
// Each tag is
//
//	[TagLength(2)][TagType(1)][TagValue]
//
// where TagLength counts the type byte and the value.
//
// # Views
//
// KeyValue wraps a record in a larger buffer without copying; its accessors
// return sub-slices of that buffer. Key is a bare flat key with the same
// accessors, and KeyOnlyKeyValue is a rebindable view used to walk index
// keys without allocating. Records are immutable once built, except for
// UpdateLatestStamp, which rewrites the timestamp in place.
//
// # Streams
//
// Records travel as [Length(4)][Record] frames. A zero length, or the reader
// ending between frames, marks the end of the stream.
//
//	var buf bytes.Buffer
//	sw := keyvalue.NewStreamWriter(&buf, true)
//	if err := sw.Write(kv); err != nil {
//	    return err
//	}
//	if err := sw.Close(); err != nil {
//	    return err
//	}
//
//	kvs, err := keyvalue.NewStreamReader(&buf).ReadAll()
package keyvalue
