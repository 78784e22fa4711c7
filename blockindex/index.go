package blockindex

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/comparer"
	"github.com/mantoudev/hbase/keyvalue"
)

// Encoded entry layout, all big-endian:
//
//	[key length:4][key][offset:8][length:8][records:4]
const (
	keyLengthSize  = 4
	entryTrailSize = 8 + 8 + 4
)

// Entry locates one block of a framed record stream.
type Entry struct {
	// Key sorts after every key of the previous block and at or before the
	// first key of this block.
	Key     keyvalue.Key
	Offset  int64
	Length  int64
	Records int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s@%d+%d(%d records)", e.Key, e.Offset, e.Length, e.Records)
}

func appendEntry(dst []byte, e Entry) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(e.Key)))
	dst = append(dst, e.Key...)
	dst = binary.BigEndian.AppendUint64(dst, uint64(e.Offset))
	dst = binary.BigEndian.AppendUint64(dst, uint64(e.Length))
	return binary.BigEndian.AppendUint32(dst, uint32(e.Records))
}

// Index maps keys to the blocks of a sorted record stream. Entries are kept
// encoded in one buffer; lookups bind a key-only view onto it instead of
// decoding. An Index is immutable and safe for concurrent readers.
type Index struct {
	cmp     comparer.IComparator
	buf     []byte
	offsets []int
}

// Decode opens an index encoded by Encode. The index must have been built
// under a comparator of the same name as cmp.
func Decode(cmp comparer.IComparator, b []byte) (*Index, error) {
	if len(b) < 1 || len(b) < 1+int(b[0]) {
		return nil, fmt.Errorf("%w: index header truncated", common.MalformedInputError)
	}
	name := string(b[1 : 1+b[0]])
	if name != cmp.Name() {
		return nil, fmt.Errorf("%w: index built with %s, opened with %s",
			common.MalformedInputError, name, cmp.Name())
	}

	ix := &Index{cmp: cmp, buf: b[1+len(name):]}
	for off := 0; off < len(ix.buf); {
		if len(ix.buf)-off < keyLengthSize {
			return nil, fmt.Errorf("%w: index entry at %d truncated", common.MalformedInputError, off)
		}
		keyLen := int64(binary.BigEndian.Uint32(ix.buf[off:]))
		size := keyLengthSize + keyLen + entryTrailSize
		if size > int64(len(ix.buf)-off) {
			return nil, fmt.Errorf("%w: index entry at %d truncated", common.MalformedInputError, off)
		}
		if err := keyvalue.ValidateKey(ix.buf[off+keyLengthSize : off+keyLengthSize+int(keyLen)]); err != nil {
			return nil, fmt.Errorf("index entry at %d: %w", off, err)
		}
		ix.offsets = append(ix.offsets, off)
		off += int(size)
	}
	return ix, nil
}

// Encode returns [name length:1][comparator name][entries...].
func (ix *Index) Encode() []byte {
	name := ix.cmp.Name()
	out := make([]byte, 0, 1+len(name)+len(ix.buf))
	out = append(out, byte(len(name)))
	out = append(out, name...)
	return append(out, ix.buf...)
}

func (ix *Index) Len() int {
	return len(ix.offsets)
}

// Entry decodes the i-th entry. The key is a copy.
func (ix *Index) Entry(i int) Entry {
	off := ix.offsets[i]
	keyLen := int(binary.BigEndian.Uint32(ix.buf[off:]))
	keyAt := off + keyLengthSize
	trail := ix.buf[keyAt+keyLen:]
	return Entry{
		Key:     keyvalue.Key(ix.buf[keyAt : keyAt+keyLen]).Clone(),
		Offset:  int64(binary.BigEndian.Uint64(trail)),
		Length:  int64(binary.BigEndian.Uint64(trail[8:])),
		Records: int(binary.BigEndian.Uint32(trail[16:])),
	}
}

func (ix *Index) Entries() []Entry {
	out := make([]Entry, ix.Len())
	for i := range out {
		out[i] = ix.Entry(i)
	}
	return out
}

// bind points view at the key of the i-th entry.
func (ix *Index) bind(view *keyvalue.KeyOnlyKeyValue, i int) keyvalue.Key {
	off := ix.offsets[i]
	view.SetKey(ix.buf, off+keyLengthSize, int(binary.BigEndian.Uint32(ix.buf[off:])))
	return view.Key()
}

// Search returns the only block that may hold key. It returns false when key
// sorts before the first block.
func (ix *Index) Search(key keyvalue.Key) (Entry, bool) {
	n := ix.Len()
	view := keyvalue.NewKeyOnly(nil, 0, 0)
	at := func(i int) keyvalue.Key {
		return ix.bind(view, i)
	}

	i := comparer.SearchKey(ix.cmp, n, at, key)
	if i < n && ix.cmp.CompareKeys(at(i), key) == 0 {
		return ix.Entry(i), true
	}
	if i == 0 {
		return Entry{}, false
	}
	return ix.Entry(i - 1), true
}

// ReadBlock reads the records of block e from a framed stream.
func ReadBlock(r io.ReaderAt, e Entry) ([]*keyvalue.KeyValue, error) {
	sr := keyvalue.NewStreamReader(io.NewSectionReader(r, e.Offset, e.Length))
	kvs, err := sr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(kvs) != e.Records {
		return nil, fmt.Errorf("%w: block at %d holds %d records, index says %d",
			common.StreamCorruptionError, e.Offset, len(kvs), e.Records)
	}
	return kvs, nil
}
